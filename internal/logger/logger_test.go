package logger

import (
	"io"
	"os"
	"strings"
	"testing"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	l := NewWithWriters(t.TempDir(), io.Discard, io.Discard)
	t.Cleanup(func() { l.Close() })
	return l
}

func readLog(t *testing.T, l *Logger, name string) string {
	t.Helper()
	data, err := os.ReadFile(l.Path(name))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	return string(data)
}

func TestLogger_WritesPerLevel(t *testing.T) {
	l := newTestLogger(t)

	l.Info("video %d queued", 7)
	l.Warning("upload slow for %s", "frame.jpg")
	l.Error("detector failed: %v", "boom")

	if got := readLog(t, l, InfoFile); !strings.Contains(got, "video 7 queued") {
		t.Errorf("info.log missing entry: %q", got)
	}
	if got := readLog(t, l, WarningFile); !strings.Contains(got, "upload slow for frame.jpg") {
		t.Errorf("warning.log missing entry: %q", got)
	}
	if got := readLog(t, l, ErrorFile); !strings.Contains(got, "detector failed: boom") {
		t.Errorf("error.log missing entry: %q", got)
	}
	if got := readLog(t, l, InfoFile); strings.Contains(got, "detector failed") {
		t.Error("error entries must not reach info.log")
	}
}

func TestLogger_ReportsCallerFile(t *testing.T) {
	l := newTestLogger(t)

	l.Info("caller check")

	if got := readLog(t, l, InfoFile); !strings.Contains(got, "logger_test.go") {
		t.Errorf("Expected caller file in entry, got %q", got)
	}
}

func TestLogger_CleanLogs(t *testing.T) {
	l := newTestLogger(t)

	l.Info("old entry")
	if err := l.CleanLogs(InfoFile); err != nil {
		t.Fatalf("CleanLogs failed: %v", err)
	}

	got := readLog(t, l, InfoFile)
	if strings.Contains(got, "old entry") {
		t.Errorf("Expected info.log to be cleared, got %q", got)
	}
}

func TestLogger_CleanLogsUnknownFile(t *testing.T) {
	l := newTestLogger(t)

	if err := l.CleanLogs("debug.log"); err == nil {
		t.Error("Expected error for unknown log file")
	}
}
