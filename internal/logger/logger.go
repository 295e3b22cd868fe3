package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"shipwatch/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	InfoFile    = "info.log"
	WarningFile = "warning.log"
	ErrorFile   = "error.log"
)

// Logger provides leveled logging (info/warning/error) to rotating files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	files      map[string]*lumberjack.Logger
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) *Logger {
	return newLogger(config.LogDirectory, os.Stdout, os.Stderr)
}

// NewWithWriters builds a Logger that mirrors entries to the given console writers.
// Tests pass io.Discard to keep output quiet.
func NewWithWriters(logDir string, stdout, stderr io.Writer) *Logger {
	return newLogger(logDir, stdout, stderr)
}

func newLogger(logDir string, stdout, stderr io.Writer) *Logger {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	l := &Logger{
		logDir: logDir,
		files:  make(map[string]*lumberjack.Logger),
	}

	infoWriter := io.MultiWriter(stdout, l.rotatingFile(InfoFile))
	warningWriter := io.MultiWriter(stdout, l.rotatingFile(WarningFile))
	errorWriter := io.MultiWriter(stderr, l.rotatingFile(ErrorFile))

	l.infoLog = log.New(infoWriter, "ℹ️  INFO    ", log.Ldate|log.Ltime|log.Lshortfile)
	l.warningLog = log.New(warningWriter, "⚠️  WARNING ", log.Ldate|log.Ltime|log.Lshortfile)
	l.errorLog = log.New(errorWriter, "❌ ERROR   ", log.Ldate|log.Ltime|log.Lshortfile)
	return l
}

func (l *Logger) rotatingFile(name string) *lumberjack.Logger {
	file := &lumberjack.Logger{
		Filename:   filepath.Join(l.logDir, name),
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     14, // dni
	}
	l.files[name] = file
	return file
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// CleanLogs rotates the specified log file so the current one starts empty.
func (l *Logger) CleanLogs(fileName string) error {
	l.mu.Lock()
	file, ok := l.files[fileName]
	l.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown log file: %s", fileName)
	}

	if err := file.Rotate(); err != nil {
		l.Error("Error rotating %s: %v", fileName, err)
		return err
	}

	l.Info("File %s has been cleared.", fileName)
	return nil
}

// Path returns the location of a log file managed by this logger.
func (l *Logger) Path(fileName string) string {
	return filepath.Join(l.logDir, fileName)
}

// Close flushes and closes all log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	var firstErr error
	for _, file := range l.files {
		if err := file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
