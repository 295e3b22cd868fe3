package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"sync"
	"testing"

	"shipwatch/internal/logger"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/service/ai"

	"github.com/disintegration/imaging"
)

// fakeDetector returns the same detections for every image.
type fakeDetector struct {
	detections []ai.Detection
	err        error
	calls      int
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]ai.Detection, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	out := make([]ai.Detection, len(d.detections))
	copy(out, d.detections)
	return out, nil
}

func (d *fakeDetector) Close() error { return nil }

// fakeRecognizer returns the same lines for every crop.
type fakeRecognizer struct {
	lines []ai.TextLine
	err   error
}

func (r *fakeRecognizer) Recognize(ctx context.Context, img image.Image) ([]ai.TextLine, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.lines, nil
}

func (r *fakeRecognizer) Close() error { return nil }

type fakeUploader struct {
	mu    sync.Mutex
	url   string
	err   error
	paths []string
}

func (u *fakeUploader) Upload(ctx context.Context, path string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.paths = append(u.paths, path)
	if u.err != nil {
		return "", u.err
	}
	return u.url, nil
}

// fakeSource yields solid-colored frames of the given size.
type fakeSource struct {
	fps     float64
	frames  int
	width   int
	height  int
	failAt  int // -1 disables
	pos     int
	decoded []int
	closed  bool
}

func newFakeSource(fps float64, frames int) *fakeSource {
	return &fakeSource{fps: fps, frames: frames, width: 200, height: 100, failAt: -1}
}

func (s *fakeSource) FPS() float64 { return s.fps }

func (s *fakeSource) Next(decode bool) (image.Image, bool, error) {
	if s.pos == s.failAt {
		return nil, false, errors.New("corrupt frame")
	}
	if s.pos >= s.frames {
		return nil, false, nil
	}
	index := s.pos
	s.pos++
	if !decode {
		return nil, true, nil
	}
	s.decoded = append(s.decoded, index)
	return imaging.New(s.width, s.height, color.NRGBA{30, 60, 90, 255}), true, nil
}

func (s *fakeSource) Close() error {
	s.closed = true
	return nil
}

func openerFor(src *fakeSource) SourceOpener {
	return func(path string) (FrameSource, error) {
		return src, nil
	}
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l := logger.NewWithWriters(t.TempDir(), io.Discard, io.Discard)
	t.Cleanup(func() { l.Close() })
	return l
}

func setupTestDB(t *testing.T) *sqldb.DB {
	t.Helper()
	db, err := sqldb.New(sqldb.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// shipDetection is a ship in the middle of a 200x100 frame.
func shipDetection() ai.Detection {
	return ai.Detection{Box: image.Rect(40, 20, 140, 80), Score: 0.87654, ClassID: 3, CategoryID: 4, Label: "container ship"}
}

func hullNumber() []ai.TextLine {
	return []ai.TextLine{
		{Text: " HL-2024 ", Score: 0.93456, Box: []image.Point{{10, 5}, {50, 5}, {50, 20}, {10, 20}}},
		{Text: "noise", Score: 0.6, Box: []image.Point{{0, 0}, {5, 0}, {5, 5}, {0, 5}}},
	}
}
