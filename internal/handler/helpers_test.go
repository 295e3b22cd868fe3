package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/service/ai"

	"github.com/disintegration/imaging"
)

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

// fakeJobs records submitted videos instead of processing them.
type fakeJobs struct {
	mu        sync.Mutex
	submitted []model.Video
	err       error
}

func (j *fakeJobs) Submit(video model.Video) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.submitted = append(j.submitted, video)
	return nil
}

type fakeDetector struct {
	detections []ai.Detection
	err        error
	threshold  float64
}

func (d *fakeDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]ai.Detection, error) {
	d.threshold = threshold
	if d.err != nil {
		return nil, d.err
	}
	return d.detections, nil
}

func (d *fakeDetector) Close() error { return nil }

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

type fakeAnalyzer struct {
	results []dto.ImageDetection
	err     error
	size    image.Point
}

func (a *fakeAnalyzer) AnalyzeImage(ctx context.Context, img image.Image) ([]dto.ImageDetection, error) {
	a.size = img.Bounds().Size()
	return a.results, a.err
}

// fakeStreamer emits the prepared frames and records the file it was given.
type fakeStreamer struct {
	frames  []dto.StreamFrame
	path    string
	content []byte
}

func (s *fakeStreamer) Stream(ctx context.Context, path string, emit func(dto.StreamFrame) error) error {
	s.path = path
	s.content, _ = os.ReadFile(path)
	for _, f := range s.frames {
		if err := emit(f); err != nil {
			return err
		}
	}
	return nil
}

var errBackend = errors.New("backend unavailable")

// pngBytes encodes a solid w x h picture.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, imaging.New(w, h, color.NRGBA{20, 40, 80, 255})); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST with one file field and optional text fields.
func multipartRequest(t *testing.T, target, field, filename string, content []byte, values map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range values {
		writer.WriteField(k, v)
	}
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(content)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.ErrorResponse
	decodeBody(t, w, &resp)
	return resp.Detail
}
