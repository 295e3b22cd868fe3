package route

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shipwatch/internal/auth"
	"shipwatch/internal/config"
	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository/sqldb"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/websocket"

	"github.com/disintegration/imaging"
)

type noopJobs struct{}

func (noopJobs) Submit(model.Video) error { return nil }

type stubDetector struct{}

func (stubDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]ai.Detection, error) {
	return nil, nil
}
func (stubDetector) Close() error { return nil }

type stubRecognizer struct{}

func (stubRecognizer) Recognize(ctx context.Context, img image.Image) ([]ai.TextLine, error) {
	return nil, nil
}
func (stubRecognizer) Close() error { return nil }

type stubAnalyzer struct{}

func (stubAnalyzer) AnalyzeImage(ctx context.Context, img image.Image) ([]dto.ImageDetection, error) {
	return []dto.ImageDetection{}, nil
}

type stubStreamer struct{}

func (stubStreamer) Stream(ctx context.Context, path string, emit func(dto.StreamFrame) error) error {
	return emit(dto.StreamFrame{Status: dto.StreamStatusDone})
}

func setupRouter(t *testing.T, authRequired bool) (http.Handler, *auth.Service, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		OutputDirectory: dir,
		MaxUploadMB:     1,
		AuthRequired:    authRequired,
		ImageHost:       "local",
	}

	log := logger.NewWithWriters(filepath.Join(dir, "logs"), io.Discard, io.Discard)
	t.Cleanup(func() { log.Close() })

	db, err := sqldb.New(sqldb.DriverSQLite, filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authService, err := auth.NewService("route-secret", time.Minute)
	if err != nil {
		t.Fatalf("Failed to create auth service: %v", err)
	}

	router := SetupRoutes(Dependencies{
		Config:     cfg,
		Logger:     log,
		Auth:       authService,
		Videos:     sqldb.NewVideoRepository(db),
		Results:    sqldb.NewResultRepository(db),
		Profiles:   sqldb.NewShipProfileRepository(db),
		Jobs:       noopJobs{},
		Hub:        websocket.NewHubService(log),
		Images:     stubAnalyzer{},
		Streamer:   stubStreamer{},
		Detector:   stubDetector{},
		Recognizer: stubRecognizer{},
	})
	return router, authService, cfg
}

func bearer(t *testing.T, authService *auth.Service, username string) string {
	t.Helper()
	token, err := authService.IssueToken(username)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return "Bearer " + token
}

func imageUpload(t *testing.T, target, field string) *http.Request {
	t.Helper()
	var img bytes.Buffer
	png.Encode(&img, imaging.New(16, 16, color.White))

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, _ := writer.CreateFormFile(field, "x.png")
	part.Write(img.Bytes())
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// ========================================
// Routing Tests
// ========================================

func TestRoutes_OpenWhenAuthDisabled(t *testing.T) {
	router, _, _ := setupRouter(t, false)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/v1/health", http.StatusOK},
		{http.MethodGet, "/api/video/get_all_videos", http.StatusOK},
		{http.MethodGet, "/api/video/get_video_ids", http.StatusOK},
		{http.MethodGet, "/api/result/get_all_results", http.StatusOK},
		{http.MethodGet, "/api/result/get_results_by_video_id?video_id=1", http.StatusOK},
		{http.MethodGet, "/api/result/stats", http.StatusOK},
		{http.MethodGet, "/api/ship_id/ship_profiles", http.StatusOK},
		{http.MethodGet, "/api/ship_id/categories", http.StatusOK},
		{http.MethodDelete, "/api/video/delete_video/5", http.StatusNotFound},
		{http.MethodGet, "/api/video/delete_video/5", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/auth/users/me", http.StatusUnauthorized},
		{http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestRoutes_AuthRequired(t *testing.T) {
	router, authService, _ := setupRouter(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/video/get_all_videos", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without token, got %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/video/get_all_videos", nil)
	req.Header.Set("Authorization", bearer(t, authService, "user1"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 with token, got %d", w.Code)
	}

	// health stays public
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected public health check, got %d", w.Code)
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	router, authService, _ := setupRouter(t, false)

	tests := []struct {
		user string
		want int
	}{
		{"admin", http.StatusOK},
		{"user1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/admin-only", nil)
			req.Header.Set("Authorization", bearer(t, authService, tt.user))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRoutes_TokenFlow(t *testing.T) {
	router, _, _ := setupRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		strings.NewReader("username=user1&password=user123"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var token dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &token)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if !strings.Contains(w.Body.String(), `"username":"user1"`) {
		t.Errorf("Expected current user, got %s", w.Body.String())
	}
}

func TestRoutes_SampleAliases(t *testing.T) {
	router, _, _ := setupRouter(t, false)

	for _, prefix := range []string{"/api/sample", "/api/picture"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, imageUpload(t, prefix+"/test_image", "image"))
		if w.Code != http.StatusOK {
			t.Errorf("Expected %s/test_image to answer 200, got %d", prefix, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"results":[]`) {
			t.Errorf("Unexpected body from %s: %s", prefix, w.Body.String())
		}
	}
}

func TestRoutes_ModelEndpoints(t *testing.T) {
	router, _, _ := setupRouter(t, false)

	for _, path := range []string{
		"/api/v1/predict/yolov8/data",
		"/api/v1/predict/yolov8/image",
		"/api/ppocr/recognize_text_from_image",
		"/api/ppocr/detect_text_regions_from_image",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, imageUpload(t, path, "file"))
		if w.Code != http.StatusOK {
			t.Errorf("Expected %s to answer 200, got %d: %s", path, w.Code, w.Body.String())
		}
	}
}

func TestRoutes_HostedFiles(t *testing.T) {
	router, _, cfg := setupRouter(t, false)

	os.MkdirAll(cfg.HostedDirectory(), 0755)
	os.WriteFile(filepath.Join(cfg.HostedDirectory(), "crop.jpg"), []byte("jpeg"), 0644)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/hosted/crop.jpg", nil))
	if w.Code != http.StatusOK || w.Body.String() != "jpeg" {
		t.Errorf("Expected hosted crop, got %d %q", w.Code, w.Body.String())
	}
}

func TestRoutes_CORSPreflight(t *testing.T) {
	router, _, _ := setupRouter(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/api/video/get_all_videos", nil)
	req.Header.Set("Origin", "http://dashboard.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Expected CORS headers on preflight")
	}
	if w.Code == http.StatusUnauthorized {
		t.Error("Preflight must not require a token")
	}
}
