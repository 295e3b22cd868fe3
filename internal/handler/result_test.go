package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shipwatch/internal/dto"
	"shipwatch/internal/model"
	"shipwatch/internal/repository/sqldb"
)

func seedResults(t *testing.T, results *sqldb.ResultRepository) {
	t.Helper()
	rows := []model.Result{
		{VideoID: 1, Category: 4, ShipID: "HL-2024", Timestamp: "00:00:00", Confidence: 0.9},
		{VideoID: 1, Category: 4, ShipID: "HL-2024", Timestamp: "00:00:03", Confidence: 0.8},
		{VideoID: 1, Category: 5, ShipID: "", Timestamp: "00:00:06", Confidence: 0.7},
		{VideoID: 2, Category: 1, ShipID: "ORE-7", Timestamp: "00:00:00", Confidence: 0.95},
	}
	for i := range rows {
		rows[i].RegionURL = fmt.Sprintf("http://host/%d.jpg", i)
		if _, err := results.Insert(&rows[i]); err != nil {
			t.Fatalf("Failed to insert result: %v", err)
		}
	}
}

// ========================================
// Result Query Tests
// ========================================

func TestResultHandlers(t *testing.T) {
	results := sqldb.NewResultRepository(setupTestDB(t))
	seedResults(t, results)
	log := testLogger(t)

	tests := []struct {
		name      string
		handler   http.HandlerFunc
		query     string
		wantCount int
	}{
		{"by video", GetResultsByVideoIDHandler(results, log), "?video_id=1", 3},
		{"by video with limit", GetResultsByVideoIDHandler(results, log), "?video_id=1&limit=2", 2},
		{"by unknown video", GetResultsByVideoIDHandler(results, log), "?video_id=42", 0},
		{"by ship id", GetResultsByShipIDHandler(results, log), "?ship_id=HL-2024", 2},
		{"by category", GetResultsByCategoryHandler(results, log), "?category=1", 1},
		{"all", GetAllResultsHandler(results, log), "", 4},
		{"all with limit", GetAllResultsHandler(results, log), "?limit=1", 1},
		{"all with max limit", GetAllResultsHandler(results, log), "?limit=1000", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result/x"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}
			var resp []dto.ResultResponse
			decodeBody(t, w, &resp)
			if len(resp) != tt.wantCount {
				t.Errorf("Expected %d results, got %d", tt.wantCount, len(resp))
			}
		})
	}
}

func TestResultHandlers_CategoryName(t *testing.T) {
	results := sqldb.NewResultRepository(setupTestDB(t))
	seedResults(t, results)

	w := httptest.NewRecorder()
	GetResultsByCategoryHandler(results, testLogger(t)).ServeHTTP(w,
		httptest.NewRequest(http.MethodGet, "/api/result/get_results_by_category?category=5", nil))

	var resp []dto.ResultResponse
	decodeBody(t, w, &resp)
	if len(resp) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(resp))
	}
	if resp[0].CategoryName != "fishing boat" {
		t.Errorf("Expected fishing boat, got %s", resp[0].CategoryName)
	}
	if resp[0].FrameID == "" {
		t.Error("Expected generated frame_id")
	}
}

func TestResultHandlers_Validation(t *testing.T) {
	results := sqldb.NewResultRepository(setupTestDB(t))
	seedResults(t, results)
	log := testLogger(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		query   string
	}{
		{"video id missing", GetResultsByVideoIDHandler(results, log), ""},
		{"video id not a number", GetResultsByVideoIDHandler(results, log), "?video_id=abc"},
		{"video id zero", GetResultsByVideoIDHandler(results, log), "?video_id=0"},
		{"video id negative", GetResultsByVideoIDHandler(results, log), "?video_id=-7"},
		{"ship id missing", GetResultsByShipIDHandler(results, log), "?ship_id="},
		{"category zero", GetResultsByCategoryHandler(results, log), "?category=0"},
		{"category too large", GetResultsByCategoryHandler(results, log), "?category=7"},
		{"limit above max", GetAllResultsHandler(results, log), "?limit=1001"},
		{"limit not a number", GetAllResultsHandler(results, log), "?limit=ten"},
		{"limit zero", GetAllResultsHandler(results, log), "?limit=0"},
		{"limit negative", GetAllResultsHandler(results, log), "?limit=-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result/x"+tt.query, nil))

			if w.Code != http.StatusUnprocessableEntity {
				t.Errorf("Expected status 422, got %d", w.Code)
			}
			if detail(t, w) == "" {
				t.Error("Expected detail message")
			}
			if strings.Contains(w.Body.String(), "HL-2024") {
				t.Errorf("Expected no result rows, got %s", w.Body.String())
			}
		})
	}
}

func TestResultStatsHandler(t *testing.T) {
	results := sqldb.NewResultRepository(setupTestDB(t))
	seedResults(t, results)

	w := httptest.NewRecorder()
	ResultStatsHandler(results, testLogger(t)).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/result/stats", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var stats model.ResultStats
	decodeBody(t, w, &stats)
	if stats.TotalResults != 4 {
		t.Errorf("Expected 4 results, got %d", stats.TotalResults)
	}
	if stats.TotalVideos != 2 {
		t.Errorf("Expected 2 videos, got %d", stats.TotalVideos)
	}
	if stats.PerCategory[4] != 2 {
		t.Errorf("Expected 2 container ships, got %d", stats.PerCategory[4])
	}
}
