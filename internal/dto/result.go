package dto

import (
	"encoding/json"
	"time"

	"shipwatch/internal/model"
)

// ResultResponse is a stored detection result with its category name.
type ResultResponse struct {
	ID           int64     `json:"id"`
	VideoID      int64     `json:"video_id"`
	FrameID      string    `json:"frame_id"`
	Category     int       `json:"category"`
	CategoryName string    `json:"category_name"`
	ShipID       string    `json:"ship_id"`
	BBox         string    `json:"bbox"`
	ShipBBox     string    `json:"ship_bbox"`
	RegionURL    string    `json:"region_url"`
	Timestamp    string    `json:"timestamp"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewResultResponse(r model.Result) ResultResponse {
	return ResultResponse{
		ID:           r.ID,
		VideoID:      r.VideoID,
		FrameID:      r.FrameID,
		Category:     r.Category,
		CategoryName: model.CategoryName(r.Category),
		ShipID:       r.ShipID,
		BBox:         r.BBox,
		ShipBBox:     r.ShipBBox,
		RegionURL:    r.RegionURL,
		Timestamp:    r.Timestamp,
		Confidence:   r.Confidence,
		CreatedAt:    r.CreatedAt,
	}
}

func NewResultResponses(results []model.Result) []ResultResponse {
	out := make([]ResultResponse, 0, len(results))
	for _, r := range results {
		out = append(out, NewResultResponse(r))
	}
	return out
}

// MarshalJSON formats created_at as "YYYY-MM-DD HH:MM:SS".
func (r ResultResponse) MarshalJSON() ([]byte, error) {
	type Alias ResultResponse
	return json.Marshal(&struct {
		Alias
		CreatedAt string `json:"created_at"`
	}{
		Alias:     (Alias)(r),
		CreatedAt: formatTime(r.CreatedAt),
	})
}
