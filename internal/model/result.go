package model

import "time"

// Result is one detected ship in one sampled frame of a video.
type Result struct {
	ID         int64     `json:"id"`
	VideoID    int64     `json:"video_id"`
	FrameID    string    `json:"frame_id"`
	Category   int       `json:"category"`
	ShipID     string    `json:"ship_id"`
	BBox       string    `json:"bbox"`      // ramka numeru burtowego względem wycinka
	ShipBBox   string    `json:"ship_bbox"` // ramka statku względem klatki
	RegionURL  string    `json:"region_url"`
	Timestamp  string    `json:"timestamp"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// ResultFilter narrows result queries. Zero values mean "any".
type ResultFilter struct {
	VideoID  int64
	ShipID   string
	Category int
	Limit    int
}

// ResultStats summarizes stored results.
type ResultStats struct {
	TotalResults int           `json:"total_results"`
	TotalVideos  int           `json:"total_videos"`
	PerCategory  map[int]int   `json:"per_category"`
	PerVideo     map[int64]int `json:"per_video"`
}
