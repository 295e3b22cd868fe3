package dto

import (
	"encoding/json"
	"time"

	"shipwatch/internal/model"
)

// AddVideoRequest is the body of POST /api/video/add_video.
type AddVideoRequest struct {
	VideoName string `json:"video_name"`
	VideoURL  string `json:"video_url"`
}

// VideoResponse describes a video with its status as text.
type VideoResponse struct {
	ID        int64     `json:"id"`
	VideoName string    `json:"video_name"`
	VideoURL  string    `json:"video_url"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func NewVideoResponse(v model.Video) VideoResponse {
	return VideoResponse{
		ID:        v.ID,
		VideoName: v.Name,
		VideoURL:  v.URL,
		Status:    v.Status.String(),
		CreatedAt: v.CreatedAt,
	}
}

// MarshalJSON formats created_at as "YYYY-MM-DD HH:MM:SS".
func (v VideoResponse) MarshalJSON() ([]byte, error) {
	type Alias VideoResponse
	return json.Marshal(&struct {
		Alias
		CreatedAt string `json:"created_at"`
	}{
		Alias:     (Alias)(v),
		CreatedAt: formatTime(v.CreatedAt),
	})
}
