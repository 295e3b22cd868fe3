package model

import "time"

// VideoStatus is the processing state of a submitted video.
type VideoStatus int

const (
	VideoProcessing VideoStatus = 1
	VideoCompleted  VideoStatus = 2
	VideoFailed     VideoStatus = 3
)

func (s VideoStatus) String() string {
	switch s {
	case VideoProcessing:
		return "processing"
	case VideoCompleted:
		return "completed"
	case VideoFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transitions happen from this status.
func (s VideoStatus) Terminal() bool {
	return s == VideoCompleted || s == VideoFailed
}

// Video represents a submitted video record.
type Video struct {
	ID        int64       `json:"id"`
	Name      string      `json:"video_name"`
	URL       string      `json:"video_url"`
	Status    VideoStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
