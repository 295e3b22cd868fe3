package dto

import "encoding/json"

// ImageDetection is one ship found by POST /test_image.
type ImageDetection struct {
	ID                     int    `json:"id"`
	Category               string `json:"category"`
	ShipBBox               []int  `json:"ship_bbox"`
	VisualizedShipImage    string `json:"visualized_ship_image"`
	ShipNumber             string `json:"ship_number"`
	NumberBBox             []int  `json:"number_bbox"`
	VisualizedNumberOnCrop string `json:"visualized_number_on_crop"`
}

type ImageDetectionResponse struct {
	Results []ImageDetection `json:"results"`
}

// StreamResult is one ship in a streamed frame. ShipIDBBox is in frame pixels.
type StreamResult struct {
	Category         string  `json:"category"`
	ShipID           string  `json:"ship_id"`
	ShipBBox         []int   `json:"ship_bbox"`
	ShipConfidence   float64 `json:"ship_confidence"`
	ShipIDBBox       []int   `json:"ship_id_bbox"`
	ShipIDConfidence float64 `json:"ship_id_confidence"`
}

const (
	StreamStatusOK    = "ok"
	StreamStatusDone  = "done"
	StreamStatusError = "error"
)

// StreamFrame is one line of the POST /test_video NDJSON stream.
type StreamFrame struct {
	Status          string         `json:"status"`
	FrameID         *int           `json:"frame_id,omitempty"`
	Timestamp       *float64       `json:"timestamp,omitempty"`
	VisualizedFrame string         `json:"visualized_frame,omitempty"`
	Results         []StreamResult `json:"results,omitempty"`
	Message         string         `json:"message,omitempty"`
}

// MarshalJSON always writes the results list for "ok" frames.
func (f StreamFrame) MarshalJSON() ([]byte, error) {
	type Alias StreamFrame
	if f.Status != StreamStatusOK {
		return json.Marshal((Alias)(f))
	}
	results := f.Results
	if results == nil {
		results = []StreamResult{}
	}
	return json.Marshal(&struct {
		Alias
		Results []StreamResult `json:"results"`
	}{
		Alias:   (Alias)(f),
		Results: results,
	})
}

// PredictDetection is one detection returned by the predict endpoints.
type PredictDetection struct {
	BBox       []int   `json:"bbox"`
	Score      float64 `json:"score"`
	CategoryID int     `json:"category_id"`
	Category   string  `json:"category"`
}

type PredictResponse struct {
	Status         string             `json:"status"`
	Data           []PredictDetection `json:"data"`
	ImageSize      []int              `json:"image_size"`
	DetectionCount int                `json:"detection_count"`
}

// RecognizedText is one OCR line as [text, score].
type RecognizedText [2]interface{}

type RecognizeTextResponse struct {
	Texts []RecognizedText `json:"texts"`
}

type TextRegionsResponse struct {
	Boxes [][][2]int `json:"boxes"`
}
