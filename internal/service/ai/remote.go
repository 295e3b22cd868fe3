package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"shipwatch/internal/model"

	"github.com/disintegration/imaging"
)

// RemoteDetector runs inference through an external detection service.
// The service accepts a multipart "file" and answers
// {"detections":[{"bbox":[x1,y1,x2,y2],"score":0.9,"category_id":0}]}.
type RemoteDetector struct {
	url    string
	config DetectorConfig
	client *http.Client
}

func NewRemoteDetector(url string, config DetectorConfig) *RemoteDetector {
	return &RemoteDetector{
		url:    url,
		config: config,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Detect sends the image to the service and keeps detections scoring at least threshold.
func (d *RemoteDetector) Detect(ctx context.Context, img image.Image, threshold float64) ([]Detection, error) {
	fields := map[string]string{"threshold": strconv.FormatFloat(threshold, 'f', -1, 64)}

	var result struct {
		Detections []struct {
			BBox       []float64 `json:"bbox"`
			Score      float64   `json:"score"`
			CategoryID int       `json:"category_id"`
		} `json:"detections"`
	}
	if err := postImage(ctx, d.client, d.url, img, fields, &result); err != nil {
		return nil, err
	}

	detections := make([]Detection, 0, len(result.Detections))
	for _, det := range result.Detections {
		if len(det.BBox) != 4 || det.Score < threshold {
			continue
		}
		detections = append(detections, Detection{
			Box:        image.Rect(int(det.BBox[0]), int(det.BBox[1]), int(det.BBox[2]), int(det.BBox[3])),
			Score:      det.Score,
			ClassID:    det.CategoryID,
			CategoryID: model.CategoryFromClass(det.CategoryID),
			Label:      d.config.Label(det.CategoryID),
		})
	}
	return detections, nil
}

// CheckHealth checks whether the detection service is reachable.
func (d *RemoteDetector) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, d.client, d.url)
}

func (d *RemoteDetector) Close() error { return nil }

// RemoteRecognizer runs OCR through an external text recognition service.
// The service accepts a multipart "file" and answers
// {"lines":[{"text":"ABC","score":0.9,"box":[[x,y],[x,y],[x,y],[x,y]]}]}.
type RemoteRecognizer struct {
	url    string
	client *http.Client
}

func NewRemoteRecognizer(url string) *RemoteRecognizer {
	return &RemoteRecognizer{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize returns every text line the service reports.
func (r *RemoteRecognizer) Recognize(ctx context.Context, img image.Image) ([]TextLine, error) {
	var result struct {
		Lines []struct {
			Text  string       `json:"text"`
			Score float64      `json:"score"`
			Box   [][2]float64 `json:"box"`
		} `json:"lines"`
	}
	if err := postImage(ctx, r.client, r.url, img, nil, &result); err != nil {
		return nil, err
	}

	lines := make([]TextLine, 0, len(result.Lines))
	for _, l := range result.Lines {
		points := make([]image.Point, 0, len(l.Box))
		for _, p := range l.Box {
			points = append(points, image.Pt(int(p[0]), int(p[1])))
		}
		lines = append(lines, TextLine{Text: l.Text, Score: l.Score, Box: points})
	}
	return lines, nil
}

// CheckHealth checks whether the OCR service is reachable.
func (r *RemoteRecognizer) CheckHealth(ctx context.Context) error {
	return checkHealth(ctx, r.client, r.url)
}

func (r *RemoteRecognizer) Close() error { return nil }

// postImage uploads img as JPEG in a multipart "file" field and decodes the JSON answer into out.
func postImage(ctx context.Context, client *http.Client, url string, img image.Image, fields map[string]string, out interface{}) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("encode image: %w", err)
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return fmt.Errorf("write field %s: %w", k, err)
		}
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func checkHealth(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
