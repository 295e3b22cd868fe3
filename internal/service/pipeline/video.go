package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/repository"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/imagehost"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Event reports progress of a video job.
type Event struct {
	VideoID    int64    `json:"video_id"`
	Status     string   `json:"status"`
	FrameIndex int      `json:"frame_index,omitempty"`
	Timestamp  string   `json:"timestamp,omitempty"`
	Detections int      `json:"detections,omitempty"`
	ShipIDs    []string `json:"ship_ids,omitempty"`
	Message    string   `json:"message,omitempty"`
}

const (
	EventProcessing = "processing"
	EventFrame      = "frame"
	EventCompleted  = "completed"
	EventFailed     = "failed"
)

// VideoOptions controls frame sampling and output locations.
type VideoOptions struct {
	FrameDirectory string
	SampleSeconds  float64
	DefaultFPS     float64
	MaxFrameWidth  int
}

// VideoProcessor walks a video, analyzes sampled frames and stores one result per ship.
type VideoProcessor struct {
	analyzer *Analyzer
	open     SourceOpener
	uploader imagehost.Uploader
	videos   repository.VideoRepository
	results  repository.ResultRepository
	options  VideoOptions
	client   *http.Client
	logger   *logger.Logger
}

func NewVideoProcessor(analyzer *Analyzer, open SourceOpener, uploader imagehost.Uploader,
	videos repository.VideoRepository, results repository.ResultRepository,
	options VideoOptions, logger *logger.Logger) *VideoProcessor {
	return &VideoProcessor{
		analyzer: analyzer,
		open:     open,
		uploader: uploader,
		videos:   videos,
		results:  results,
		options:  options,
		client:   &http.Client{},
		logger:   logger,
	}
}

// Process runs the whole job for video. The video ends up either completed or
// failed; any error from opening, decoding, writing crops or inserting results
// fails it. notify may be nil.
func (p *VideoProcessor) Process(ctx context.Context, video *model.Video, notify func(Event)) (err error) {
	if notify == nil {
		notify = func(Event) {}
	}

	defer func() {
		status, event := model.VideoCompleted, Event{VideoID: video.ID, Status: EventCompleted}
		if err != nil {
			status, event = model.VideoFailed, Event{VideoID: video.ID, Status: EventFailed, Message: err.Error()}
			p.logger.Error("Video %d processing failed: %v", video.ID, err)
		} else {
			p.logger.Info("✅ Video %d processing completed", video.ID)
		}
		if updateErr := p.videos.UpdateStatus(video.ID, status); updateErr != nil {
			p.logger.Error("Failed to set status of video %d: %v", video.ID, updateErr)
		}
		video.Status = status
		notify(event)
	}()

	if err := p.videos.UpdateStatus(video.ID, model.VideoProcessing); err != nil {
		return err
	}
	video.Status = model.VideoProcessing
	notify(Event{VideoID: video.ID, Status: EventProcessing})

	path, cleanup, err := p.resolveSource(ctx, video.URL)
	if err != nil {
		return err
	}
	defer cleanup()

	source, err := p.open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	fps, interval := SamplingInterval(source.FPS(), p.options.SampleSeconds, p.options.DefaultFPS)
	p.logger.Info("🎬 Video %d: fps %.2f, analyzing every %d frame(s)", video.ID, fps, interval)

	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		sampled := index%interval == 0
		frame, ok, err := source.Next(sampled)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		if !sampled {
			continue
		}

		timestamp := FormatTimestamp(float64(index) / fps)
		stored, err := p.processFrame(ctx, video.ID, FitWidth(frame, p.options.MaxFrameWidth), timestamp)
		if err != nil {
			return fmt.Errorf("frame %d: %w", index, err)
		}

		notify(Event{
			VideoID:    video.ID,
			Status:     EventFrame,
			FrameIndex: index,
			Timestamp:  timestamp,
			Detections: len(stored),
			ShipIDs:    shipIDs(stored),
		})
	}

	return nil
}

func (p *VideoProcessor) processFrame(ctx context.Context, videoID int64, frame image.Image, timestamp string) ([]model.Result, error) {
	findings, err := p.analyzer.AnalyzeFrame(ctx, frame)
	if err != nil {
		return nil, err
	}

	stored := make([]model.Result, 0, len(findings))
	for _, f := range findings {
		cropPath := filepath.Join(p.options.FrameDirectory, uuid.New().String()+".jpg")
		if err := os.MkdirAll(p.options.FrameDirectory, 0755); err != nil {
			return nil, fmt.Errorf("create frame directory: %w", err)
		}
		if err := imaging.Save(f.Crop, cropPath); err != nil {
			return nil, fmt.Errorf("save crop: %w", err)
		}

		regionURL, err := p.uploader.Upload(ctx, cropPath)
		if err != nil {
			p.logger.Warning("Upload of %s failed: %v", cropPath, err)
			regionURL = ""
		}

		result := model.Result{
			VideoID:    videoID,
			Category:   f.Detection.CategoryID,
			ShipID:     f.ShipID,
			ShipBBox:   ai.FormatBox(f.Detection.Box),
			RegionURL:  regionURL,
			Timestamp:  timestamp,
			Confidence: f.Detection.Score,
		}
		if f.HasShipID {
			result.BBox = ai.FormatBox(f.ShipIDBox)
		}

		if _, err := p.results.Insert(&result); err != nil {
			return nil, err
		}
		stored = append(stored, result)
	}
	return stored, nil
}

// resolveSource downloads http(s) URLs to a temporary file; anything else is a local path.
func (p *VideoProcessor) resolveSource(ctx context.Context, location string) (string, func(), error) {
	noop := func() {}

	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		path, err := p.download(ctx, location)
		if err != nil {
			return "", noop, err
		}
		return path, func() { os.Remove(path) }, nil
	}

	if _, err := os.Stat(location); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", noop, fmt.Errorf("video file not found: %s", location)
		}
		return "", noop, err
	}
	return location, noop, nil
}

func (p *VideoProcessor) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create download request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download video: status %d", resp.StatusCode)
	}

	file, err := os.CreateTemp("", "video-*.mp4")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(file.Name())
		return "", fmt.Errorf("download video: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return file.Name(), nil
}

func shipIDs(results []model.Result) []string {
	var ids []string
	for _, r := range results {
		if r.ShipID != "" {
			ids = append(ids, r.ShipID)
		}
	}
	return ids
}
