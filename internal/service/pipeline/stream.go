package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/service/ai"
)

// StreamOptions controls sampling of the preview stream.
type StreamOptions struct {
	SampleSeconds float64
	DefaultFPS    float64
	MaxFrameWidth int
}

// Streamer analyzes a video and emits one visualized frame per sample,
// without storing anything.
type Streamer struct {
	analyzer *Analyzer
	open     SourceOpener
	options  StreamOptions
	logger   *logger.Logger
}

func NewStreamer(analyzer *Analyzer, open SourceOpener, options StreamOptions, logger *logger.Logger) *Streamer {
	return &Streamer{
		analyzer: analyzer,
		open:     open,
		options:  options,
		logger:   logger,
	}
}

// Stream walks the video at path. It ends with a "done" frame, or with an
// "error" frame whose cause is also returned. An error from emit stops the
// walk and is returned as is.
func (s *Streamer) Stream(ctx context.Context, path string, emit func(dto.StreamFrame) error) error {
	err := s.walk(ctx, path, emit)
	if err == nil {
		return emit(dto.StreamFrame{Status: dto.StreamStatusDone})
	}
	var ee emitError
	if errors.As(err, &ee) {
		return ee.err
	}

	s.logger.Error("Video stream failed: %v", err)
	if emitErr := emit(dto.StreamFrame{
		Status:  dto.StreamStatusError,
		Message: fmt.Sprintf("video processing failed: %v", err),
	}); emitErr != nil {
		return emitErr
	}
	return err
}

type emitError struct{ err error }

func (e emitError) Error() string { return e.err.Error() }

func (s *Streamer) walk(ctx context.Context, path string, emit func(dto.StreamFrame) error) error {
	source, err := s.open(path)
	if err != nil {
		return err
	}
	defer source.Close()

	fps, interval := SamplingInterval(source.FPS(), s.options.SampleSeconds, s.options.DefaultFPS)

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
			return nil
		}
		if !sampled {
			continue
		}

		frame = FitWidth(frame, s.options.MaxFrameWidth)
		findings, err := s.analyzer.AnalyzeFrame(ctx, frame)
		if err != nil {
			return err
		}

		boxes := make([]Box, 0, 2*len(findings))
		results := make([]dto.StreamResult, 0, len(findings))
		for _, f := range findings {
			boxes = append(boxes, Box{Rect: f.Detection.Box, Color: ShipBoxColor, Label: f.Detection.Label})

			result := dto.StreamResult{
				Category:       f.Detection.Label,
				ShipID:         f.ShipID,
				ShipBBox:       ai.BoxSlice(f.Detection.Box),
				ShipConfidence: round(f.Detection.Score, 3),
				ShipIDBBox:     []int{},
			}
			if f.HasShipID {
				global := f.GlobalShipIDBox()
				boxes = append(boxes, Box{Rect: global, Color: NumberBoxColor, Label: f.ShipID})
				result.ShipIDBBox = ai.BoxSlice(global)
				result.ShipIDConfidence = round(f.ShipIDScore, 3)
			}
			results = append(results, result)
		}

		visualized, err := DataURL(DrawBoxes(frame, boxes...))
		if err != nil {
			return err
		}

		frameID := index
		timestamp := round(float64(index)/fps, 2)
		if err := emit(dto.StreamFrame{
			Status:          dto.StreamStatusOK,
			FrameID:         &frameID,
			Timestamp:       &timestamp,
			VisualizedFrame: visualized,
			Results:         results,
		}); err != nil {
			return emitError{err}
		}
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
