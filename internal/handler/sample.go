package handler

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"os"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
)

// ImageAnalyzer runs detection and OCR on a single picture.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, img image.Image) ([]dto.ImageDetection, error)
}

// VideoStreamer analyzes a video file and emits one line per sampled frame.
type VideoStreamer interface {
	Stream(ctx context.Context, path string, emit func(dto.StreamFrame) error) error
}

// TestImageHandler handles POST /api/sample/test_image (multipart "image").
func TestImageHandler(analyzer ImageAnalyzer, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseUpload(w, r, maxBytes) {
			return
		}
		img, err := formImage(r, "image")
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		results, err := analyzer.AnalyzeImage(r.Context(), img)
		if err != nil {
			logger.Error("Image analysis failed: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		logger.Info("🚢 Found %d ship(s) in uploaded image", len(results))

		respondJSON(w, http.StatusOK, dto.ImageDetectionResponse{Results: results})
	}
}

// TestVideoHandler handles POST /api/sample/test_video (multipart "video").
// The response is newline-delimited JSON, flushed after every frame.
func TestVideoHandler(streamer VideoStreamer, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !parseUpload(w, r, maxBytes) {
			return
		}

		temp, err := os.CreateTemp("", "stream-*.mp4")
		if err != nil {
			logger.Error("Failed to create temp file: %v", err)
			respondError(w, http.StatusInternalServerError, "cannot store video")
			return
		}
		defer os.Remove(temp.Name())

		err = saveFormFile(r, "video", temp)
		if closeErr := temp.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)

		controller := http.NewResponseController(w)
		encoder := json.NewEncoder(w)
		emit := func(frame dto.StreamFrame) error {
			if err := encoder.Encode(frame); err != nil {
				return err
			}
			return controller.Flush()
		}

		if err := streamer.Stream(r.Context(), temp.Name(), emit); err != nil {
			logger.Warning("Video stream ended early: %v", err)
		}
	}
}
