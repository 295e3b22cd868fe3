package handler

import (
	"fmt"
	"image"
	"net/http"
	"strconv"

	"shipwatch/internal/dto"
	"shipwatch/internal/logger"
	"shipwatch/internal/service/ai"
	"shipwatch/internal/service/pipeline"
)

const defaultPredictThreshold = 0.5

type uploadDetections struct {
	image      image.Image
	detections []ai.Detection
}

// detectUpload decodes the "file" upload and runs the detector on it.
func detectUpload(w http.ResponseWriter, r *http.Request, detector ai.Detector, maxBytes int64, logger *logger.Logger) (*uploadDetections, bool) {
	threshold, err := queryFloat(r, "threshold", defaultPredictThreshold)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	if !parseUpload(w, r, maxBytes) {
		return nil, false
	}
	img, err := formImage(r, "file")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}

	detections, err := detector.Detect(r.Context(), img, threshold)
	if err != nil {
		logger.Error("Detection failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return &uploadDetections{image: img, detections: detections}, true
}

// PredictImageHandler handles POST /api/v1/predict/yolov8/image and returns
// the uploaded picture as JPEG with the detections outlined.
func PredictImageHandler(detector ai.Detector, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := detectUpload(w, r, detector, maxBytes, logger)
		if !ok {
			return
		}

		boxes := make([]pipeline.Box, 0, len(upload.detections))
		for _, d := range upload.detections {
			boxes = append(boxes, pipeline.Box{
				Rect:  d.Box,
				Color: pipeline.ShipBoxColor,
				Label: fmt.Sprintf("%s (%.2f)", d.Label, d.Score),
			})
		}

		data, err := pipeline.EncodeJPEG(pipeline.DrawBoxes(upload.image, boxes...))
		if err != nil {
			logger.Error("Failed to encode result image: %v", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		w.Header().Set("Content-Type", "image/jpeg")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}
}

// PredictDataHandler handles POST /api/v1/predict/yolov8/data.
func PredictDataHandler(detector ai.Detector, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		upload, ok := detectUpload(w, r, detector, maxBytes, logger)
		if !ok {
			return
		}

		data := make([]dto.PredictDetection, 0, len(upload.detections))
		for _, d := range upload.detections {
			data = append(data, dto.PredictDetection{
				BBox:       ai.BoxSlice(d.Box),
				Score:      d.Score,
				CategoryID: d.CategoryID,
				Category:   d.Label,
			})
		}

		size := upload.image.Bounds().Size()
		respondJSON(w, http.StatusOK, dto.PredictResponse{
			Status:         "success",
			Data:           data,
			ImageSize:      []int{size.X, size.Y},
			DetectionCount: len(data),
		})
	}
}

// RecognizeTextHandler handles POST /api/ppocr/recognize_text_from_image.
func RecognizeTextHandler(recognizer ai.Recognizer, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines, ok := recognizeUpload(w, r, recognizer, maxBytes, logger)
		if !ok {
			return
		}

		texts := make([]dto.RecognizedText, 0, len(lines))
		for _, l := range lines {
			texts = append(texts, dto.RecognizedText{l.Text, l.Score})
		}
		respondJSON(w, http.StatusOK, dto.RecognizeTextResponse{Texts: texts})
	}
}

// DetectTextRegionsHandler handles POST /api/ppocr/detect_text_regions_from_image
// and returns each text line as its polygon corners.
func DetectTextRegionsHandler(recognizer ai.Recognizer, maxBytes int64, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lines, ok := recognizeUpload(w, r, recognizer, maxBytes, logger)
		if !ok {
			return
		}

		boxes := make([][][2]int, 0, len(lines))
		for _, l := range lines {
			points := make([][2]int, 0, len(l.Box))
			for _, p := range l.Box {
				points = append(points, [2]int{p.X, p.Y})
			}
			boxes = append(boxes, points)
		}
		respondJSON(w, http.StatusOK, dto.TextRegionsResponse{Boxes: boxes})
	}
}

func recognizeUpload(w http.ResponseWriter, r *http.Request, recognizer ai.Recognizer, maxBytes int64, logger *logger.Logger) ([]ai.TextLine, bool) {
	if !parseUpload(w, r, maxBytes) {
		return nil, false
	}
	img, err := formImage(r, "file")
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}

	lines, err := recognizer.Recognize(r.Context(), img)
	if err != nil {
		logger.Error("Text recognition failed: %v", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	return lines, true
}
