package pipeline

import (
	"context"
	"fmt"
	"image"

	"shipwatch/internal/logger"
	"shipwatch/internal/service/ai"

	"github.com/disintegration/imaging"
)

// Finding is one detected ship after clipping, cropping and OCR.
type Finding struct {
	Index     int // 1-based position in the detector output
	Detection ai.Detection
	Crop      image.Image

	ShipID      string
	ShipIDScore float64
	ShipIDBox   image.Rectangle // względem wycinka
	HasShipID   bool
}

// GlobalShipIDBox returns the ship id box in frame pixels.
func (f Finding) GlobalShipIDBox() image.Rectangle {
	if !f.HasShipID {
		return image.Rectangle{}
	}
	return f.ShipIDBox.Add(f.Detection.Box.Min)
}

// Analyzer runs detection and OCR on single frames.
type Analyzer struct {
	detector           ai.Detector
	recognizer         ai.Recognizer
	detectionThreshold float64
	ocrThreshold       float64
	logger             *logger.Logger
}

func NewAnalyzer(detector ai.Detector, recognizer ai.Recognizer, detectionThreshold, ocrThreshold float64, logger *logger.Logger) *Analyzer {
	return &Analyzer{
		detector:           detector,
		recognizer:         recognizer,
		detectionThreshold: detectionThreshold,
		ocrThreshold:       ocrThreshold,
		logger:             logger,
	}
}

// Detector exposes the underlying detector for detection-only requests.
func (a *Analyzer) Detector() ai.Detector {
	return a.detector
}

// Recognizer exposes the underlying recognizer for OCR-only requests.
func (a *Analyzer) Recognizer() ai.Recognizer {
	return a.recognizer
}

// AnalyzeFrame detects ships in frame and reads each ship's identifier.
// Boxes that fall outside the frame are dropped. An OCR failure leaves the
// finding without a ship id instead of failing the frame.
func (a *Analyzer) AnalyzeFrame(ctx context.Context, frame image.Image) ([]Finding, error) {
	detections, err := a.detector.Detect(ctx, frame, a.detectionThreshold)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	bounds := frame.Bounds()
	findings := make([]Finding, 0, len(detections))
	for i, det := range detections {
		box, ok := ai.ClipBox(det.Box, bounds)
		if !ok {
			a.logger.Warning("Skipping invalid bbox %v", det.Box)
			continue
		}
		det.Box = box

		finding := Finding{
			Index:     i + 1,
			Detection: det,
			Crop:      imaging.Crop(frame, box),
		}
		a.readShipID(ctx, &finding)
		findings = append(findings, finding)
	}
	return findings, nil
}

func (a *Analyzer) readShipID(ctx context.Context, f *Finding) {
	lines, err := a.recognizer.Recognize(ctx, f.Crop)
	if err != nil {
		a.logger.Warning("OCR failed for %s at %v: %v", f.Detection.Label, f.Detection.Box, err)
		return
	}

	line, ok := ai.SelectShipID(lines, a.ocrThreshold)
	if !ok {
		return
	}
	f.ShipID = line.Text
	f.ShipIDScore = line.Score
	f.ShipIDBox = line.Bounds()
	f.HasShipID = true
}
