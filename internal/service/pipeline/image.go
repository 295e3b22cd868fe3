package pipeline

import (
	"context"
	"image"

	"shipwatch/internal/dto"
	"shipwatch/internal/service/ai"
)

// AnalyzeImage runs the frame analysis on a single picture and renders one
// preview pair per ship: the picture with the ship outlined, and the crop with
// the ship id outlined. number_bbox is relative to the crop.
func (a *Analyzer) AnalyzeImage(ctx context.Context, img image.Image) ([]dto.ImageDetection, error) {
	findings, err := a.AnalyzeFrame(ctx, img)
	if err != nil {
		return nil, err
	}

	detections := make([]dto.ImageDetection, 0, len(findings))
	for _, f := range findings {
		shipImage, err := DataURL(DrawBoxes(img, Box{Rect: f.Detection.Box, Color: ShipBoxColor, Label: f.Detection.Label}))
		if err != nil {
			return nil, err
		}

		detection := dto.ImageDetection{
			ID:         f.Index,
			Category:   f.Detection.Label,
			ShipBBox:   ai.BoxSlice(f.Detection.Box),
			ShipNumber: f.ShipID,
			NumberBBox: []int{},
		}

		crop := f.Crop
		if f.HasShipID {
			detection.NumberBBox = ai.BoxSlice(f.ShipIDBox)
			crop = DrawBoxes(crop, Box{Rect: f.ShipIDBox, Color: NumberBoxColor})
		}
		if detection.VisualizedNumberOnCrop, err = DataURL(crop); err != nil {
			return nil, err
		}
		detection.VisualizedShipImage = shipImage

		detections = append(detections, detection)
	}
	return detections, nil
}
