package dnn

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"shipwatch/internal/logger"
	"shipwatch/internal/model"
	"shipwatch/internal/service/ai"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// Detector runs a YOLOv8 ONNX ship model through the OpenCV DNN module.
type Detector struct {
	net       gocv.Net
	config    ai.DetectorConfig
	modelPath string
	logger    *logger.Logger
	mu        sync.Mutex // gocv.Net nie jest bezpieczny dla wielu goroutines
}

// NewDetector loads the model at modelPath and sets backend/target preferences.
func NewDetector(modelPath string, config ai.DetectorConfig, logger *logger.Logger) (*Detector, error) {
	d := &Detector{
		config:    config,
		modelPath: modelPath,
		logger:    logger,
	}

	if err := d.initializeNet(); err != nil {
		return nil, err
	}

	logger.Info("🤖 Detection model loaded: %s (%d classes, input %d)", modelPath, len(config.Labels), config.InputSize)
	return d, nil
}

func (d *Detector) initializeNet() error {
	if _, err := os.Stat(d.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", d.modelPath)
	}

	net := gocv.ReadNetFromONNX(d.modelPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		d.logger.Warning("Could not set preferable backend: %v", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		d.logger.Warning("Could not set preferable target: %v", err)
	}

	d.net = net
	return nil
}

// Detect finds ships in img scoring at least threshold.
func (d *Detector) Detect(ctx context.Context, img image.Image, threshold float64) ([]ai.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	side := max(bounds.Dx(), bounds.Dy())
	if side == 0 {
		return nil, fmt.Errorf("empty image")
	}

	// kwadrat z obrazem w lewym górnym rogu, skala wraca do pikseli źródła
	square := imaging.New(side, side, color.Black)
	square = imaging.Paste(square, img, image.Pt(0, 0))
	scale := float32(side) / float32(d.config.InputSize)

	mat, err := gocv.ImageToMatRGB(square)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.config.InputSize, d.config.InputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 {
		return nil, fmt.Errorf("unexpected output shape %v", dims)
	}
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("failed to read output: %w", err)
	}

	candidates := ai.DecodeYOLO(data, dims[1], dims[2], scale, float32(threshold))
	if len(candidates) == 0 {
		return []ai.Detection{}, nil
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.Box
		scores[i] = c.Score
	}
	indices := gocv.NMSBoxes(boxes, scores, float32(threshold), float32(d.config.NMSThreshold))

	detections := make([]ai.Detection, 0, len(indices))
	for _, idx := range indices {
		c := candidates[idx]
		detections = append(detections, ai.Detection{
			Box:        c.Box,
			Score:      float64(c.Score),
			ClassID:    c.ClassID,
			CategoryID: model.CategoryFromClass(c.ClassID),
			Label:      d.config.Label(c.ClassID),
		})
	}
	return detections, nil
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
