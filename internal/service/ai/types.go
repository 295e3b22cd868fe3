package ai

import (
	"context"
	"image"
)

// Detection is one object found by a Detector, in source image pixels.
type Detection struct {
	Box        image.Rectangle
	Score      float64
	ClassID    int
	CategoryID int
	Label      string
}

// TextLine is one line of text found by a Recognizer.
// Box holds the polygon corners in the recognized image's pixels.
type TextLine struct {
	Text  string
	Score float64
	Box   []image.Point
}

// Bounds returns the axis-aligned rectangle around the line polygon.
func (l TextLine) Bounds() image.Rectangle {
	return PolygonBounds(l.Box)
}

// Detector finds ships in an image.
type Detector interface {
	Detect(ctx context.Context, img image.Image, threshold float64) ([]Detection, error)
	Close() error
}

// Recognizer reads text lines from an image.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) ([]TextLine, error)
	Close() error
}
