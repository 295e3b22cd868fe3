package pipeline

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

var (
	ShipBoxColor   = color.RGBA{0, 255, 0, 255}
	NumberBoxColor = color.RGBA{255, 0, 0, 255}
)

// Box is a rectangle to draw with an optional caption above it.
type Box struct {
	Rect  image.Rectangle
	Color color.Color
	Label string
}

// DrawBoxes returns a copy of img with the boxes outlined.
func DrawBoxes(img image.Image, boxes ...Box) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(2)
	for _, b := range boxes {
		if b.Rect.Empty() {
			continue
		}
		dc.SetColor(b.Color)
		dc.DrawRectangle(float64(b.Rect.Min.X), float64(b.Rect.Min.Y), float64(b.Rect.Dx()), float64(b.Rect.Dy()))
		dc.Stroke()
		if b.Label != "" {
			dc.DrawString(b.Label, float64(b.Rect.Min.X), float64(max(b.Rect.Min.Y-4, 12)))
		}
	}
	return dc.Image()
}

// DataURL encodes img as a base64 PNG data URL.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeJPEG encodes img as JPEG.
func EncodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
