package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	"shipwatch/internal/service/ai"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Recognizer reads text lines with Tesseract.
type Recognizer struct {
	languages     []string
	clientFactory func() *gosseract.Client
}

// NewRecognizer creates a Tesseract-backed recognizer for the given languages.
func NewRecognizer(languages []string) *Recognizer {
	return &Recognizer{languages: languages, clientFactory: gosseract.NewClient}
}

// Recognize returns one TextLine per Tesseract text line with its confidence scaled to 0..1.
func (r *Recognizer) Recognize(ctx context.Context, img image.Image) ([]ai.TextLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	c := r.clientFactory()
	defer c.Close()

	if len(r.languages) > 0 {
		if err := c.SetLanguage(r.languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}
	if err := c.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, fmt.Errorf("set page segmentation: %w", err)
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("recognize text: %w", err)
	}

	lines := make([]ai.TextLine, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		lines = append(lines, ai.TextLine{
			Text:  text,
			Score: b.Confidence / 100.0,
			Box: []image.Point{
				b.Box.Min,
				{X: b.Box.Max.X, Y: b.Box.Min.Y},
				b.Box.Max,
				{X: b.Box.Min.X, Y: b.Box.Max.Y},
			},
		})
	}
	return lines, nil
}

func (r *Recognizer) Close() error { return nil }
