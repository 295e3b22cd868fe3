package ai

import (
	"image"
	"math"
)

// Candidate is a raw detection before non-maximum suppression.
type Candidate struct {
	Box     image.Rectangle
	Score   float32
	ClassID int
}

// DecodeYOLO reads a YOLOv8 output tensor laid out as [1, channels, anchors]
// where channels = 4 box values (cx, cy, w, h) followed by one score per class.
// Boxes are multiplied by scale to map them back to source pixels.
func DecodeYOLO(data []float32, channels, anchors int, scale float32, threshold float32) []Candidate {
	classes := channels - 4
	if classes <= 0 || anchors <= 0 || len(data) < channels*anchors {
		return nil
	}

	at := func(c, i int) float32 { return data[c*anchors+i] }

	var candidates []Candidate
	for i := 0; i < anchors; i++ {
		best, bestScore := -1, float32(0)
		for c := 0; c < classes; c++ {
			if s := at(4+c, i); s > bestScore {
				best, bestScore = c, s
			}
		}
		if best < 0 || bestScore < threshold {
			continue
		}

		cx, cy, w, h := at(0, i), at(1, i), at(2, i), at(3, i)
		x1 := round((cx - w/2) * scale)
		y1 := round((cy - h/2) * scale)
		x2 := round((cx + w/2) * scale)
		y2 := round((cy + h/2) * scale)

		candidates = append(candidates, Candidate{
			Box:     image.Rect(x1, y1, x2, y2),
			Score:   bestScore,
			ClassID: best,
		})
	}
	return candidates
}

func round(v float32) int {
	return int(math.Round(float64(v)))
}
