package ai

import (
	"fmt"
	"image"
	"strings"

	"github.com/samber/lo"
)

// ClipBox clamps box to bounds. The second result is false when nothing
// of the box remains (x1 >= x2 or y1 >= y2 after clamping).
func ClipBox(box, bounds image.Rectangle) (image.Rectangle, bool) {
	clipped := box.Intersect(bounds)
	if clipped.Min.X >= clipped.Max.X || clipped.Min.Y >= clipped.Max.Y {
		return image.Rectangle{}, false
	}
	return clipped, true
}

// PolygonBounds returns the smallest rectangle containing every point.
func PolygonBounds(points []image.Point) image.Rectangle {
	if len(points) == 0 {
		return image.Rectangle{}
	}
	r := image.Rectangle{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		r.Min.X = min(r.Min.X, p.X)
		r.Min.Y = min(r.Min.Y, p.Y)
		r.Max.X = max(r.Max.X, p.X)
		r.Max.Y = max(r.Max.Y, p.Y)
	}
	return r
}

// BoxSlice renders a rectangle as [x1, y1, x2, y2].
func BoxSlice(r image.Rectangle) []int {
	return []int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}

// FormatBox renders a rectangle the way results store it: "[x1, y1, x2, y2]".
func FormatBox(r image.Rectangle) string {
	parts := lo.Map(BoxSlice(r), func(v int, _ int) string { return fmt.Sprint(v) })
	return "[" + strings.Join(parts, ", ") + "]"
}

// SelectShipID picks the most confident non-empty line scoring at least threshold.
// On equal scores the earlier line wins.
func SelectShipID(lines []TextLine, threshold float64) (TextLine, bool) {
	candidates := lo.Filter(lines, func(l TextLine, _ int) bool {
		return l.Score >= threshold && strings.TrimSpace(l.Text) != ""
	})
	if len(candidates) == 0 {
		return TextLine{}, false
	}
	best := lo.MaxBy(candidates, func(a, b TextLine) bool { return a.Score > b.Score })
	best.Text = strings.TrimSpace(best.Text)
	return best, true
}
