package pipeline

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// FrameSource yields the frames of a video in order.
type FrameSource interface {
	// FPS returns the reported frame rate; 0 or NaN when unknown.
	FPS() float64
	// Next reads one frame. With decode=false the frame is skipped without
	// building an image. ok is false once the stream is exhausted.
	Next(decode bool) (img image.Image, ok bool, err error)
	Close() error
}

// SourceOpener opens a local video file.
type SourceOpener func(path string) (FrameSource, error)

// SamplingInterval returns the effective fps and how many frames separate two
// analyzed frames. Unknown fps falls back to defaultFPS. The interval is at least 1.
func SamplingInterval(fps, seconds, defaultFPS float64) (float64, int) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		fps = defaultFPS
	}
	interval := int(fps * seconds)
	if interval < 1 {
		interval = 1
	}
	return fps, interval
}

// FormatTimestamp renders an offset in seconds as MM:SS.
func FormatTimestamp(seconds float64) string {
	return fmt.Sprintf("%02d:%02d", int(seconds/60), int(math.Mod(seconds, 60)))
}

// FitWidth scales img down proportionally when it is wider than maxWidth.
func FitWidth(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Linear)
}
