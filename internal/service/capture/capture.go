package capture

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// VideoFile reads frames from a video file through OpenCV.
type VideoFile struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	fps     float64
}

// Open opens path for frame-by-frame reading.
func Open(path string) (*VideoFile, error) {
	vc, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}

	return &VideoFile{
		capture: vc,
		frame:   gocv.NewMat(),
		fps:     vc.Get(gocv.VideoCaptureFPS),
	}, nil
}

// FPS returns the frame rate reported by the container. It may be 0.
func (v *VideoFile) FPS() float64 {
	return v.fps
}

// Next reads the next frame. When decode is false the frame is consumed
// without converting it to an image. ok is false at the end of the stream.
func (v *VideoFile) Next(decode bool) (img image.Image, ok bool, err error) {
	if !v.capture.Read(&v.frame) || v.frame.Empty() {
		return nil, false, nil
	}
	if !decode {
		return nil, true, nil
	}

	img, err = v.frame.ToImage()
	if err != nil {
		return nil, false, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, true, nil
}

// Close releases the capture and the frame buffer.
func (v *VideoFile) Close() error {
	v.frame.Close()
	return v.capture.Close()
}
