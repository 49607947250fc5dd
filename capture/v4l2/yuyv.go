//go:build linux

package v4l2

import (
	"image"

	"github.com/pkg/errors"
)

// yuyvToImage converts a packed YUYV 4:2:2 frame to a YCbCr image. YUYV
// frames have even width, which keeps the planes of the 4:2:2 image aligned
// with a straight copy.
func yuyvToImage(frame []byte, w, h int) (*image.YCbCr, error) {
	if w <= 0 || h <= 0 || len(frame) < w*h*2 {
		return nil, errors.Errorf("short YUYV frame: %d bytes for %dx%d", len(frame), w, h)
	}
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio422)
	// Every 4 bytes hold two pixels: Y0 Cb Y1 Cr.
	for i := 0; i+3 < w*h*2; i += 4 {
		y := i / 2
		c := i / 4
		img.Y[y] = frame[i]
		img.Y[y+1] = frame[i+2]
		img.Cb[c] = frame[i+1]
		img.Cr[c] = frame[i+3]
	}
	return img, nil
}
