//go:build linux

package v4l2

import (
	"image"
	"reflect"
	"testing"

	"github.com/framegrab/timelapse/device"
)

func TestCatalog(t *testing.T) {
	devs := map[string]string{
		"/dev/video10": "Cam Link 4K",
		"/dev/video0":  "Integrated Camera ",
		"/dev/video2":  "Anker PowerConf C200",
		"/dev/vbi0":    "not a capture node",
	}

	got := catalog(devs)
	exp := []device.Descriptor{
		{Index: 0, ID: 0, Name: "Integrated Camera"},
		{Index: 1, ID: 2, Name: "Anker PowerConf C200"},
		{Index: 2, ID: 10, Name: "Cam Link 4K"},
	}
	if !reflect.DeepEqual(got, exp) {
		t.Fatalf("catalog: got %v, expected %v", got, exp)
	}

	if got := catalog(nil); len(got) != 0 {
		t.Fatalf("catalog of no devices: got %v, expected empty", got)
	}
}

func TestYUYVToImage(t *testing.T) {
	const w, h = 4, 2
	frame := make([]byte, w*h*2)
	// Two pixel pairs per row: distinct luma per pixel, distinct chroma
	// per pair.
	for i := 0; i+3 < len(frame); i += 4 {
		frame[i] = byte(i)        // Y0
		frame[i+1] = byte(i + 1)  // Cb
		frame[i+2] = byte(i + 2)  // Y1
		frame[i+3] = byte(i + 3)  // Cr
	}

	img, err := yuyvToImage(frame, w, h)
	if err != nil {
		t.Fatalf("converting frame: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, w, h) {
		t.Fatalf("bounds: got %v, expected %v", img.Bounds(), image.Rect(0, 0, w, h))
	}
	if img.SubsampleRatio != image.YCbCrSubsampleRatio422 {
		t.Fatalf("subsample ratio: got %v, expected 4:2:2", img.SubsampleRatio)
	}
	if img.Y[0] != 0 || img.Y[1] != 2 {
		t.Fatalf("luma plane mismatch: Y[0]=%d Y[1]=%d", img.Y[0], img.Y[1])
	}
	if img.Cb[0] != 1 || img.Cr[0] != 3 {
		t.Fatalf("chroma plane mismatch: Cb[0]=%d Cr[0]=%d", img.Cb[0], img.Cr[0])
	}

	if _, err := yuyvToImage(frame[:5], w, h); err == nil {
		t.Fatalf("missing error for short frame")
	}
	if _, err := yuyvToImage(nil, 0, 0); err == nil {
		t.Fatalf("missing error for empty frame")
	}
}
