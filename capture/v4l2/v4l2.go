//go:build linux

// Package v4l2 implements a capture backend that reads frames directly from
// Video4Linux devices.
package v4l2

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/blackjack/webcam"
	"github.com/pkg/errors"

	"github.com/framegrab/timelapse/capture"
	"github.com/framegrab/timelapse/device"
)

// Fourcc codes of the pixel formats we can decode.
const (
	pixFmtYUYV  = webcam.PixelFormat(0x56595559) // 'YUYV', packed 4:2:2
	pixFmtMJPEG = webcam.PixelFormat(0x47504a4d) // 'MJPG'
)

func init() {
	capture.Register(Source{})
}

// Source is the Video4Linux capture backend.
type Source struct{}

// Name returns "v4l2".
func (Source) Name() string { return "v4l2" }

// ListDevices enumerates the /dev/video* capture devices known to the
// kernel. The device ID is the numeric suffix of the device path, so
// /dev/video2 keeps ID 2 even when it is the only device present.
func (Source) ListDevices() ([]device.Descriptor, error) {
	devs, err := webcam.ListDevices()
	if err != nil {
		return nil, errors.Wrap(err, "listing video4linux devices")
	}
	return catalog(devs), nil
}

// catalog turns the path-to-name mapping from the kernel into an ordered
// device catalog. Paths without a numeric suffix are skipped.
func catalog(devs map[string]string) []device.Descriptor {
	ids := make([]int, 0, len(devs))
	names := make(map[int]string, len(devs))
	for path, name := range devs {
		base := filepath.Base(path)
		n, err := strconv.Atoi(strings.TrimPrefix(base, "video"))
		if err != nil {
			continue
		}
		ids = append(ids, n)
		names[n] = strings.TrimSpace(name)
	}
	sort.Ints(ids)

	r := make([]device.Descriptor, 0, len(ids))
	for i, n := range ids {
		r = append(r, device.Descriptor{Index: i, ID: n, Name: names[n]})
	}
	return r
}

// Open acquires /dev/video<id>, negotiates a pixel format and frame size,
// and starts streaming.
func (Source) Open(id int) (capture.Grabber, error) {
	path := fmt.Sprintf("/dev/video%d", id)
	cam, err := webcam.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can not open device %s", path)
	}
	g := &grabber{cam: cam}
	if err := g.setup(); err != nil {
		cam.Close()
		return nil, err
	}
	return g, nil
}

type grabber struct {
	cam    *webcam.Webcam
	format webcam.PixelFormat
	width  uint32
	height uint32
}

func (g *grabber) setup() error {
	formats := g.cam.GetSupportedFormats()
	var format webcam.PixelFormat
	if _, ok := formats[pixFmtMJPEG]; ok {
		format = pixFmtMJPEG
	} else if _, ok := formats[pixFmtYUYV]; ok {
		format = pixFmtYUYV
	} else {
		offered := make([]string, 0, len(formats))
		for _, desc := range formats {
			offered = append(offered, desc)
		}
		sort.Strings(offered)
		return errors.Errorf("no supported pixel format, device offers %v", offered)
	}

	sizes := g.cam.GetSupportedFrameSizes(format)
	if len(sizes) == 0 {
		return errors.New("no supported frame sizes")
	}
	// Pick the largest size on offer.
	best := sizes[0]
	for _, s := range sizes[1:] {
		if s.MaxWidth*s.MaxHeight > best.MaxWidth*best.MaxHeight {
			best = s
		}
	}

	f, w, h, err := g.cam.SetImageFormat(format, best.MaxWidth, best.MaxHeight)
	if err != nil {
		return errors.Wrap(err, "setting image format")
	}
	g.format = f
	g.width = w
	g.height = h

	if err := g.cam.StartStreaming(); err != nil {
		return errors.Wrap(err, "can not start streaming")
	}
	return nil
}

// Grab reads the next frame from the device and decodes it. Empty frames
// and frame-wait timeouts are retried.
func (g *grabber) Grab() (image.Image, error) {
	for {
		err := g.cam.WaitForFrame(5)
		switch err.(type) {
		case nil:
		case *webcam.Timeout:
			continue
		default:
			return nil, errors.Wrap(err, "waiting for frame")
		}

		frame, err := g.cam.ReadFrame()
		if err != nil {
			return nil, errors.Wrap(err, "reading frame")
		}
		if len(frame) == 0 {
			continue
		}

		if g.format == pixFmtMJPEG {
			img, err := jpeg.Decode(bytes.NewReader(frame))
			if err != nil {
				return nil, errors.Wrap(err, "decoding mjpeg frame")
			}
			return img, nil
		}
		return yuyvToImage(frame, int(g.width), int(g.height))
	}
}

// Close stops streaming and releases the device.
func (g *grabber) Close() error {
	return g.cam.Close()
}
