// Package imagesnap implements a capture backend with the imagesnap command
// for macOS.
package imagesnap

import (
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/framegrab/timelapse/capture"
	"github.com/framegrab/timelapse/device"
)

// Default is the backend instance in the capture registry.
var Default = &Source{Warmup: time.Second}

func init() {
	capture.Register(Default)
}

// Source is the imagesnap capture backend. Each Grab runs one imagesnap
// exposure.
type Source struct {
	Verbose bool
	Warmup  time.Duration // Camera warmup before each exposure.
}

// Name returns "imagesnap".
func (*Source) Name() string { return "imagesnap" }

// ListDevices returns all image capturing devices available to imagesnap.
// Imagesnap identifies devices by name only, so the device ID is the
// position in the listing.
func (*Source) ListDevices() ([]device.Descriptor, error) {
	cmd := exec.Command("imagesnap", "-l")
	buf, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("listing devices with imagesnap -l: %v", err)
	}
	return parseDevices(string(buf)), nil
}

func parseDevices(s string) []device.Descriptor {
	devs := []device.Descriptor{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		var name string
		if strings.HasPrefix(line, "=> ") {
			// Newer format, example: "=> FaceTime HD Camera (Built-in)"
			name = line[len("=> "):]
		} else if strings.HasPrefix(line, "<") {
			// Older format, example: "<AVCaptureDALDevice: 0x7fa2c7852fd0 [FaceTime HD Camera (Built-in)][0x8020000005ac8514]>"
			t := strings.Split(line, "[")
			if len(t) < 2 {
				continue
			}
			name = strings.Split(t[1], "]")[0]
		} else {
			continue
		}
		devs = append(devs, device.Descriptor{Index: len(devs), ID: len(devs), Name: name})
	}
	return devs
}

// Open resolves the imagesnap device name for id.
func (s *Source) Open(id int) (capture.Grabber, error) {
	devs, err := s.ListDevices()
	if err != nil {
		return nil, err
	}
	for _, d := range devs {
		if d.ID == id {
			return &grabber{device: d.Name, verbose: s.Verbose, warmup: s.Warmup}, nil
		}
	}
	return nil, fmt.Errorf("no imagesnap device with ID %d", id)
}

type grabber struct {
	device  string
	verbose bool
	warmup  time.Duration
}

// Grab runs imagesnap for a single exposure and decodes the result.
func (g *grabber) Grab() (image.Image, error) {
	f, err := os.CreateTemp("", "timelapse-*.jpg")
	if err != nil {
		return nil, fmt.Errorf("making temp file: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	args := []string{"-d", g.device}
	if g.warmup > 0 {
		args = append(args, "-w", fmt.Sprintf("%.2f", g.warmup.Seconds()))
	}
	args = append(args, path)
	if g.verbose {
		log.Printf("running imagesnap with args %s", args)
	}
	cmd := exec.Command("imagesnap", args...)
	if g.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running imagesnap: %v", err)
	}

	fr, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening captured frame: %v", err)
	}
	defer fr.Close()
	img, err := jpeg.Decode(fr)
	if err != nil {
		return nil, fmt.Errorf("decoding captured frame: %v", err)
	}
	return img, nil
}

// Close is a no-op; imagesnap holds the device only while exposing.
func (g *grabber) Close() error {
	return nil
}
