// Package ffmpeg implements a capture backend that records frames with an
// ffmpeg subprocess. It handles devices whose native formats the v4l2
// backend can not decode.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"

	timelapse "github.com/framegrab/timelapse"
	"github.com/framegrab/timelapse/capture"
	"github.com/framegrab/timelapse/device"
)

var errInstallHint = errors.New("executable not found, install with: sudo apt install -y ffmpeg v4l-utils")

// Default is the backend instance in the capture registry.
var Default = &Source{Framerate: 30}

func init() {
	capture.Register(Default)
}

// Source is the ffmpeg capture backend. Ffmpeg captures at Framerate into a
// spool directory; each Grab takes the next spooled frame.
type Source struct {
	Verbose   bool
	Framerate int
}

// Name returns "ffmpeg".
func (*Source) Name() string { return "ffmpeg" }

// ListDevices returns the capture devices reported by v4l2-ctl. The device
// ID is the numeric suffix of the /dev/video* path.
func (*Source) ListDevices() ([]device.Descriptor, error) {
	cmd := exec.Command("v4l2-ctl", "--list-devices")
	buf, err := cmd.Output()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return nil, fmt.Errorf("listing devices using v4l2-ctl: %v", err)
	}
	return parseDevices(string(buf)), nil
}

// parseDevices parses `v4l2-ctl --list-devices` output: an unindented card
// name line followed by tab-indented device paths. Cards on the bcm2835
// codec (Raspberry Pi hardware codecs, not cameras) are skipped.
func parseDevices(s string) []device.Descriptor {
	var curCard string
	r := []device.Descriptor{}
	for _, line := range strings.Split(s, "\n") {
		if !strings.HasPrefix(line, "\t") {
			curCard = strings.TrimSuffix(strings.TrimSpace(line), ":")
			continue
		}
		if curCard == "" || strings.HasPrefix(curCard, "bcm2835-") {
			continue
		}
		path := strings.TrimSpace(line)
		n, err := strconv.Atoi(strings.TrimPrefix(filepath.Base(path), "video"))
		if err != nil {
			continue
		}
		r = append(r, device.Descriptor{
			Index: len(r),
			ID:    n,
			Name:  fmt.Sprintf("%s (%s)", curCard, path),
		})
	}
	return r
}

type frameEvent struct {
	img image.Image
	err error
}

type grabber struct {
	verbose bool
	spool   string
	cancel  context.CancelFunc
	watcher *fsnotify.Watcher
	frames  chan frameEvent
}

// Open starts ffmpeg recording from /dev/video<id> into a spool directory
// and watches the directory for finished frames.
func (s *Source) Open(id int) (capture.Grabber, error) {
	g := &grabber{verbose: s.Verbose}
	if err := g.start(fmt.Sprintf("/dev/video%d", id), s.Framerate); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

func (g *grabber) start(devPath string, framerate int) error {
	if framerate <= 0 {
		framerate = 30
	}

	spool, err := timelapse.SpoolDir()
	if err != nil {
		return fmt.Errorf("making spool dir: %v", err)
	}
	g.spool = spool
	g.logf("ffmpeg backend, spooling frames to %s", spool)

	args := []string{
		"-framerate", fmt.Sprintf("%d", framerate),
		"-video_size", "640x480",
		"-c:v", "mjpeg",
		"-i", devPath,
		"-f", "image2",
		"-c:v", "copy",
		"-bsf:v", "mjpeg2jpeg",
		"-qscale:v", "2",
		"spool%d.jpg",
	}
	g.logf("starting ffmpeg with args %s", args)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Dir = spool
	if g.verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			err = errInstallHint
		}
		return fmt.Errorf("starting command ffmpeg: %v", err)
	}

	g.frames = make(chan frameEvent, 1)
	go func() {
		werr := cmd.Wait()
		if ctx.Err() != nil {
			return
		}
		select {
		case g.frames <- frameEvent{err: fmt.Errorf("ffmpeg exited: %v", werr)}:
		default:
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new file change watcher: %v", err)
	}
	g.watcher = watcher
	go g.watch()

	if err := watcher.Add(spool); err != nil {
		return fmt.Errorf("registering file change watcher for spool dir: %v", err)
	}
	return nil
}

func (g *grabber) watch() {
	for {
		select {
		case ev, ok := <-g.watcher.Events:
			if !ok {
				return
			}
			if ev.Op != fsnotify.Write || !strings.HasSuffix(ev.Name, ".jpg") {
				continue
			}
			f, err := os.Open(ev.Name)
			if err != nil {
				g.logf("open written file %q: %v", ev.Name, err)
				continue
			}
			img, err := jpeg.Decode(f)
			f.Close()
			if err != nil {
				g.logf("decoding jpeg %q: %v (may be partially written)", ev.Name, err)
				continue
			}
			if err := os.Remove(ev.Name); err != nil {
				g.logf("removing spooled frame %s: %v", ev.Name, err)
			}
			select {
			case g.frames <- frameEvent{img: img}:
			default:
				g.logf("dropping frame, no grab waiting")
			}

		case err, ok := <-g.watcher.Errors:
			if !ok {
				return
			}
			select {
			case g.frames <- frameEvent{err: fmt.Errorf("watching spool dir: %v", err)}:
			default:
			}
		}
	}
}

// Grab returns the next spooled frame, blocking until ffmpeg produces one.
func (g *grabber) Grab() (image.Image, error) {
	ev := <-g.frames
	if ev.err != nil {
		return nil, ev.err
	}
	return ev.img, nil
}

// Close stops ffmpeg and removes the spool directory.
func (g *grabber) Close() error {
	if g.cancel != nil {
		g.cancel()
	}
	if g.watcher != nil {
		g.watcher.Close()
	}
	if g.spool != "" {
		os.RemoveAll(g.spool)
	}
	return nil
}

func (g *grabber) logf(format string, args ...interface{}) {
	if g.verbose {
		log.Printf(format, args...)
	}
}
