// Package session runs a capture session: it opens a capture device and
// records frames to numbered files at a fixed interval until stopped.
package session

import (
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	timelapse "github.com/framegrab/timelapse"
	"github.com/framegrab/timelapse/capture"
)

// Reason classifies why a capture session ended.
type Reason int

const (
	// ReasonNone means the session has not terminated yet.
	ReasonNone Reason = iota
	// ReasonOperatorStop means the operator requested the stop.
	ReasonOperatorStop
	// ReasonCaptureFailure means opening the device or capturing a frame
	// failed.
	ReasonCaptureFailure
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "running"
	case ReasonOperatorStop:
		return "operator stop"
	case ReasonCaptureFailure:
		return "capture failure"
	default:
		return "unknown"
	}
}

// Snapshot is the observable state of a running session, passed to the
// Reporter after every captured frame.
type Snapshot struct {
	StartedAt time.Time
	Elapsed   time.Duration
	Frames    int
	LastFile  string // Name of the most recently written frame.
	OutputDir string
	MeanGap   time.Duration // Mean time between recent frames, zero until two frames exist.
}

// Reporter renders status snapshots. It owns no session state.
type Reporter interface {
	Report(Snapshot)
}

// Config configures a capture session.
type Config struct {
	Source    capture.Source
	DeviceID  int
	OutputDir string        // Created if absent; an existing directory is reused.
	Interval  time.Duration // Pause between frames, >= 0.
	Format    string        // Frame file extension, default "jpg".
	Reporter  Reporter      // Optional.

	// Persist writes one frame to path. The default encodes with the
	// imaging package, picking the format from the file extension.
	Persist func(img image.Image, path string) error

	Verbose bool
}

// Session is one capture run, from opening the device to termination. The
// loop in Run is the only writer of session state; the stop signal is the
// only state shared with other goroutines.
type Session struct {
	cfg       Config
	startedAt time.Time
	frames    int
	reason    Reason

	stopOnce sync.Once
	stop     chan struct{}
}

// New returns a session ready to Run.
func New(cfg Config) *Session {
	if cfg.Format == "" {
		cfg.Format = "jpg"
	}
	if cfg.Persist == nil {
		cfg.Persist = saveFrame
	}
	return &Session{cfg: cfg, stop: make(chan struct{})}
}

// RequestStop asks the session to stop. A frame already in flight still
// completes; no frame is started afterwards. RequestStop is idempotent and
// safe to call from any goroutine, eg a signal handler.
func (s *Session) RequestStop() {
	s.stopOnce.Do(func() { close(s.stop) })
}

// Frames returns the number of frames captured. It is valid once Run has
// returned, whatever the termination reason.
func (s *Session) Frames() int {
	return s.frames
}

// Run captures frames until RequestStop is called or a capture fails, and
// returns why the session ended. The device is released on every exit path.
func (s *Session) Run() (Reason, error) {
	if err := os.MkdirAll(s.cfg.OutputDir, 0755); err != nil {
		return s.finish(ReasonCaptureFailure), fmt.Errorf("making output directory: %v", err)
	}

	grab, err := s.cfg.Source.Open(s.cfg.DeviceID)
	if err != nil {
		return s.finish(ReasonCaptureFailure), fmt.Errorf("opening device %d: %v", s.cfg.DeviceID, err)
	}
	defer grab.Close()

	s.startedAt = time.Now()
	meter, _ := timelapse.NewMeter(10)
	var lastFrame time.Time

	for {
		select {
		case <-s.stop:
			return s.finish(ReasonOperatorStop), nil
		default:
		}

		img, err := grab.Grab()
		if err != nil {
			return s.finish(ReasonCaptureFailure), fmt.Errorf("capturing frame %d: %v", s.frames, err)
		}

		name := FrameName(s.frames, s.cfg.Format)
		path := filepath.Join(s.cfg.OutputDir, name)
		if err := s.cfg.Persist(img, path); err != nil {
			return s.finish(ReasonCaptureFailure), fmt.Errorf("writing %s: %v", path, err)
		}
		s.frames++
		if s.cfg.Verbose {
			log.Printf("wrote %s", path)
		}

		now := time.Now()
		if !lastFrame.IsZero() {
			meter.Update(now.Sub(lastFrame))
		}
		lastFrame = now

		if s.cfg.Reporter != nil {
			s.cfg.Reporter.Report(Snapshot{
				StartedAt: s.startedAt,
				Elapsed:   now.Sub(s.startedAt),
				Frames:    s.frames,
				LastFile:  name,
				OutputDir: s.cfg.OutputDir,
				MeanGap:   meter.Mean(),
			})
		}

		if s.cfg.Interval > 0 {
			select {
			case <-time.After(s.cfg.Interval):
			case <-s.stop:
				return s.finish(ReasonOperatorStop), nil
			}
		}
	}
}

// finish records the termination reason, keeping the first one set.
func (s *Session) finish(r Reason) Reason {
	if s.reason == ReasonNone {
		s.reason = r
	}
	return s.reason
}
