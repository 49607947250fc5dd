// Package status renders a live, single-line status display for a running
// capture session.
package status

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/framegrab/timelapse/session"
)

// Line is a session.Reporter that repaints one terminal line at a fixed
// refresh rate, independent of how often frames arrive.
type Line struct {
	w       io.Writer
	refresh time.Duration

	mu   sync.Mutex
	snap session.Snapshot
	have bool

	done chan struct{}
	wg   sync.WaitGroup
}

// NewLine returns a status line writing to w, repainting every refresh.
// A refresh <= 0 defaults to 250ms.
func NewLine(w io.Writer, refresh time.Duration) *Line {
	if refresh <= 0 {
		refresh = 250 * time.Millisecond
	}
	return &Line{w: w, refresh: refresh, done: make(chan struct{})}
}

// Report stores the latest snapshot for the next repaint.
func (l *Line) Report(s session.Snapshot) {
	l.mu.Lock()
	l.snap = s
	l.have = true
	l.mu.Unlock()
}

// Start begins repainting until Stop is called.
func (l *Line) Start() {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.refresh)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.paint(time.Now())
			case <-l.done:
				return
			}
		}
	}()
}

// Stop ends repainting and moves the cursor off the status line.
func (l *Line) Stop() {
	close(l.done)
	l.wg.Wait()
	l.mu.Lock()
	have := l.have
	l.mu.Unlock()
	if have {
		fmt.Fprintln(l.w)
	}
}

func (l *Line) paint(now time.Time) {
	l.mu.Lock()
	snap := l.snap
	have := l.have
	l.mu.Unlock()
	if !have {
		return
	}
	fmt.Fprintf(l.w, "\r%s", render(snap, now))
}

// render formats one status line. Elapsed time is computed from the wall
// clock, not the snapshot, so the clock keeps ticking between frames.
func render(snap session.Snapshot, now time.Time) string {
	s := fmt.Sprintf("recording %s  frames %d  last %s",
		formatElapsed(now.Sub(snap.StartedAt)), snap.Frames, snap.LastFile)
	if snap.MeanGap > 0 {
		s += fmt.Sprintf("  every %.1fs", snap.MeanGap.Seconds())
	}
	return s
}

// formatElapsed renders a duration as hh:mm:ss.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
