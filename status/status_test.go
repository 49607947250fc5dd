package status

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/framegrab/timelapse/session"
)

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		d   time.Duration
		exp string
	}{
		{0, "00:00:00"},
		{59 * time.Second, "00:00:59"},
		{61 * time.Second, "00:01:01"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{25 * time.Hour, "25:00:00"},
		{-time.Second, "00:00:00"},
	}
	for _, tc := range tests {
		if got := formatElapsed(tc.d); got != tc.exp {
			t.Errorf("formatElapsed(%v): got %q, expected %q", tc.d, got, tc.exp)
		}
	}
}

func TestRender(t *testing.T) {
	started := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	snap := session.Snapshot{
		StartedAt: started,
		Frames:    12,
		LastFile:  "frame_000011.jpg",
		OutputDir: "out",
		MeanGap:   1500 * time.Millisecond,
	}

	got := render(snap, started.Add(75*time.Second))
	exp := "recording 00:01:15  frames 12  last frame_000011.jpg  every 1.5s"
	if got != exp {
		t.Fatalf("render: got %q, expected %q", got, exp)
	}

	// Without a pacing mean yet, the rate is left out.
	snap.MeanGap = 0
	got = render(snap, started.Add(time.Second))
	if strings.Contains(got, "every") {
		t.Fatalf("render without mean gap still shows a rate: %q", got)
	}
}

func TestLinePaint(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, 0)

	// Nothing to paint before the first report.
	l.paint(time.Now())
	if buf.Len() != 0 {
		t.Fatalf("paint before first report wrote %q", buf.String())
	}

	started := time.Now()
	l.Report(session.Snapshot{StartedAt: started, Frames: 3, LastFile: "frame_000002.jpg"})
	l.paint(started.Add(2 * time.Second))
	out := buf.String()
	if !strings.HasPrefix(out, "\r") {
		t.Fatalf("paint did not return to line start: %q", out)
	}
	if !strings.Contains(out, "frames 3") || !strings.Contains(out, "frame_000002.jpg") {
		t.Fatalf("painted line missing snapshot fields: %q", out)
	}
}

func TestLineStartStop(t *testing.T) {
	var buf bytes.Buffer
	l := NewLine(&buf, time.Millisecond)
	l.Start()
	l.Report(session.Snapshot{StartedAt: time.Now(), Frames: 1, LastFile: "frame_000000.jpg"})
	time.Sleep(20 * time.Millisecond)
	l.Stop()
	if !strings.Contains(buf.String(), "frames 1") {
		t.Fatalf("ticker did not repaint: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("stop did not terminate the status line: %q", buf.String())
	}
}
