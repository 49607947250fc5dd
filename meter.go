// Package timelapse has shared helpers for the timelapse tool: frame
// spooling directories and pacing measurement.
package timelapse

import (
	"fmt"
	"time"
)

// Meter is a moving average filter over durations, for smoothing out frame
// pacing measurements.
type Meter struct {
	index   int
	count   int
	sum     time.Duration
	samples []time.Duration
}

// NewMeter returns a new moving average meter with a history of given size.
func NewMeter(size int) (*Meter, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size must be > 0")
	}
	return &Meter{samples: make([]time.Duration, size)}, nil
}

// Update adds one measurement to the meter. Update returns the mean over
// the filled part of the history window.
func (m *Meter) Update(d time.Duration) (time.Duration, error) {
	if m.samples == nil {
		return 0, fmt.Errorf("invalid Meter, use NewMeter")
	}
	m.sum -= m.samples[m.index]
	m.sum += d
	m.samples[m.index] = d
	m.index++
	if m.index >= len(m.samples) {
		m.index = 0
	}
	if m.count < len(m.samples) {
		m.count++
	}
	return m.sum / time.Duration(m.count), nil
}

// Mean returns the current mean without adding a measurement, or zero if no
// measurements have been added yet.
func (m *Meter) Mean() time.Duration {
	if m == nil || m.count == 0 {
		return 0
	}
	return m.sum / time.Duration(m.count)
}
