//go:build !linux && !darwin

package main

import (
	"github.com/framegrab/timelapse/capture/ffmpeg"
)

const defaultBackend = "ffmpeg"

// setVerbose enables diagnostics on the backends that have them.
func setVerbose(v bool) {
	ffmpeg.Default.Verbose = v
}
