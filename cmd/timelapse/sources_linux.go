package main

import (
	"github.com/framegrab/timelapse/capture/ffmpeg"
	_ "github.com/framegrab/timelapse/capture/v4l2"
)

const defaultBackend = "v4l2"

// setVerbose enables diagnostics on the backends that have them.
func setVerbose(v bool) {
	ffmpeg.Default.Verbose = v
}
