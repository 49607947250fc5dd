package main

import (
	"github.com/framegrab/timelapse/capture/imagesnap"
)

const defaultBackend = "imagesnap"

// setVerbose enables diagnostics on the backends that have them.
func setVerbose(v bool) {
	imagesnap.Default.Verbose = v
}
