// Package capture defines the interface to video capture backends, and a
// registry of the backends compiled into the binary.
package capture

import (
	"fmt"
	"image"
	"sort"

	"github.com/framegrab/timelapse/device"
)

// Source is a capture backend. It enumerates the devices it can record from
// and opens one of them for grabbing frames.
type Source interface {
	// Name returns the backend identifier (eg "v4l2", "ffmpeg").
	Name() string

	// ListDevices enumerates the currently attached capture devices. Each
	// call re-scans the hardware; order and count may differ between
	// calls. No devices is an empty catalog, not an error.
	ListDevices() ([]device.Descriptor, error)

	// Open acquires the device with the given ID for exclusive capture.
	// The returned Grabber must be closed by the caller.
	Open(id int) (Grabber, error)
}

// Grabber is an open capture device that frames can be read from.
//
// Grab and Close may block on hardware or subprocess I/O; neither is
// cancelled mid-call.
type Grabber interface {
	// Grab acquires the next frame from the device.
	Grab() (image.Image, error)

	// Close releases the device. Close must be called exactly once.
	Close() error
}

var registry = map[string]Source{}

// Register adds a capture backend to the global registry.
func Register(s Source) {
	registry[s.Name()] = s
}

// Get returns a registered backend by name.
func Get(name string) (Source, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown capture backend %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names returns the names of all registered backends, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
