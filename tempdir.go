package timelapse

import (
	"os"
)

// SpoolDir returns a temporary directory for frame spooling, in /dev/shm if
// it exists, otherwise in the OS default temporary directory.
func SpoolDir() (string, error) {
	// Attempt to make the spool dir in /dev/shm so spooled frames never
	// hit disk. If that fails (eg no permission), fall back to the OS
	// default temp dir. Check that /dev/shm exists first; don't want to
	// accidentially create a directory in /dev (if someone runs this as
	// root).
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		dir, err := os.MkdirTemp("/dev/shm", "timelapse")
		if err == nil {
			return dir, nil
		}
	}
	return os.MkdirTemp("", "timelapse")
}
