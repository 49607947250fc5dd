package device

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoDevices means the catalog was empty, so no selector can resolve.
var ErrNoDevices = errors.New("no devices found")

// NotFoundError means a selector matched no device in a non-empty catalog.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("device %q not found, run \"timelapse devices\" to list available devices", e.Selector)
}

// Resolve maps selector to the ID of exactly one device in catalog.
//
// An integer selector is matched against device IDs first; if no ID matches
// and the integer is a valid catalog position, the device at that position
// is used. Any other selector is matched as a case-insensitive substring of
// the device names, in catalog order, skipping devices without a name. The
// first match wins; multiple name matches are not an error.
func Resolve(selector string, catalog []Descriptor) (int, error) {
	if len(catalog) == 0 {
		return 0, ErrNoDevices
	}

	if n, err := strconv.Atoi(strings.TrimSpace(selector)); err == nil {
		for _, d := range catalog {
			if d.ID == n {
				return d.ID, nil
			}
		}
		if n >= 0 && n < len(catalog) {
			return catalog[n].ID, nil
		}
		return 0, &NotFoundError{Selector: selector}
	}

	want := strings.ToLower(selector)
	for _, d := range catalog {
		if d.Name == "" {
			continue
		}
		if strings.Contains(strings.ToLower(d.Name), want) {
			return d.ID, nil
		}
	}
	return 0, &NotFoundError{Selector: selector}
}
