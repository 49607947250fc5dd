// Package device describes video capture devices and resolves user-supplied
// device selectors against an enumerated catalog.
package device

// Descriptor describes one capture device in a catalog.
//
// Index is the position in the enumeration that produced the descriptor and
// is not stable across runs; ID is assigned by the capture backend and is
// stable across runs on the same machine (eg the N in /dev/videoN).
type Descriptor struct {
	Index int
	ID    int
	Name  string // Human-readable name, possibly empty.
}
