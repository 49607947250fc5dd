package session

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// FrameName returns the file name for the frame with the given index: a
// fixed-width zero-padded decimal, so that lexicographic order matches
// capture order up to a million frames. Downstream tooling relies on this
// naming, don't change it.
func FrameName(index int, ext string) string {
	return fmt.Sprintf("frame_%06d.%s", index, ext)
}

// saveFrame is the default Persist. The imaging package picks the encoder
// from the file extension.
func saveFrame(img image.Image, path string) error {
	return imaging.Save(img, path)
}
