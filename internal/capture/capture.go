// Package capture grabs screen pixels as Go images for recognition input.
// Region and display capture go through the screenshot library; window
// capture renders the target window off-screen so occluded windows still
// produce pixels.
package capture

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnsupported is returned on platforms without screen capture.
var ErrUnsupported = errors.New("screen capture is only available on windows")

// ErrWindowNotFound is returned when no visible window title matches.
var ErrWindowNotFound = errors.New("no window matches the given title")

// ValidateRect rejects capture rectangles without area.
func ValidateRect(r image.Rectangle) error {
	if r.Dx() <= 0 || r.Dy() <= 0 {
		return fmt.Errorf("capture rectangle %v has no area", r)
	}
	return nil
}
