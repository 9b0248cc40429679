//go:build !windows

package capture

import "image"

// Rect is unavailable off windows.
func Rect(r image.Rectangle) (image.Image, error) {
	if err := ValidateRect(r); err != nil {
		return nil, err
	}
	return nil, ErrUnsupported
}

// Desktop is unavailable off windows.
func Desktop() (image.Image, error) {
	return nil, ErrUnsupported
}

// Display is unavailable off windows.
func Display(_ int) (image.Image, error) {
	return nil, ErrUnsupported
}

// Window is unavailable off windows.
func Window(_ string) (image.Image, error) {
	return nil, ErrUnsupported
}
