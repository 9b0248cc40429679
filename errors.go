package winocr

import (
	"errors"
	"fmt"

	"github.com/MeKo-Tech/winocr/internal/winrt"
)

// Interop error types re-exported so callers only need this package.
type (
	AsyncOperationError = winrt.AsyncOperationError
	ActivationError     = winrt.ActivationError
)

// ErrInvalidHandle reports use of a nil or already-released native reference.
var ErrInvalidHandle = winrt.ErrInvalidHandle

// ErrPlatformUnsupported is returned by every entry point on builds without
// the native engine.
var ErrPlatformUnsupported = errors.New("the Windows OCR engine is only available on windows")

// ImageTooLargeError reports an input whose pixel dimensions exceed the
// engine-reported maximum. The check runs before recognition is attempted.
type ImageTooLargeError struct {
	Width  uint32
	Height uint32
	Max    uint32
}

func (e *ImageTooLargeError) Error() string {
	return fmt.Sprintf("image %dx%d exceeds the engine maximum dimension %d", e.Width, e.Height, e.Max)
}

// UnsupportedLanguageError reports a language tag no installed OCR-capable
// language pack can serve.
type UnsupportedLanguageError struct {
	Tag string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("no installed OCR language pack matches %q", e.Tag)
}

// checkDimensions gates decoded inputs on the engine maximum before any
// recognition work is issued.
func checkDimensions(width, height, maxDim uint32) error {
	if width > maxDim || height > maxDim {
		return &ImageTooLargeError{Width: width, Height: height, Max: maxDim}
	}
	return nil
}
