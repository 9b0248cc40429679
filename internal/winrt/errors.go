package winrt

import (
	"errors"
	"fmt"
)

// ErrInvalidHandle is returned when a nil or already-released native
// reference is used.
var ErrInvalidHandle = errors.New("invalid native handle")

// AsyncOperationError reports a native async operation that ended in the
// Canceled or Error state. Code carries the HRESULT read from IAsyncInfo.
type AsyncOperationError struct {
	OpStatus AsyncStatus
	Code     HRESULT
}

func (e *AsyncOperationError) Error() string {
	return fmt.Sprintf("async operation %s: %s", e.OpStatus, e.Code)
}

// ActivationError reports a runtime class whose activation factory could not
// be obtained, typically because the class or interface is missing from this
// Windows build.
type ActivationError struct {
	Class string
	IID   GUID
	HR    HRESULT
}

func (e *ActivationError) Error() string {
	return fmt.Sprintf("activating %s (%s): %s", e.Class, e.IID, e.HR)
}

// CallError reports a failed raw vtable call.
type CallError struct {
	Method string
	HR     HRESULT
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.HR)
}
