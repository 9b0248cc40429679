package winrt

import (
	"reflect"
	"sync"
)

// RefCounted is the surface of a COM-style reference-counted object. AddRef
// and Release return the updated reference count.
type RefCounted interface {
	AddRef() uint32
	Release() uint32
}

// Handle owns exactly one reference to a RefCounted object. Every acquired
// native reference is wrapped in a Handle immediately, and only Handle calls
// Release, so each reference is released exactly once no matter how call
// sites unwind.
type Handle struct {
	mu  sync.Mutex
	obj RefCounted
}

// NewHandle wraps an already-acquired reference. It does not AddRef. A nil
// object is rejected with ErrInvalidHandle.
func NewHandle(obj RefCounted) (*Handle, error) {
	if obj == nil || isNilPointer(obj) {
		return nil, ErrInvalidHandle
	}
	return &Handle{obj: obj}, nil
}

// Clone acquires an additional reference and returns an independent Handle
// for it. Cloning a closed handle fails with ErrInvalidHandle.
func (h *Handle) Clone() (*Handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.obj == nil {
		return nil, ErrInvalidHandle
	}
	h.obj.AddRef()
	return &Handle{obj: h.obj}, nil
}

// Object returns the wrapped reference for making calls on it. The reference
// stays owned by the handle.
func (h *Handle) Object() (RefCounted, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.obj == nil {
		return nil, ErrInvalidHandle
	}
	return h.obj, nil
}

// Close releases the owned reference. The stored reference is cleared before
// Release returns, so a second Close is a no-op.
func (h *Handle) Close() error {
	h.mu.Lock()
	obj := h.obj
	h.obj = nil
	h.mu.Unlock()
	if obj != nil {
		obj.Release()
	}
	return nil
}

// isNilPointer catches a nil concrete pointer hiding inside a non-nil
// interface value, which is what a null COM out-parameter becomes.
func isNilPointer(obj RefCounted) bool {
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
