//go:build windows

package winrt

// Unknown returns the wrapped reference as a raw interface pointer. The
// reference stays owned by the handle.
func (h *Handle) Unknown() (*Unknown, error) {
	obj, err := h.Object()
	if err != nil {
		return nil, err
	}
	u, ok := obj.(*Unknown)
	if !ok {
		return nil, ErrInvalidHandle
	}
	return u, nil
}

// Call invokes the vtable method at slot on the wrapped interface pointer.
func (h *Handle) Call(slot uintptr, args ...uintptr) (HRESULT, error) {
	u, err := h.Unknown()
	if err != nil {
		return 0, err
	}
	return u.Call(slot, args...), nil
}

// QueryInterface acquires another interface on the wrapped object, owned by
// the returned handle.
func (h *Handle) QueryInterface(iid GUID) (*Handle, error) {
	u, err := h.Unknown()
	if err != nil {
		return nil, err
	}
	out, err := u.QueryInterface(iid)
	if err != nil {
		return nil, err
	}
	return NewHandle(out)
}
