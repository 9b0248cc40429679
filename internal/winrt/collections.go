//go:build windows

package winrt

import "unsafe"

// UnknownFromAddr reinterprets a raw pointer-sized call result as an
// interface pointer. A zero address yields nil.
func UnknownFromAddr(p uintptr) *Unknown {
	return (*Unknown)(unsafe.Pointer(p))
}

// VectorSize reads get_Size on an IVectorView.
func VectorSize(v *Handle) (uint32, error) {
	var size uint32
	hr, err := v.Call(SlotVectorViewSize, uintptr(unsafe.Pointer(&size)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &CallError{Method: "IVectorView.get_Size", HR: hr}
	}
	return size, nil
}

// VectorAt reads GetAt(i) on an IVectorView and returns the element as an
// owned handle.
func VectorAt(v *Handle, i uint32) (*Handle, error) {
	var item *Unknown
	hr, err := v.Call(SlotVectorViewGetAt, uintptr(i), uintptr(unsafe.Pointer(&item)))
	if err != nil {
		return nil, err
	}
	if hr.Failed() {
		return nil, &CallError{Method: "IVectorView.GetAt", HR: hr}
	}
	return NewHandle(item)
}

// ReadHString calls a property slot that returns an HSTRING and converts it
// to a Go string, deleting the native string afterwards.
func ReadHString(h *Handle, slot uintptr, method string) (string, error) {
	var hs HString
	hr, err := h.Call(slot, uintptr(unsafe.Pointer(&hs)))
	if err != nil {
		return "", err
	}
	if hr.Failed() {
		return "", &CallError{Method: method, HR: hr}
	}
	defer hs.Delete()
	return hs.String(), nil
}
