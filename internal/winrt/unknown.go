//go:build windows

package winrt

import (
	"syscall"
	"unsafe"
)

// Unknown is a raw COM interface pointer. Every WinRT interface begins with
// the IUnknown slots, so any acquired interface pointer can be held as
// *Unknown and driven through Call by slot ordinal. The pointed-to memory is
// owned by the native object, never by the Go heap.
type Unknown struct {
	vtbl *uintptr
}

// Addr returns the interface pointer value for passing as a call argument.
func (u *Unknown) Addr() uintptr {
	return uintptr(unsafe.Pointer(u))
}

// Call invokes the vtable method at slot with the interface pointer as the
// implicit first argument and returns the raw HRESULT.
func (u *Unknown) Call(slot uintptr, args ...uintptr) HRESULT {
	fn := unsafe.Slice(u.vtbl, slot+1)[slot]
	callArgs := make([]uintptr, 0, len(args)+1)
	callArgs = append(callArgs, u.Addr())
	callArgs = append(callArgs, args...)
	r, _, _ := syscall.SyscallN(fn, callArgs...)
	return HRESULT(r)
}

// QueryInterface acquires another interface on the same object. The returned
// pointer carries its own reference.
func (u *Unknown) QueryInterface(iid GUID) (*Unknown, error) {
	var out *Unknown
	hr := u.Call(0, uintptr(unsafe.Pointer(&iid)), uintptr(unsafe.Pointer(&out)))
	if hr.Failed() {
		return nil, &CallError{Method: "QueryInterface " + iid.String(), HR: hr}
	}
	return out, nil
}

// AddRef increments the native reference count.
func (u *Unknown) AddRef() uint32 {
	fn := unsafe.Slice(u.vtbl, 2)[1]
	n, _, _ := syscall.SyscallN(fn, u.Addr())
	return uint32(n)
}

// Release decrements the native reference count.
func (u *Unknown) Release() uint32 {
	fn := unsafe.Slice(u.vtbl, 3)[2]
	n, _, _ := syscall.SyscallN(fn, u.Addr())
	return uint32(n)
}
