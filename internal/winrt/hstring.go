//go:build windows

package winrt

import (
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

// HString is a WinRT HSTRING. The zero value represents the empty string.
type HString uintptr

// NewHString copies s into a native HSTRING. The caller must Delete it.
func NewHString(s string) (HString, error) {
	if s == "" {
		return 0, nil
	}
	buf, err := windows.UTF16FromString(s)
	if err != nil {
		return 0, err
	}

	var h HString
	r, _, _ := procWindowsCreateString.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf)-1)),
		uintptr(unsafe.Pointer(&h)),
	)
	if hr := HRESULT(r); hr.Failed() {
		return 0, &CallError{Method: "WindowsCreateString", HR: hr}
	}
	return h, nil
}

// Delete releases the backing buffer. Safe on the zero value and on strings
// received from native code that were already consumed.
func (h HString) Delete() {
	if h != 0 {
		_, _, _ = procWindowsDeleteString.Call(uintptr(h))
	}
}

// String copies the native buffer out as a Go string.
func (h HString) String() string {
	if h == 0 {
		return ""
	}
	var length uint32
	buf, _, _ := procWindowsGetStringRawBuffer.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(&length)),
	)
	if buf == 0 || length == 0 {
		return ""
	}
	return string(utf16.Decode(unsafe.Slice((*uint16)(unsafe.Pointer(buf)), length)))
}
