//go:build windows

// Package winrt carries the raw COM/WinRT plumbing: apartment setup,
// activation factories, HSTRING marshaling, reference ownership, and the
// polling bridge that turns native async operations into synchronous calls.
package winrt

import (
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modCombase = windows.NewLazySystemDLL("combase.dll")

	procRoInitialize              = modCombase.NewProc("RoInitialize")
	procRoGetActivationFactory    = modCombase.NewProc("RoGetActivationFactory")
	procWindowsCreateString       = modCombase.NewProc("WindowsCreateString")
	procWindowsDeleteString       = modCombase.NewProc("WindowsDeleteString")
	procWindowsGetStringRawBuffer = modCombase.NewProc("WindowsGetStringRawBuffer")
)

const roInitTypeMultithreaded = 1

var (
	initOnce sync.Once
	initErr  error
)

// Initialize joins the process to the multithreaded WinRT apartment. Only the
// first call does work; later calls return its outcome. A host that already
// set up COM with a different threading model is accepted as-is.
func Initialize() error {
	initOnce.Do(func() {
		r, _, _ := procRoInitialize.Call(uintptr(roInitTypeMultithreaded))
		hr := HRESULT(r)
		if hr.Failed() && hr != HRESULTChangedMode {
			initErr = &CallError{Method: "RoInitialize", HR: hr}
		}
	})
	return initErr
}

// GetActivationFactory fetches the activation factory of a runtime class and
// returns the requested factory interface on it.
func GetActivationFactory(class string, iid GUID) (*Handle, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	hs, err := NewHString(class)
	if err != nil {
		return nil, err
	}
	defer hs.Delete()

	var factory *Unknown
	r, _, _ := procRoGetActivationFactory.Call(
		uintptr(hs),
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if hr := HRESULT(r); hr.Failed() {
		return nil, &ActivationError{Class: class, IID: iid, HR: hr}
	}
	return NewHandle(factory)
}
