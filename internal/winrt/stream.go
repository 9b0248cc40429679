//go:build windows

package winrt

import (
	"errors"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	modShlwapi = windows.NewLazySystemDLL("shlwapi.dll")
	modShcore  = windows.NewLazySystemDLL("shcore.dll")

	procSHCreateMemStream                  = modShlwapi.NewProc("SHCreateMemStream")
	procCreateRandomAccessStreamOverStream = modShcore.NewProc("CreateRandomAccessStreamOverStream")
	procCreateRandomAccessStreamOnFile     = modShcore.NewProc("CreateRandomAccessStreamOnFile")
)

const (
	bsosDefault        = 0
	fileAccessModeRead = 0
)

// NewMemoryStream copies buf into a native in-memory random access stream
// suitable for the bitmap decoder. The native stream owns its own copy of
// the bytes.
func NewMemoryStream(buf []byte) (*Handle, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	if len(buf) == 0 {
		return nil, errors.New("empty stream buffer")
	}

	raw, _, _ := procSHCreateMemStream.Call(
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(uint32(len(buf))),
	)
	if raw == 0 {
		return nil, &CallError{Method: "SHCreateMemStream", HR: HRESULTOutOfMemory}
	}
	istream, err := NewHandle((*Unknown)(unsafe.Pointer(raw)))
	if err != nil {
		return nil, err
	}
	defer istream.Close()

	su, err := istream.Unknown()
	if err != nil {
		return nil, err
	}
	var ras *Unknown
	r, _, _ := procCreateRandomAccessStreamOverStream.Call(
		su.Addr(),
		uintptr(bsosDefault),
		uintptr(unsafe.Pointer(&IIDIRandomAccessStream)),
		uintptr(unsafe.Pointer(&ras)),
	)
	if hr := HRESULT(r); hr.Failed() {
		return nil, &CallError{Method: "CreateRandomAccessStreamOverStream", HR: hr}
	}
	return NewHandle(ras)
}

// OpenFileStream opens path as a read-only native random access stream.
func OpenFileStream(path string) (*Handle, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	var ras *Unknown
	r, _, _ := procCreateRandomAccessStreamOnFile.Call(
		uintptr(unsafe.Pointer(p)),
		uintptr(fileAccessModeRead),
		uintptr(unsafe.Pointer(&IIDIRandomAccessStream)),
		uintptr(unsafe.Pointer(&ras)),
	)
	if hr := HRESULT(r); hr.Failed() {
		return nil, &CallError{Method: "CreateRandomAccessStreamOnFile", HR: hr}
	}
	return NewHandle(ras)
}
