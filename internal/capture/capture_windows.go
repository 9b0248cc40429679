//go:build windows

package capture

import (
	"fmt"
	"image"
	"strings"
	"sync"
	"syscall"
	"unsafe"

	"github.com/kbinani/screenshot"
	"golang.org/x/sys/windows"
)

var (
	modUser32 = windows.NewLazySystemDLL("user32.dll")
	modGdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procEnumWindows          = modUser32.NewProc("EnumWindows")
	procGetWindowTextW       = modUser32.NewProc("GetWindowTextW")
	procGetWindowTextLengthW = modUser32.NewProc("GetWindowTextLengthW")
	procIsWindowVisible      = modUser32.NewProc("IsWindowVisible")
	procGetClientRect        = modUser32.NewProc("GetClientRect")
	procGetDC                = modUser32.NewProc("GetDC")
	procReleaseDC            = modUser32.NewProc("ReleaseDC")
	procPrintWindow          = modUser32.NewProc("PrintWindow")

	procCreateCompatibleDC     = modGdi32.NewProc("CreateCompatibleDC")
	procCreateCompatibleBitmap = modGdi32.NewProc("CreateCompatibleBitmap")
	procSelectObject           = modGdi32.NewProc("SelectObject")
	procDeleteObject           = modGdi32.NewProc("DeleteObject")
	procDeleteDC               = modGdi32.NewProc("DeleteDC")
	procGetDIBits              = modGdi32.NewProc("GetDIBits")
)

const (
	printWindowRenderFullContent = 0x00000002
	biRGB                        = 0
	dibRGBColors                 = 0
)

type rect struct {
	Left, Top, Right, Bottom int32
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

// Rect captures a rectangle in virtual-screen coordinates.
func Rect(r image.Rectangle) (image.Image, error) {
	if err := ValidateRect(r); err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(r)
	if err != nil {
		return nil, fmt.Errorf("capturing %v: %w", r, err)
	}
	return img, nil
}

// Desktop captures the primary display.
func Desktop() (image.Image, error) {
	return Display(0)
}

// Display captures the display with the given index.
func Display(index int) (image.Image, error) {
	n := screenshot.NumActiveDisplays()
	if index < 0 || index >= n {
		return nil, fmt.Errorf("display %d out of range (%d active)", index, n)
	}
	img, err := screenshot.CaptureDisplay(index)
	if err != nil {
		return nil, fmt.Errorf("capturing display %d: %w", index, err)
	}
	return img, nil
}

// Window captures the client area of the first visible window whose title
// contains title, case-insensitively. The window is rendered off-screen with
// PrintWindow, so it does not need to be in the foreground.
func Window(title string) (image.Image, error) {
	hwnd, err := findWindow(title)
	if err != nil {
		return nil, err
	}
	return printWindow(hwnd)
}

// enumState carries the match target into the enumeration callback. Windows
// caps the number of callbacks a process may create, so the callback is
// created once and calls are serialized instead.
var (
	enumMu    sync.Mutex
	enumState struct {
		want  string
		found windows.HWND
	}
	enumCallback = syscall.NewCallback(func(hwnd uintptr, _ uintptr) uintptr {
		visible, _, _ := procIsWindowVisible.Call(hwnd)
		if visible == 0 {
			return 1
		}
		length, _, _ := procGetWindowTextLengthW.Call(hwnd)
		if length == 0 {
			return 1
		}
		buf := make([]uint16, int(length)+1)
		_, _, _ = procGetWindowTextW.Call(hwnd, uintptr(unsafe.Pointer(&buf[0])), length+1)
		if strings.Contains(strings.ToLower(windows.UTF16ToString(buf)), enumState.want) {
			enumState.found = windows.HWND(hwnd)
			return 0
		}
		return 1
	})
)

func findWindow(title string) (windows.HWND, error) {
	enumMu.Lock()
	defer enumMu.Unlock()

	enumState.want = strings.ToLower(title)
	enumState.found = 0
	_, _, _ = procEnumWindows.Call(enumCallback, 0)

	if enumState.found == 0 {
		return 0, fmt.Errorf("%w: %q", ErrWindowNotFound, title)
	}
	return enumState.found, nil
}

func printWindow(hwnd windows.HWND) (image.Image, error) {
	var rc rect
	if r, _, _ := procGetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&rc))); r == 0 {
		return nil, fmt.Errorf("reading client rect of window %#x", uintptr(hwnd))
	}
	width := int(rc.Right - rc.Left)
	height := int(rc.Bottom - rc.Top)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window %#x has an empty client area", uintptr(hwnd))
	}

	winDC, _, _ := procGetDC.Call(uintptr(hwnd))
	if winDC == 0 {
		return nil, fmt.Errorf("acquiring device context of window %#x", uintptr(hwnd))
	}
	defer procReleaseDC.Call(uintptr(hwnd), winDC)

	memDC, _, _ := procCreateCompatibleDC.Call(winDC)
	if memDC == 0 {
		return nil, fmt.Errorf("creating memory device context")
	}
	defer procDeleteDC.Call(memDC)

	bmp, _, _ := procCreateCompatibleBitmap.Call(winDC, uintptr(width), uintptr(height))
	if bmp == 0 {
		return nil, fmt.Errorf("creating %dx%d capture bitmap", width, height)
	}
	defer procDeleteObject.Call(bmp)

	old, _, _ := procSelectObject.Call(memDC, bmp)
	defer procSelectObject.Call(memDC, old)

	if r, _, _ := procPrintWindow.Call(uintptr(hwnd), memDC, printWindowRenderFullContent); r == 0 {
		return nil, fmt.Errorf("rendering window %#x", uintptr(hwnd))
	}

	// Negative height requests a top-down DIB.
	info := bitmapInfo{Header: bitmapInfoHeader{
		Width:       int32(width),
		Height:      -int32(height),
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	info.Header.Size = uint32(unsafe.Sizeof(info.Header))

	buf := make([]byte, width*height*4)
	r, _, _ := procGetDIBits.Call(
		memDC, bmp, 0, uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&info)),
		dibRGBColors,
	)
	if r == 0 {
		return nil, fmt.Errorf("reading pixels of window %#x", uintptr(hwnd))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(buf); i += 4 {
		// GetDIBits hands back BGRA.
		img.Pix[i+0] = buf[i+2]
		img.Pix[i+1] = buf[i+1]
		img.Pix[i+2] = buf[i+0]
		img.Pix[i+3] = 0xFF
	}
	return img, nil
}
