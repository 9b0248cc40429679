//go:build windows

package winocr

import (
	"unsafe"

	"github.com/MeKo-Tech/winocr/internal/winrt"
)

// extractResult copies the native result graph into plain Go structs. Every
// intermediate native object is released before it returns.
func extractResult(res *winrt.Handle) (*Result, error) {
	text, err := winrt.ReadHString(res, winrt.SlotOcrResultText, "IOcrResult.get_Text")
	if err != nil {
		return nil, err
	}
	angle, err := readTextAngle(res)
	if err != nil {
		return nil, err
	}
	lines, err := extractLines(res)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text, TextAngle: angle, Lines: lines}, nil
}

// readTextAngle unwraps the IReference<double> text angle. A null reference
// means the engine reported no angle and reads as zero.
func readTextAngle(res *winrt.Handle) (float64, error) {
	var raw *winrt.Unknown
	hr, err := res.Call(winrt.SlotOcrResultTextAngle, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &winrt.CallError{Method: "IOcrResult.get_TextAngle", HR: hr}
	}
	ref, err := winrt.NewHandle(raw)
	if err != nil {
		return 0, nil
	}
	defer ref.Close()

	var angle float64
	hr, err = ref.Call(winrt.SlotReferenceValue, uintptr(unsafe.Pointer(&angle)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &winrt.CallError{Method: "IReference<double>.get_Value", HR: hr}
	}
	return angle, nil
}

func extractLines(res *winrt.Handle) ([]Line, error) {
	var raw *winrt.Unknown
	hr, err := res.Call(winrt.SlotOcrResultLines, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return nil, err
	}
	if hr.Failed() {
		return nil, &winrt.CallError{Method: "IOcrResult.get_Lines", HR: hr}
	}
	vec, err := winrt.NewHandle(raw)
	if err != nil {
		return nil, err
	}
	defer vec.Close()

	size, err := winrt.VectorSize(vec)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, size)
	for i := uint32(0); i < size; i++ {
		item, err := winrt.VectorAt(vec, i)
		if err != nil {
			return nil, err
		}
		line, err := extractLine(item)
		_ = item.Close()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func extractLine(h *winrt.Handle) (Line, error) {
	text, err := winrt.ReadHString(h, winrt.SlotOcrLineText, "IOcrLine.get_Text")
	if err != nil {
		return Line{}, err
	}

	var raw *winrt.Unknown
	hr, err := h.Call(winrt.SlotOcrLineWords, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return Line{}, err
	}
	if hr.Failed() {
		return Line{}, &winrt.CallError{Method: "IOcrLine.get_Words", HR: hr}
	}
	vec, err := winrt.NewHandle(raw)
	if err != nil {
		return Line{}, err
	}
	defer vec.Close()

	size, err := winrt.VectorSize(vec)
	if err != nil {
		return Line{}, err
	}
	words := make([]Word, 0, size)
	for i := uint32(0); i < size; i++ {
		item, err := winrt.VectorAt(vec, i)
		if err != nil {
			return Line{}, err
		}
		word, err := extractWord(item)
		_ = item.Close()
		if err != nil {
			return Line{}, err
		}
		words = append(words, word)
	}
	return Line{Text: text, Words: words}, nil
}

func extractWord(h *winrt.Handle) (Word, error) {
	// Windows.Foundation.Rect is four packed float32 fields.
	var rect struct {
		X, Y, Width, Height float32
	}
	hr, err := h.Call(winrt.SlotOcrWordBoundingRect, uintptr(unsafe.Pointer(&rect)))
	if err != nil {
		return Word{}, err
	}
	if hr.Failed() {
		return Word{}, &winrt.CallError{Method: "IOcrWord.get_BoundingRect", HR: hr}
	}
	text, err := winrt.ReadHString(h, winrt.SlotOcrWordText, "IOcrWord.get_Text")
	if err != nil {
		return Word{}, err
	}
	return Word{
		Text: text,
		BoundingRect: Rect{
			X:      float64(rect.X),
			Y:      float64(rect.Y),
			Width:  float64(rect.Width),
			Height: float64(rect.Height),
		},
	}, nil
}
