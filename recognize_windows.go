//go:build windows

package winocr

import (
	"fmt"
	"time"
	"unsafe"

	"github.com/MeKo-Tech/winocr/internal/winrt"
)

func (c *Client) recognizeBytes(buf []byte, s Settings) (*Result, error) {
	stream, err := winrt.NewMemoryStream(buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	return c.recognizeStream(stream, s)
}

func (c *Client) recognizeFile(path string, s Settings) (*Result, error) {
	stream, err := winrt.OpenFileStream(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer stream.Close()
	return c.recognizeStream(stream, s)
}

// recognizeStream runs the full native flow: decode the stream, gate its
// dimensions, hand the software bitmap to the engine, await the result and
// copy it out.
func (c *Client) recognizeStream(stream *winrt.Handle, s Settings) (*Result, error) {
	start := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureEngineLocked(s.Language); err != nil {
		return nil, err
	}

	bitmap, width, height, err := c.decodeStreamLocked(stream, s)
	if err != nil {
		return nil, err
	}
	defer bitmap.Close()

	recStart := time.Now()
	eu, err := c.native.engine.Unknown()
	if err != nil {
		return nil, err
	}
	bu, err := bitmap.Unknown()
	if err != nil {
		return nil, err
	}
	var raw *winrt.Unknown
	hr := eu.Call(winrt.SlotOcrEngineRecognizeAsync, bu.Addr(), uintptr(unsafe.Pointer(&raw)))
	if hr.Failed() {
		return nil, &winrt.CallError{Method: "IOcrEngine.RecognizeAsync", HR: hr}
	}
	op, err := winrt.NewAsyncOperation(raw)
	if err != nil {
		return nil, err
	}
	resPtr, err := winrt.Await(op, s.PollInterval)
	if err != nil {
		return nil, fmt.Errorf("recognizing: %w", err)
	}
	native, err := winrt.NewHandle(winrt.UnknownFromAddr(resPtr))
	if err != nil {
		return nil, err
	}
	defer native.Close()

	res, err := extractResult(native)
	if err != nil {
		return nil, err
	}
	res.Language = c.native.engineTag
	res.ImageWidth = int(width)
	res.ImageHeight = int(height)
	res.Processing.RecognitionNs = time.Since(recStart).Nanoseconds()
	res.Processing.TotalNs = time.Since(start).Nanoseconds()
	return res, nil
}

// decodeStreamLocked decodes an encoded image stream into a software bitmap,
// checking the pixel dimensions against the engine maximum before any
// recognition work is issued.
func (c *Client) decodeStreamLocked(stream *winrt.Handle, s Settings) (*winrt.Handle, uint32, uint32, error) {
	statics, err := c.ensureDecoderStatics()
	if err != nil {
		return nil, 0, 0, err
	}
	su, err := stream.Unknown()
	if err != nil {
		return nil, 0, 0, err
	}

	var rawOp *winrt.Unknown
	hr, err := statics.Call(winrt.SlotDecoderStaticsCreateAsync, su.Addr(), uintptr(unsafe.Pointer(&rawOp)))
	if err != nil {
		return nil, 0, 0, err
	}
	if hr.Failed() {
		return nil, 0, 0, &winrt.CallError{Method: "IBitmapDecoderStatics.CreateAsync", HR: hr}
	}
	op, err := winrt.NewAsyncOperation(rawOp)
	if err != nil {
		return nil, 0, 0, err
	}
	decPtr, err := winrt.Await(op, s.PollInterval)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decoding image: %w", err)
	}
	decoder, err := winrt.NewHandle(winrt.UnknownFromAddr(decPtr))
	if err != nil {
		return nil, 0, 0, err
	}
	defer decoder.Close()

	frame, err := decoder.QueryInterface(winrt.IIDIBitmapFrame)
	if err != nil {
		return nil, 0, 0, err
	}
	defer frame.Close()

	width, err := readUint32(frame, winrt.SlotFramePixelWidth, "IBitmapFrame.get_PixelWidth")
	if err != nil {
		return nil, 0, 0, err
	}
	height, err := readUint32(frame, winrt.SlotFramePixelHeight, "IBitmapFrame.get_PixelHeight")
	if err != nil {
		return nil, 0, 0, err
	}
	maxDim, err := c.maxDimensionLocked()
	if err != nil {
		return nil, 0, 0, err
	}
	if err := checkDimensions(width, height, maxDim); err != nil {
		return nil, 0, 0, err
	}

	fwsb, err := decoder.QueryInterface(winrt.IIDIBitmapFrameWithSoftwareBitmap)
	if err != nil {
		return nil, 0, 0, err
	}
	defer fwsb.Close()

	var rawBmpOp *winrt.Unknown
	hr, err = fwsb.Call(winrt.SlotFrameGetSoftwareBitmapAsync, uintptr(unsafe.Pointer(&rawBmpOp)))
	if err != nil {
		return nil, 0, 0, err
	}
	if hr.Failed() {
		return nil, 0, 0, &winrt.CallError{Method: "IBitmapFrameWithSoftwareBitmap.GetSoftwareBitmapAsync", HR: hr}
	}
	bmpOp, err := winrt.NewAsyncOperation(rawBmpOp)
	if err != nil {
		return nil, 0, 0, err
	}
	bmpPtr, err := winrt.Await(bmpOp, s.PollInterval)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("extracting software bitmap: %w", err)
	}
	bitmap, err := winrt.NewHandle(winrt.UnknownFromAddr(bmpPtr))
	if err != nil {
		return nil, 0, 0, err
	}
	return bitmap, width, height, nil
}

func readUint32(h *winrt.Handle, slot uintptr, method string) (uint32, error) {
	var v uint32
	hr, err := h.Call(slot, uintptr(unsafe.Pointer(&v)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &winrt.CallError{Method: method, HR: hr}
	}
	return v, nil
}
