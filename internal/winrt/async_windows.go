//go:build windows

package winrt

import "unsafe"

// asyncOperation adapts a raw IAsyncOperation pointer and its IAsyncInfo view
// to the AsyncOperation interface Await drives.
type asyncOperation struct {
	op   *Handle
	info *Handle
}

// NewAsyncOperation takes ownership of a freshly returned IAsyncOperation
// pointer and prepares it for Await. On failure the pointer is released.
func NewAsyncOperation(raw *Unknown) (AsyncOperation, error) {
	op, err := NewHandle(raw)
	if err != nil {
		return nil, err
	}
	info, err := op.QueryInterface(IIDIAsyncInfo)
	if err != nil {
		_ = op.Close()
		return nil, err
	}
	return &asyncOperation{op: op, info: info}, nil
}

func (a *asyncOperation) Status() (AsyncStatus, error) {
	var status int32
	hr, err := a.info.Call(SlotAsyncInfoStatus, uintptr(unsafe.Pointer(&status)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &CallError{Method: "IAsyncInfo.get_Status", HR: hr}
	}
	return AsyncStatus(status), nil
}

func (a *asyncOperation) ErrorCode() (HRESULT, error) {
	var code uint32
	hr, err := a.info.Call(SlotAsyncInfoErrorCode, uintptr(unsafe.Pointer(&code)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &CallError{Method: "IAsyncInfo.get_ErrorCode", HR: hr}
	}
	return HRESULT(code), nil
}

func (a *asyncOperation) Results() (uintptr, error) {
	var out uintptr
	hr, err := a.op.Call(SlotAsyncOperationGetResults, uintptr(unsafe.Pointer(&out)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &CallError{Method: "IAsyncOperation.GetResults", HR: hr}
	}
	return out, nil
}

// Close closes the native operation and drops both owned references. Errors
// from the native Close are ignored; the references are dropped regardless.
func (a *asyncOperation) Close() error {
	_, _ = a.info.Call(SlotAsyncInfoClose)
	_ = a.info.Close()
	_ = a.op.Close()
	return nil
}
