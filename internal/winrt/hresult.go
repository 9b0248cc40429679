package winrt

import "fmt"

// HRESULT is a native COM result code. The high bit set means failure.
type HRESULT uint32

const (
	HRESULTOK             HRESULT = 0x00000000
	HRESULTFalse          HRESULT = 0x00000001
	HRESULTFail           HRESULT = 0x80004005
	HRESULTNoInterface    HRESULT = 0x80004002
	HRESULTPointer        HRESULT = 0x80004003
	HRESULTOutOfMemory    HRESULT = 0x8007000E
	HRESULTInvalidArg     HRESULT = 0x80070057
	HRESULTClassNotReg    HRESULT = 0x80040154
	HRESULTChangedMode    HRESULT = 0x80010106
	HRESULTFileNotFound   HRESULT = 0x80070002
	HRESULTAccessDenied   HRESULT = 0x80070005
	HRESULTNotInitialized HRESULT = 0x800401F0
)

// Failed reports whether the severity bit is set.
func (hr HRESULT) Failed() bool {
	return hr&0x80000000 != 0
}

// Succeeded reports whether the call completed without error (S_OK, S_FALSE
// and other success codes included).
func (hr HRESULT) Succeeded() bool {
	return !hr.Failed()
}

func (hr HRESULT) String() string {
	return fmt.Sprintf("0x%08X", uint32(hr))
}
