package winrt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHRESULTFailed(t *testing.T) {
	assert.False(t, HRESULTOK.Failed())
	assert.False(t, HRESULTFalse.Failed())
	assert.True(t, HRESULTFail.Failed())
	assert.True(t, HRESULTNoInterface.Failed())

	assert.True(t, HRESULTOK.Succeeded())
	assert.False(t, HRESULTFail.Succeeded())
}

func TestHRESULTString(t *testing.T) {
	assert.Equal(t, "0x80004005", HRESULTFail.String())
	assert.Equal(t, "0x00000000", HRESULTOK.String())
}

func TestAsyncOperationErrorMessage(t *testing.T) {
	err := &AsyncOperationError{OpStatus: AsyncError, Code: HRESULTFail}
	assert.Equal(t, "async operation error: 0x80004005", err.Error())
}

func TestActivationErrorMessage(t *testing.T) {
	err := &ActivationError{
		Class: ClassOcrEngine,
		IID:   IIDIOcrEngineStatics,
		HR:    HRESULTClassNotReg,
	}
	assert.Contains(t, err.Error(), ClassOcrEngine)
	assert.Contains(t, err.Error(), "5BFFA85A-3384-3540-9940-699120D428A8")
	assert.Contains(t, err.Error(), "0x80040154")
}
