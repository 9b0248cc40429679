package winrt

import (
	"fmt"
	"time"
)

// AsyncStatus mirrors Windows.Foundation.AsyncStatus.
type AsyncStatus int32

const (
	AsyncStarted   AsyncStatus = 0
	AsyncCompleted AsyncStatus = 1
	AsyncCanceled  AsyncStatus = 2
	AsyncError     AsyncStatus = 3
)

func (s AsyncStatus) String() string {
	switch s {
	case AsyncStarted:
		return "started"
	case AsyncCompleted:
		return "completed"
	case AsyncCanceled:
		return "canceled"
	case AsyncError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int32(s))
	}
}

// AsyncOperation is an in-flight native operation as seen by Await: its
// status, its failure code, its result pointer, and a way to close it.
type AsyncOperation interface {
	Status() (AsyncStatus, error)
	ErrorCode() (HRESULT, error)
	Results() (uintptr, error)
	Close() error
}

// DefaultPollInterval is the status polling period Await uses when the caller
// passes a non-positive interval.
const DefaultPollInterval = 10 * time.Millisecond

// Await drives a freshly started native operation to completion by polling
// its status, sleeping interval between polls. On Completed it returns the
// operation's result pointer; on Canceled or Error it returns an
// AsyncOperationError carrying the native failure code. There is no timeout
// and no cancellation: a native operation that never leaves Started blocks
// forever.
//
// Await consumes the operation. It is closed before Await returns and must
// not be used afterwards, whatever the outcome.
func Await(op AsyncOperation, interval time.Duration) (uintptr, error) {
	defer op.Close()

	if interval <= 0 {
		interval = DefaultPollInterval
	}

	status, err := op.Status()
	if err != nil {
		return 0, fmt.Errorf("querying async status: %w", err)
	}
	for status == AsyncStarted {
		time.Sleep(interval)
		status, err = op.Status()
		if err != nil {
			return 0, fmt.Errorf("querying async status: %w", err)
		}
	}

	if status != AsyncCompleted {
		code, err := op.ErrorCode()
		if err != nil {
			return 0, fmt.Errorf("querying async error code: %w", err)
		}
		return 0, &AsyncOperationError{OpStatus: status, Code: code}
	}

	result, err := op.Results()
	if err != nil {
		return 0, fmt.Errorf("fetching async results: %w", err)
	}
	return result, nil
}
