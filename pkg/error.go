package pkg

import "errors"

// Mailbox protocol and memory-lifecycle errors.
var (
	// ErrClosed indicates the mailbox has been closed.
	ErrClosed = errors.New("mailbox closed")

	// ErrEnableQPU indicates the firmware rejected a QPU enable request.
	ErrEnableQPU = errors.New("QPU enable rejected")

	// ErrAllocFailed indicates the firmware rejected a memory allocation.
	ErrAllocFailed = errors.New("memory allocation failed")

	// ErrLockFailed indicates the firmware could not lock a memory handle.
	ErrLockFailed = errors.New("memory lock failed")

	// ErrUnlockFailed indicates the firmware could not unlock a memory handle.
	ErrUnlockFailed = errors.New("memory unlock failed")

	// ErrFreeFailed indicates the firmware could not release a memory handle.
	ErrFreeFailed = errors.New("memory release failed")

	// ErrExecFailed indicates a code or QPU execution request failed.
	ErrExecFailed = errors.New("execution failed")

	// ErrQueryFailed indicates a firmware property query failed.
	ErrQueryFailed = errors.New("property query failed")

	// ErrTimeoutRange indicates a timeout does not fit the firmware's
	// 32-bit millisecond field.
	ErrTimeoutRange = errors.New("timeout exceeds 32-bit range")

	// ErrRequestShape indicates a request payload does not match the
	// tag's declared word count.
	ErrRequestShape = errors.New("request payload shape mismatch")

	// ErrMapFailed indicates a host mapping of device memory failed.
	ErrMapFailed = errors.New("host mapping failed")

	// ErrInvalidParameter indicates an invalid parameter was provided.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrNotSupported indicates an unsupported operation or platform.
	ErrNotSupported = errors.New("not supported")
)

// CallStatus represents the completion status word of a mailbox call.
type CallStatus uint32

// Mailbox response status words.
const (
	CallStatusRequest CallStatus = 0x00000000 // Request in flight (not yet processed)
	CallStatusSuccess CallStatus = 0x80000000 // Request processed successfully
	CallStatusError   CallStatus = 0x80000001 // Request could not be parsed or failed
)

// String returns a string representation of the call status.
func (s CallStatus) String() string {
	switch s {
	case CallStatusRequest:
		return "request"
	case CallStatusSuccess:
		return "success"
	case CallStatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Complete reports whether the status word indicates the firmware has
// processed the request (high bit set), regardless of outcome.
func (s CallStatus) Complete() bool {
	return s>>31 != 0
}

// Error returns the corresponding error for the call status.
func (s CallStatus) Error() error {
	switch s {
	case CallStatusSuccess:
		return nil
	case CallStatusError:
		return ErrQueryFailed
	default:
		return ErrQueryFailed
	}
}
