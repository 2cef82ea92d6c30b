package cardgate

import (
	"errors"
	"fmt"
)

var (
	// ErrCardNotFound is returned when a registry bridge operation targets an
	// id with no entry.
	ErrCardNotFound = errors.New("card not found")
	// ErrBackendUnimplemented is the distinct failure the reference
	// [NoopBackend] unwraps to on read and write. It is loud by contract: the
	// no-op backend must never pretend an operation succeeded.
	ErrBackendUnimplemented = errors.New("backend operation not implemented")
	// ErrBackendRequired is returned by the builder when a nil backend is
	// supplied explicitly.
	ErrBackendRequired = errors.New("backend must not be nil")
	// ErrTokenDisabled is returned by token issuance when the token grant
	// feature is off.
	ErrTokenDisabled = errors.New("token grants disabled")
)

// KernelOp identifies which backend capability failed.
type KernelOp uint8

const (
	// KernelRead covers Read and ReadMutable failures.
	KernelRead KernelOp = iota
	// KernelWrite covers Write failures.
	KernelWrite
)

func (op KernelOp) String() string {
	switch op {
	case KernelRead:
		return "read"
	case KernelWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Backend protocol codes carried by [KernelError]. The code space is owned by
// the backend implementation; these are the codes the bundled backends use.
const (
	// KernelCodeUnimplemented marks the reference backend's deliberate
	// failures.
	KernelCodeUnimplemented uint16 = 0xFFFF
	// KernelCodeAbsent means the physical card is not present on the reader.
	KernelCodeAbsent uint16 = 0x0001
	// KernelCodeBadPayload means the card carried bytes that do not decode.
	KernelCodeBadPayload uint16 = 0x0002
	// KernelCodeTransport means the bridge transport itself failed.
	KernelCodeTransport uint16 = 0x0003
)

// KernelError is the failure type for the hardware [Backend] protocol:
// timeouts, bad checksums, absent devices. It is recoverable at the caller's
// discretion; the core prescribes no retry policy.
type KernelError struct {
	Op      KernelOp
	Message string
	Code    uint16

	cause error
}

// NewReadError constructs a read-side KernelError. Backend implementations
// outside this package use it to report protocol failures.
func NewReadError(message string, code uint16) *KernelError {
	return &KernelError{Op: KernelRead, Message: message, Code: code}
}

// NewWriteError constructs a write-side KernelError.
func NewWriteError(message string, code uint16) *KernelError {
	return &KernelError{Op: KernelWrite, Message: message, Code: code}
}

func kernelErr(op KernelOp, code uint16, cause error, message string) *KernelError {
	return &KernelError{Op: op, Message: message, Code: code, cause: cause}
}

func (e *KernelError) Error() string {
	return fmt.Sprintf("kernel %s error: %s (code %#06x)", e.Op, e.Message, e.Code)
}

// Unwrap exposes the underlying cause, if any, for errors.Is chains such as
// [ErrBackendUnimplemented] or [ErrCardNotFound].
func (e *KernelError) Unwrap() error {
	return e.cause
}
