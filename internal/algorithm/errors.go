package algorithm

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes binding errors.
type ErrorCode string

const (
	// ErrCodeKeyNotFound indicates an output that was never set up.
	ErrCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"

	// ErrCodeUnsupportedDataType indicates a tag that cannot back a slot.
	ErrCodeUnsupportedDataType ErrorCode = "UNSUPPORTED_DATA_TYPE"

	// ErrCodeInputNotFound indicates an input the algorithm does not declare,
	// or a declared input with no value at compute time.
	ErrCodeInputNotFound ErrorCode = "INPUT_NOT_FOUND"

	// ErrCodeOutputNotFound indicates an output the algorithm does not declare,
	// or a declared output not set up at compute time.
	ErrCodeOutputNotFound ErrorCode = "OUTPUT_NOT_FOUND"

	// ErrCodeParameterNotFound indicates a parameter the algorithm does not declare.
	ErrCodeParameterNotFound ErrorCode = "PARAMETER_NOT_FOUND"

	// ErrCodeTypeMismatch indicates a value whose shape differs from the
	// declared one.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeNotConfigured indicates Compute before any Configure.
	ErrCodeNotConfigured ErrorCode = "NOT_CONFIGURED"

	// ErrCodeConfigureFailed indicates the native algorithm rejected its parameters.
	ErrCodeConfigureFailed ErrorCode = "CONFIGURE_FAILED"

	// ErrCodeComputeFailed indicates the native compute step failed.
	ErrCodeComputeFailed ErrorCode = "COMPUTE_FAILED"

	// ErrCodeClosed indicates use of a closed binding.
	ErrCodeClosed ErrorCode = "CLOSED"
)

// Error is a binding failure.
type Error struct {
	Code      ErrorCode
	Message   string
	Algorithm string

	// Name is the input, output or parameter involved, when there is one.
	Name string

	// Err is the underlying native or value error, when there is one.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s (algorithm=%s", e.Code, e.Message, e.Algorithm)
	if e.Name != "" {
		msg += ", name=" + e.Name
	}
	msg += ")"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var be *Error
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// IsKeyNotFound reports whether err is a missing output error.
func IsKeyNotFound(err error) bool {
	return CodeOf(err) == ErrCodeKeyNotFound
}

// IsTypeMismatch reports whether err is a shape mismatch.
func IsTypeMismatch(err error) bool {
	return CodeOf(err) == ErrCodeTypeMismatch
}

func (b *Binding) fail(code ErrorCode, name string, err error, format string, args ...any) *Error {
	return &Error{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Algorithm: b.algo.Name(),
		Name:      name,
		Err:       err,
	}
}
