package registry

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes registry errors.
type ErrorCode string

const (
	ErrCodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	ErrCodeNotInitialized     ErrorCode = "NOT_INITIALIZED"
	ErrCodeInitFailed         ErrorCode = "INIT_FAILED"
	ErrCodeShutdownFailed     ErrorCode = "SHUTDOWN_FAILED"
	ErrCodeAlgorithmNotFound  ErrorCode = "ALGORITHM_NOT_FOUND"
	ErrCodeBindingsOpen       ErrorCode = "BINDINGS_OPEN"
	ErrCodeClosed             ErrorCode = "CLOSED"
)

// Error is a registry failure.
type Error struct {
	Code      ErrorCode
	Message   string
	Algorithm string
	Err       error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Algorithm != "" {
		msg += fmt.Sprintf(" (algorithm=%s)", e.Algorithm)
	}
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
	var re *Error
	if errors.As(err, &re) {
		return re.Code
	}
	return ""
}

// IsAlgorithmNotFound reports whether err names an algorithm the backend does
// not provide.
func IsAlgorithmNotFound(err error) bool {
	return CodeOf(err) == ErrCodeAlgorithmNotFound
}

// IsClosed reports whether err came from a closed registry.
func IsClosed(err error) bool {
	return CodeOf(err) == ErrCodeClosed
}
