package value

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes boundary value errors.
type ErrorCode string

const (
	// ErrCodeUnsupportedType indicates a native type with no tag.
	ErrCodeUnsupportedType ErrorCode = "UNSUPPORTED_TYPE"

	// ErrCodeUnsupportedDataType indicates a tag that cannot be used where given.
	ErrCodeUnsupportedDataType ErrorCode = "UNSUPPORTED_DATA_TYPE"

	// ErrCodeInvalidTensorRank indicates a tensor shape without exactly four dimensions.
	ErrCodeInvalidTensorRank ErrorCode = "INVALID_TENSOR_RANK"

	// ErrCodeSizeMismatch indicates a buffer length that disagrees with its shape.
	ErrCodeSizeMismatch ErrorCode = "SIZE_MISMATCH"

	// ErrCodeTypeMismatch indicates an accessor that does not match the active shape.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"

	// ErrCodeKeyNotFoundOrUnsupported indicates a store key that is absent or
	// holds a shape the store cannot expose.
	ErrCodeKeyNotFoundOrUnsupported ErrorCode = "KEY_NOT_FOUND_OR_UNSUPPORTED"

	// ErrCodeUnsupportedStoreValueType indicates a shape the store cannot hold.
	ErrCodeUnsupportedStoreValueType ErrorCode = "UNSUPPORTED_STORE_VALUE_TYPE"

	// ErrCodeInvalidValue indicates a decoded tree that does not fit its tag.
	ErrCodeInvalidValue ErrorCode = "INVALID_VALUE"
)

// Error is a boundary value failure.
type Error struct {
	Code    ErrorCode
	Message string

	// Tag is the shape involved, when known.
	Tag Tag

	// Key is the store key or map key involved, when known.
	Key string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Code
	}
	return ""
}

// IsTypeMismatch reports whether err is a wrong-accessor error.
func IsTypeMismatch(err error) bool {
	return CodeOf(err) == ErrCodeTypeMismatch
}

// IsUnsupported reports whether err rejects a type or shape.
func IsUnsupported(err error) bool {
	switch CodeOf(err) {
	case ErrCodeUnsupportedType, ErrCodeUnsupportedDataType, ErrCodeUnsupportedStoreValueType:
		return true
	}
	return false
}

func mismatch(want, got Tag) *Error {
	return &Error{
		Code:    ErrCodeTypeMismatch,
		Message: fmt.Sprintf("value holds %s, not %s", got, want),
		Tag:     got,
	}
}
