package tokenx

import "fmt"

// ErrorCode represents token construction error categories.
type ErrorCode string

const (
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeSerialization   ErrorCode = "serialization_failure"
	ErrCodeSigning         ErrorCode = "signing_failure"
)

var errorMessages = map[ErrorCode]string{
	ErrCodeInvalidArgument: "Invalid argument",
	ErrCodeSerialization:   "Serialization failure",
	ErrCodeSigning:         "Signing failure",
}

// Error wraps builder errors with a stable code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	base := e.Message
	if base == "" {
		base = string(e.Code)
	}
	if e.Err == nil {
		return base
	}
	return fmt.Sprintf("%s: %v", base, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, err error) error {
	msg, ok := errorMessages[code]
	if !ok {
		msg = string(code)
	}
	return &Error{Code: code, Message: msg, Err: err}
}
