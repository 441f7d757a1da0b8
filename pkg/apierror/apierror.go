// Package apierror defines the coded errors raised by the SDK core.
package apierror

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes.
const (
	CodeUnsupportedParameter = "UNSUPPORTED_PARAMETER"
	CodeMethodNotFound       = "METHOD_NOT_FOUND"
	CodeValidation           = "VALIDATION_FAILED"
	CodeRemote               = "REMOTE_ERROR"
	CodeTransferFailed       = "TRANSFER_FAILED"
	CodeTransportNotFound    = "TRANSPORT_NOT_FOUND"
)

// Validation kinds, carried in Error.Details for CodeValidation.
const (
	KindRequired         = "REQUIRED"
	KindInvalidNumber    = "INVALID_NUMBER"
	KindInvalidTelephone = "INVALID_TELEPHONE"
)

// Messages shared by the validation rules and the transports.
const (
	MsgFieldRequired    = "Field is required."
	MsgInvalidNumber    = "Integer is invalid. Please ensure you passed a real number."
	MsgInvalidTelephone = "Telephone number is invalid. Please ensure you passed a real number."
	MsgLeadingZero      = "Replace leading 0's with the area code instead. Leading 0's might result in routing errors."
	MsgMethodNotFound   = "This method does not exist as part of this API."
	MsgTransferFailed   = "Handler Encountered a Problem"
)

// Sentinels for errors.Is. Only the Code is compared.
var (
	ErrUnsupportedParameter = &Error{Code: CodeUnsupportedParameter}
	ErrMethodNotFound       = &Error{Code: CodeMethodNotFound}
	ErrValidation           = &Error{Code: CodeValidation}
	ErrRemote               = &Error{Code: CodeRemote}
	ErrTransferFailed       = &Error{Code: CodeTransferFailed}
	ErrTransportNotFound    = &Error{Code: CodeTransportNotFound}
)

// Error is a structured error from the SDK.
type Error struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`

	// Field is the request field a validation error refers to.
	Field string `json:"field,omitempty"`
	// Offset is the zero-based position inside a list value, or -1.
	Offset int `json:"offset"`
	// RemoteCode is the vendor error code for CodeRemote.
	RemoteCode int `json:"remoteCode,omitempty"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// New creates a new Error with no offset.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message, Offset: -1}
}

// UnsupportedParameter reports an extra parameter missing from the allow-list.
func UnsupportedParameter(key string, supported []string) *Error {
	e := New(CodeUnsupportedParameter, fmt.Sprintf("%q parameter not supported. (supported: %s)", key, strings.Join(supported, ",")))
	e.Field = key
	e.Details = map[string]interface{}{"supported": supported}
	return e
}

// MethodNotFound reports an operation the active transport does not expose.
func MethodNotFound(op, transport string) *Error {
	e := New(CodeMethodNotFound, MsgMethodNotFound)
	e.Details = map[string]interface{}{"operation": op, "transport": transport}
	return e
}

// Validation creates a validation error of the given kind.
func Validation(kind, message string) *Error {
	e := New(CodeValidation, message)
	e.Details = kind
	return e
}

// Remote reports a failure the vendor API returned as an exception-style payload.
func Remote(description string, code int) *Error {
	e := New(CodeRemote, description)
	e.RemoteCode = code
	return e
}

// TransferFailed wraps an I/O failure of the transfer collaborator.
func TransferFailed(err error) *Error {
	e := New(CodeTransferFailed, MsgTransferFailed)
	e.Err = err
	return e
}

// TransportNotFound reports a transport ref no registered variant satisfies.
func TransportNotFound(ref string) *Error {
	e := New(CodeTransportNotFound, fmt.Sprintf("No transport matches %s", ref))
	e.Details = map[string]interface{}{"ref": ref}
	return e
}

// Kind returns the validation kind of err, or "" when err is not a validation error.
func Kind(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Code != CodeValidation {
		return ""
	}
	k, _ := e.Details.(string)
	return k
}

// HasKind reports whether any validation error in err's chain has the given kind.
func HasKind(err error, kind string) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == CodeValidation {
			if k, _ := e.Details.(string); k == kind {
				return true
			}
		}
		err = e.Err
	}
	return false
}
