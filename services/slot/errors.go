package slot

import "fmt"

// Error kinds surfaced by the slot service, matched by handlers when mapping
// to HTTP statuses and by the agent when wording chat replies.
const (
	CodeNotFound    = "not_found"
	CodeConflict    = "conflict"
	CodeExpiredHold = "expired_hold"
	CodeForbidden   = "unauthorized"
	CodeValidation  = "validation"
	CodeUnavailable = "dependency_unavailable"
)

// Error carries a stable kind alongside a human message.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the error kind, defaulting to dependency_unavailable for
// anything that didn't come out of the state machine itself.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := err.(*Error); ok {
		return se.Code
	}
	return CodeUnavailable
}
