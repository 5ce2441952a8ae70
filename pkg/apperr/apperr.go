package apperr

import (
	"errors"
	"net/http"
)

// Fault is the uniform wire error: a machine-readable code, a
// human-readable message and the HTTP status it maps to. Every failure
// path serializes through this one shape.
type Fault struct {
	Code    string            `json:"code"`
	Message string            `json:"message,omitempty"`
	Status  int               `json:"status"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func (f *Fault) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Code
}

func New(code, message string, status int) *Fault {
	return &Fault{Code: code, Message: message, Status: status}
}

var (
	ErrEmailInUse    = New("BAD_REQUEST", "email already in use.", http.StatusConflict)
	ErrUsernameInUse = New("BAD_REQUEST", "username already in use.", http.StatusConflict)
	ErrUserNotFound  = New("NOT_FOUND", "user not found.", http.StatusNotFound)
)

// Validation builds the 422 fault for malformed creation payloads.
// Field details ride along under "errors"; code and status stay fixed.
func Validation(details map[string]string) *Fault {
	f := New("BAD_REQUEST", "", http.StatusUnprocessableEntity)
	f.Errors = details
	return f
}

// BadRequest is the generic 400 for unreadable payloads.
func BadRequest(message string) *Fault {
	return New("BAD_REQUEST", message, http.StatusBadRequest)
}

// From normalizes any error into a Fault. Unknown errors collapse to an
// opaque 500 so store internals never reach the client.
func From(err error) *Fault {
	var f *Fault
	if errors.As(err, &f) {
		return f
	}
	return New("INTERNAL_SERVER_ERROR", "internal server error.", http.StatusInternalServerError)
}
