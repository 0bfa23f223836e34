package client

import (
	"errors"
	"fmt"
)

// Error kinds every backend failure is classified into. Callers branch with
// errors.Is and show APIError.Message as is.
var (
	ErrNetwork      = errors.New("backend unreachable")
	ErrBusiness     = errors.New("backend rejected the request")
	ErrUnauthorized = errors.New("backend session expired")
)

// APIError is the one error type the client returns for backend failures.
type APIError struct {
	Kind    error
	Status  int // 0 when no HTTP response arrived
	Method  string
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *APIError) Unwrap() error { return e.Kind }

// Message returns the text meant for the user: the backend's own message for
// business errors, a generic line otherwise.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Không thể kết nối tới máy chủ, vui lòng thử lại"
}

// StatusCode is the backend HTTP status behind err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
