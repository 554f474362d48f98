package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nhle/monthcal/internal/adapter"
)

var (
	// ErrNoRefreshCredential is returned by Refresh when no refresh
	// credential is stored.
	ErrNoRefreshCredential = errors.New("no refresh credential")

	// ErrRefreshRejected is returned by Refresh when the backend refuses
	// the refresh credential. It wraps the *HTTPError.
	ErrRefreshRejected = errors.New("refresh rejected")

	// ErrUnauthorized is returned for a 401 that will not be retried.
	// It wraps the *HTTPError.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidResponseShape is returned when a token or entity payload
	// cannot be normalized.
	ErrInvalidResponseShape = adapter.ErrInvalidResponseShape
)

// HTTPError is a non-2xx response converted into a structured failure.
type HTTPError struct {
	Status int
	Method string
	Path   string

	// Code is the server-supplied machine-readable code, or HTTP_<status>.
	Code string

	// Message is the server-supplied message, or the status text.
	Message string

	// Details is the server-supplied details payload, if any.
	Details json.RawMessage
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf(
		"api error %s (%d) on %s %s: %s",
		e.Code, e.Status, e.Method, e.Path, e.Message,
	)
}

// AsHTTPError returns the *HTTPError in err's chain, if any.
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	ok := errors.As(err, &httpErr)
	return httpErr, ok
}

// IsSessionEnding reports whether err means the session cannot continue
// and the credentials have been or should be discarded.
func IsSessionEnding(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrRefreshRejected) ||
		errors.Is(err, ErrNoRefreshCredential)
}

// newHTTPError builds the structured failure for a non-2xx response.
// Bodies that are not a JSON object fall back to the status defaults.
func newHTTPError(method, path string, status int, body []byte) *HTTPError {
	httpErr := &HTTPError{
		Status:  status,
		Method:  method,
		Path:    path,
		Code:    fmt.Sprintf("HTTP_%d", status),
		Message: http.StatusText(status),
	}
	if httpErr.Message == "" {
		httpErr.Message = "Request failed"
	}

	var payload map[string]json.RawMessage
	if json.Unmarshal(body, &payload) != nil {
		return httpErr
	}

	if code := jsonString(payload["code"]); code != "" {
		httpErr.Code = code
	} else if code := jsonString(payload["error"]); code != "" {
		httpErr.Code = code
	}
	if msg := jsonString(payload["message"]); msg != "" {
		httpErr.Message = msg
	}
	if details, ok := payload["details"]; ok && !bytes.Equal(details, []byte("null")) {
		httpErr.Details = details
	}
	return httpErr
}

// jsonString returns raw as a string if it is a JSON string.
func jsonString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}
