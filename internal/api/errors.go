package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized marks requests that failed because the session credential
// was missing, expired, or rejected by the server.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError reports a non-success HTTP status returned by the API.
type StatusError struct {
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api %s returned status %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// ServerSide reports whether the status indicates a failure on the server.
func (e *StatusError) ServerSide() bool {
	return e.Code >= http.StatusInternalServerError
}

// StatusCode extracts the HTTP status from err, or 0 when err carries none.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}
