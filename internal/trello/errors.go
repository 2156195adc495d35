package trello

import (
	"errors"
	"fmt"
)

const maxErrorBody = 512

// ErrTransport marks failures where Trello never answered, such as
// connection errors or timeouts.
var ErrTransport = errors.New("trello request failed")

// APIError is returned when Trello answers with a non-2xx status. The HTTP
// layer mirrors StatusCode back to the caller.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("trello API error (status %d) on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Body)
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	s := string(body)
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return &APIError{Method: method, Path: path, StatusCode: status, Body: s}
}
