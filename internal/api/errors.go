package api

import (
	"errors"
	"net/http"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/pkg/httputil"
	"github.com/ignite/trello-agent/internal/pkg/logger"
	"github.com/ignite/trello-agent/internal/trello"
)

// errorStatus maps a service error onto the status and public message sent to
// the caller. Upstream errors keep Trello's status and body; failures with no
// upstream answer and unexpected errors get a generic message.
func errorStatus(err error) (int, string) {
	var apiErr *trello.APIError
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrConfigMissing):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &apiErr):
		if apiErr.StatusCode < 400 {
			return http.StatusBadGateway, err.Error()
		}
		return apiErr.StatusCode, err.Error()
	case errors.Is(err, trello.ErrTransport):
		return http.StatusBadGateway, trello.ErrTransport.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// respondServiceError writes err in the {ok:false,error} envelope. 5xx
// details are logged server-side.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	httputil.Error(w, status, msg)
}

func respondConfigMissing(w http.ResponseWriter) {
	httputil.Error(w, http.StatusBadRequest, "configuration missing: set TRELLO_KEY and TRELLO_TOKEN")
}
