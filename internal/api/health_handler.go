package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/pkg/httputil"
)

const appName = "Trello Agent"

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status    string                    `json:"status"` // "ok" or "degraded"
	TrelloEnv bool                      `json:"trello_env"`
	Uptime    string                    `json:"uptime"`
	Checks    map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck represents the health of a single component.
type ComponentCheck struct {
	Status  string `json:"status"` // "up", "down", "configured", "not_configured"
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}

// Root identifies the service.
//
//	GET /
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	httputil.OK(w, map[string]any{
		"status":     "online",
		"app":        appName,
		"trello_env": h.trelloConfigured(),
	})
}

// HealthCheck reports credential presence and activity log reachability.
// It never calls Trello and always answers 200.
//
//	GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]ComponentCheck{
		"trello":   h.checkTrello(),
		"activity": h.checkActivity(r.Context()),
	}

	status := "ok"
	if checks["activity"].Status == "down" {
		status = "degraded"
	}

	httputil.OK(w, HealthStatus{
		Status:    status,
		TrelloEnv: h.trelloConfigured(),
		Uptime:    formatUptime(time.Since(h.startTime)),
		Checks:    checks,
	})
}

func (h *Handlers) checkTrello() ComponentCheck {
	if !h.trelloConfigured() {
		return ComponentCheck{Status: "not_configured", Message: "TRELLO_KEY and TRELLO_TOKEN are not set"}
	}
	return ComponentCheck{Status: "configured"}
}

func (h *Handlers) checkActivity(ctx context.Context) ComponentCheck {
	if h.activityBackend == "" || h.activityBackend == config.ActivityBackendNone {
		return ComponentCheck{Status: "not_configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.activity.Ping(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentCheck{Status: "down", Latency: latency.String(), Message: h.activityBackend + " unreachable"}
	}
	return ComponentCheck{Status: "up", Latency: latency.String(), Message: h.activityBackend}
}

func formatUptime(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
