package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"
)

// HealthCheck returns nil when the dependency is usable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	startTime time.Time
	checks    map[string]HealthCheck
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		checks:    checks,
	}
}

type healthResponse struct {
	Status    string            `json:"status"`
	Time      string            `json:"time"`
	Checks    map[string]string `json:"checks"`
	Uptime    string            `json:"uptime"`
	GoVersion string            `json:"go_version"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := healthResponse{
		Status:    "ok",
		Time:      time.Now().Format(time.RFC3339),
		Checks:    make(map[string]string, len(h.checks)),
		Uptime:    fmt.Sprintf("%v", time.Since(h.startTime).Round(time.Second)),
		GoVersion: runtime.Version(),
	}

	for name, check := range h.checks {
		checkCtx, checkCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		err := check(checkCtx)
		checkCancel()

		if err != nil {
			health.Status = "degraded"
			health.Checks[name] = "error"
			continue
		}
		health.Checks[name] = "ok"
	}

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(health)
}
