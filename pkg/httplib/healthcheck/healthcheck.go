package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Check reports the health of one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

// HealthCheck is the health check handler.
type HealthCheck struct {
	checks  map[string]Check
	timeout time.Duration
}

// New creates a HealthCheck running the given named checks on every request.
func New(checks map[string]Check) HealthCheck {
	return HealthCheck{checks: checks, timeout: 2 * time.Second}
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP serve http request for health check.
// Responds 200 when every check passes and 503 otherwise, with per-check status in the body.
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	timeout := hc.timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(hc.checks))
	for name, check := range hc.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": http.StatusText(status),
		"checks": results,
	})
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
