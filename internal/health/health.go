package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ServiceName  = "weather-assistant"
	checkTimeout = 2 * time.Second
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Service   string            `json:"service"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check probes one dependency.
type Check func(ctx context.Context) error

// RedisCheck pings the weather cache.
func RedisCheck(client *redis.Client) Check {
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}

// HealthChecker runs the registered dependency checks. Liveness only fails
// on a broken dependency; readiness also fails when nothing is registered
// under a required name.
type HealthChecker struct {
	checks   map[string]Check
	required []string
}

// NewHealthChecker creates a checker. Required names must be registered
// with Add for the service to report ready.
func NewHealthChecker(required ...string) *HealthChecker {
	return &HealthChecker{
		checks:   make(map[string]Check),
		required: required,
	}
}

// Add registers a check under name.
func (h *HealthChecker) Add(name string, check Check) {
	h.checks[name] = check
}

func (h *HealthChecker) run(ctx context.Context) (map[string]string, bool) {
	results := make(map[string]string, len(h.checks))
	ok := true
	for name, check := range h.checks {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(checkCtx)
		cancel()

		if err != nil {
			results[name] = "failed: " + err.Error()
			ok = false
		} else {
			results[name] = "ok"
		}
	}
	return results, ok
}

// HealthHandler handles the /health endpoint
func (h *HealthChecker) HealthHandler(w http.ResponseWriter, r *http.Request) {
	checks, ok := h.run(r.Context())

	response := HealthResponse{Status: "ok", Service: ServiceName, Timestamp: time.Now(), Checks: checks}
	statusCode := http.StatusOK
	if !ok {
		response.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

// ReadyHandler handles the /ready endpoint
func (h *HealthChecker) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	checks, ok := h.run(r.Context())
	for _, name := range h.required {
		if _, registered := h.checks[name]; !registered {
			checks[name] = "not configured"
			ok = false
		}
	}

	response := HealthResponse{Status: "ready", Service: ServiceName, Timestamp: time.Now(), Checks: checks}
	statusCode := http.StatusOK
	if !ok {
		response.Status = "not ready"
		statusCode = http.StatusServiceUnavailable
	}
	writeJSON(w, statusCode, response)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
