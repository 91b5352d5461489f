package rest

import (
	"context"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// pinger is a dependency the service cannot work without.
type pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to a health check component.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type component struct {
	name string
	p    pinger
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	components []component
	version    string
}

// NewHealthHandler creates a HealthHandler that checks the database.
// More components are added with WithComponent.
func NewHealthHandler(db pinger, version string) *HealthHandler {
	return &HealthHandler{
		components: []component{{name: "database", p: db}},
		version:    version,
	}
}

// WithComponent registers an additional dependency checked by /ready and /health.
func (h *HealthHandler) WithComponent(name string, p pinger) *HealthHandler {
	h.components = append(h.components, component{name: name, p: p})
	return h
}

// HealthResponse is the JSON response for /health and /ready.
type HealthResponse struct {
	Status     string                `json:"status"`
	Version    string                `json:"version,omitempty"`
	Components map[string]CompStatus `json:"components,omitempty"`
	Timestamp  time.Time             `json:"timestamp"`
}

// CompStatus is the status of an individual component.
type CompStatus struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 when every component answers, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	_, ok := h.check(r.Context())
	status, code := "ok", http.StatusOK
	if !ok {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health is the full health check with per-component latency and the version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components, ok := h.check(r.Context())
	status, code := "ok", http.StatusOK
	if !ok {
		status, code = "down", http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:     status,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func (h *HealthHandler) check(ctx context.Context) (map[string]CompStatus, bool) {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	out := make(map[string]CompStatus, len(h.components))
	healthy := true
	for _, c := range h.components {
		start := time.Now()
		if err := c.p.Ping(ctx); err != nil {
			out[c.name] = CompStatus{Status: "down"}
			healthy = false
			continue
		}
		out[c.name] = CompStatus{Status: "ok", Latency: time.Since(start).String()}
	}
	return out, healthy
}
