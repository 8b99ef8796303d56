package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/heartmarshall/rucheng-dialect/internal/domain"
)

// dbPinger defines the minimal interface for DB health checks.
type dbPinger interface {
	Ping(ctx context.Context) error
}

type readinessReporter interface {
	State() domain.Readiness
}

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	dict    readinessReporter
	db      dbPinger
	version string
}

// NewHealthHandler creates a HealthHandler. db is nil unless the dictionary
// is served from PostgreSQL.
func NewHealthHandler(dict readinessReporter, db dbPinger, version string) *HealthHandler {
	return &HealthHandler{dict: dict, db: db, version: version}
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
	Detail  string `json:"detail,omitempty"`
}

// Live is the liveness probe. Always returns 200.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready is the readiness probe: 200 once the dictionary is loaded, 503 while
// it is loading or after the load failed.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	st := h.dict.State()
	if st.State != domain.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:     "down",
			Components: map[string]CompStatus{"dictionary": dictionaryStatus(st)},
			Timestamp:  time.Now(),
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Health is the full health check: dictionary state, DB ping with latency
// when a database is configured, and version.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	components := make(map[string]CompStatus)
	overallStatus := "ok"

	st := h.dict.State()
	components["dictionary"] = dictionaryStatus(st)
	if st.State != domain.StateReady {
		overallStatus = "down"
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		start := time.Now()
		err := h.db.Ping(ctx)
		latency := time.Since(start)

		if err != nil {
			components["database"] = CompStatus{Status: "down"}
			overallStatus = "down"
		} else {
			components["database"] = CompStatus{
				Status:  "ok",
				Latency: latency.String(),
			}
		}
	}

	status := http.StatusOK
	if overallStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, HealthResponse{
		Status:     overallStatus,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func dictionaryStatus(st domain.Readiness) CompStatus {
	if st.State == domain.StateReady {
		return CompStatus{Status: "ok"}
	}
	return CompStatus{Status: st.State.String(), Detail: st.Reason}
}
