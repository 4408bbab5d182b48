package gateway

import (
	"net/http"
	"time"
)

// healthHandler handles liveness probe requests.
// Always returns 200 OK with a timestamp to indicate the process is alive.
func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		writeJSON(r.Context(), w, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}, http.StatusOK)
	}
}

// readinessHandler handles readiness probe requests.
// Returns 200 OK if the application is ready to serve traffic, 503 otherwise.
func readinessHandler(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		if checker != nil && checker.IsReady() {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}
