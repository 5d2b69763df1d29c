package handler

import (
	"encoding/json"
	"net/http"
)

// UpstreamProbe reports the last known reachability of the upstream API.
type UpstreamProbe interface {
	Healthy() bool
}

type statusBody struct {
	Status string `json:"status"`
}

// Liveness answers as long as the process serves HTTP.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	}
}

// Readiness reports ready unless a probe is configured and the upstream was
// unreachable on its last check.
func Readiness(probe UpstreamProbe) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if probe != nil && !probe.Healthy() {
			writeStatus(w, http.StatusServiceUnavailable, "upstream unreachable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	}
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(statusBody{Status: status})
}
