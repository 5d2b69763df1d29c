package main

import (
	"net/http"

	"github.com/angeloszaimis/proxy-health-gateway/internal/handler"
	"github.com/angeloszaimis/proxy-health-gateway/internal/metrics"
)

const checkPath = "/api/check"

// setupRouter mounts the check endpoint and the operational routes. The
// metrics route only exists when a collector is running.
func setupRouter(checkHandler *handler.CheckHandler, probe handler.UpstreamProbe, collector *metrics.Collector) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle(checkPath, checkHandler)
	mux.HandleFunc("/healthz", handler.Liveness())
	mux.HandleFunc("/readyz", handler.Readiness(probe))

	if collector != nil {
		mux.HandleFunc("/metrics", collector.Handler())
	}

	return mux
}
