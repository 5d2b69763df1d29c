package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/proxy-health-gateway/internal/gateway"
	"github.com/angeloszaimis/proxy-health-gateway/internal/metrics"
)

type CheckHandler struct {
	logger           *slog.Logger
	gateway          *gateway.Gateway
	metricsCollector *metrics.Collector
}

func (h *CheckHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := extractClientIP(r)
	start := time.Now()

	log := h.logger.With(slog.String("client", clientIP))
	log.Info("Received request",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("proto", r.Proto),
		slog.String("user_agent", r.UserAgent()))

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: start,
	})

	resp := h.gateway.Handle(r.Context(), r.Method, r.URL.Query())

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		if _, err := w.Write(resp.Body); err != nil {
			log.Warn("Failed to write response", slog.String("error", err.Error()))
		}
	}

	duration := time.Since(start)
	log.Info("Sent response",
		slog.Int("status", resp.StatusCode),
		slog.String("outcome", string(resp.Outcome)),
		slog.Duration("duration", duration))

	h.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventResponseSent,
		Timestamp:  time.Now(),
		Outcome:    string(resp.Outcome),
		Duration:   duration,
		StatusCode: resp.StatusCode,
	})
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewCheckHandler serves the check endpoint over net/http. collector may be
// nil when metrics are disabled.
func NewCheckHandler(logger *slog.Logger, gw *gateway.Gateway, collector *metrics.Collector) *CheckHandler {
	return &CheckHandler{
		logger:           logger,
		gateway:          gw,
		metricsCollector: collector,
	}
}
