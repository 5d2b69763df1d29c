package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/angeloszaimis/proxy-health-gateway/internal/metrics"
)

// Monitor periodically probes the upstream health-check API and remembers
// whether it was reachable on the last probe. It never answers inbound
// checks on the upstream's behalf.
type Monitor struct {
	url       string
	client    *http.Client
	interval  time.Duration
	logger    *slog.Logger
	collector *metrics.Collector

	healthy atomic.Bool
	probed  atomic.Bool
}

func NewMonitor(upstreamURL string, interval, timeout time.Duration, logger *slog.Logger, collector *metrics.Collector) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &Monitor{
		url:       upstreamURL,
		client:    &http.Client{Timeout: timeout},
		interval:  interval,
		logger:    logger,
		collector: collector,
	}
}

// Healthy reports the result of the last probe. It is false until the first
// probe completes.
func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

// Probed reports whether at least one probe has completed.
func (m *Monitor) Probed() bool {
	return m.probed.Load()
}

// Run probes immediately and then on every interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.probe(ctx)

	for {
		select {
		case <-ctx.Done():
			m.logger.Info("Upstream monitor stopped",
				slog.String("upstream", m.url))
			return

		case <-ticker.C:
			m.probe(ctx)
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.url, nil)
	if err != nil {
		m.record(false, slog.String("error", err.Error()))
		return
	}

	res, err := m.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.record(false, slog.String("error", err.Error()))
		return
	}
	res.Body.Close()

	// a 4xx for a probe without ?ip= still proves the API is up
	m.record(res.StatusCode < http.StatusInternalServerError, slog.Int("status", res.StatusCode))
}

func (m *Monitor) record(healthy bool, detail slog.Attr) {
	first := !m.probed.Swap(true)
	changed := m.healthy.Swap(healthy) != healthy

	if !first && !changed {
		return
	}

	if healthy {
		m.logger.Info("Upstream is reachable",
			slog.String("upstream", m.url), detail)
	} else {
		m.logger.Warn("Upstream is unreachable",
			slog.String("upstream", m.url), detail)
	}

	m.collector.Emit(metrics.MetricEvent{
		Type:      metrics.EventUpstreamHealthChanged,
		Timestamp: time.Now(),
		Healthy:   healthy,
	})
}
