// Package metrics provides in-process metrics for the health-check gateway.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Inbound request counts
//   - Relay outcomes (success, upstream_status, upstream_timeout, ...) with
//     response time percentiles (P50, P95, P99)
//   - HTTP status code distribution of relayed responses
//   - Upstream reachability as reported by the background monitor
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the request path. Emit drops events when the buffer is full.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.Emit(metrics.MetricEvent{
//		Type:       metrics.EventResponseSent,
//		Outcome:    "success",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//	})
//
//	snapshot := collector.Snapshot()
//
// Events still buffered when the context is cancelled are drained before the
// collector stops.
package metrics
