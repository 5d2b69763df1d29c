// Package healthcheck monitors the reachability of the upstream health-check
// API in the background. Its state feeds the /readyz endpoint and metrics;
// per-target check results are never cached here.
package healthcheck
