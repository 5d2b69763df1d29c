package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex           sync.RWMutex
	requests        int64
	outcomes        map[string]int64
	durations       map[string][]time.Duration
	statusCodes     map[int]int64
	upstreamHealthy bool
	upstreamProbed  bool
	startTime       time.Time
}

type Snapshot struct {
	TotalRequests   int64                     `json:"total_requests"`
	Uptime          time.Duration             `json:"uptime"`
	Outcomes        map[string]OutcomeMetrics `json:"outcomes"`
	StatusCodes     map[int]int64             `json:"status_codes"`
	UpstreamHealthy bool                      `json:"upstream_healthy"`
	UpstreamProbed  bool                      `json:"upstream_probed"`
}

type OutcomeMetrics struct {
	Count       int64         `json:"count"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
}

func (m *Metrics) IncrementRequests() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.requests++
}

func (m *Metrics) RecordResponse(outcome string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.outcomes[outcome]++
	m.statusCodes[statusCode]++

	m.durations[outcome] = append(m.durations[outcome], duration)
	if len(m.durations[outcome]) > maxSamples {
		m.durations[outcome] = m.durations[outcome][1:]
	}
}

func (m *Metrics) UpdateUpstreamHealth(healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.upstreamHealthy = healthy
	m.upstreamProbed = true
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		TotalRequests:   m.requests,
		Uptime:          time.Since(m.startTime),
		Outcomes:        make(map[string]OutcomeMetrics, len(m.outcomes)),
		StatusCodes:     make(map[int]int64, len(m.statusCodes)),
		UpstreamHealthy: m.upstreamHealthy,
		UpstreamProbed:  m.upstreamProbed,
	}

	for code, n := range m.statusCodes {
		snap.StatusCodes[code] = n
	}

	for outcome, count := range m.outcomes {
		om := OutcomeMetrics{Count: count}

		durations := m.durations[outcome]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			om.AvgResponse = average(sorted)
			om.P50Response = percentile(sorted, 0.50)
			om.P95Response = percentile(sorted, 0.95)
			om.P99Response = percentile(sorted, 0.99)
		}

		snap.Outcomes[outcome] = om
	}

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		outcomes:    make(map[string]int64),
		durations:   make(map[string][]time.Duration),
		statusCodes: make(map[int]int64),
		startTime:   time.Now(),
	}
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
