package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu            sync.Mutex
	requestCount  map[string]int64
	errorCount    map[string]int64
	totalDuration map[string]time.Duration
}

// RouteStats summarizes one method|route|status bucket.
type RouteStats struct {
	Count         int64   `json:"count"`
	AvgDurationMs float64 `json:"avg_duration_ms"`
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Requests map[string]RouteStats `json:"requests"`
	Errors   map[string]int64      `json:"errors"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount:  make(map[string]int64),
		errorCount:    make(map[string]int64),
		totalDuration: make(map[string]time.Duration),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, strconv.Itoa(status))
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
	m.totalDuration[key] += duration
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := pathKey(path, method, code)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{
		Requests: map[string]RouteStats{},
		Errors:   map[string]int64{},
	}
	if m == nil {
		return snap
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, count := range m.requestCount {
		stats := RouteStats{Count: count}
		if count > 0 {
			stats.AvgDurationMs = float64(m.totalDuration[key].Microseconds()) / 1000 / float64(count)
		}
		snap.Requests[key] = stats
	}
	for key, count := range m.errorCount {
		snap.Errors[key] = count
	}
	return snap
}

func pathKey(path, method, suffix string) string {
	return method + "|" + path + "|" + suffix
}
