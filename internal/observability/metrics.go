package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects and aggregates per-action dispatch metrics.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	actionMetrics map[string]*ActionMetrics
}

// ActionMetrics represents metrics for a specific action.
type ActionMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{actionMetrics: make(map[string]*ActionMetrics)}
}

// Global metrics instance.
var globalMetrics = NewMetrics()

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordDispatch records a dispatched action.
func (m *Metrics) RecordDispatch(action string) {
	m.requestTotal.Add(1)
	m.getActionMetrics(action).executionCount.Add(1)
}

// RecordFailure records a failed dispatch.
func (m *Metrics) RecordFailure(action string) {
	m.requestFailed.Add(1)
	m.getActionMetrics(action).errorCount.Add(1)
}

// RecordDuration records a dispatch duration.
func (m *Metrics) RecordDuration(action string, duration time.Duration) {
	m.getActionMetrics(action).totalDuration.Add(duration.Milliseconds())
}

// GetDispatchTotal returns the total number of dispatched actions.
func (m *Metrics) GetDispatchTotal() int64 {
	return m.requestTotal.Load()
}

// GetDispatchFailed returns the total number of failed dispatches.
func (m *Metrics) GetDispatchFailed() int64 {
	return m.requestFailed.Load()
}

func (m *Metrics) getActionMetrics(action string) *ActionMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	am, ok := m.actionMetrics[action]
	if !ok {
		am = &ActionMetrics{}
		m.actionMetrics[action] = am
	}
	return am
}

// GetAverageDuration returns the average duration in milliseconds for an action.
func (m *Metrics) GetAverageDuration(action string) int64 {
	am := m.getActionMetrics(action)
	count := am.executionCount.Load()
	if count == 0 {
		return 0
	}
	return am.totalDuration.Load() / count
}

// Reset resets all metrics (useful for testing).
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.actionMetrics = make(map[string]*ActionMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time snapshot of current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	actionSnapshots := make(map[string]*ActionMetricsSnapshot, len(m.actionMetrics))
	for action, am := range m.actionMetrics {
		count := am.executionCount.Load()
		avg := int64(0)
		if count > 0 {
			avg = am.totalDuration.Load() / count
		}
		actionSnapshots[action] = &ActionMetricsSnapshot{
			ExecutionCount:  count,
			TotalDuration:   am.totalDuration.Load(),
			ErrorCount:      am.errorCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		DispatchTotal:  m.requestTotal.Load(),
		DispatchFailed: m.requestFailed.Load(),
		ActionMetrics:  actionSnapshots,
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	DispatchTotal  int64
	DispatchFailed int64
	ActionMetrics  map[string]*ActionMetricsSnapshot
}

// ActionMetricsSnapshot represents metrics for a specific action.
type ActionMetricsSnapshot struct {
	ExecutionCount  int64
	TotalDuration   int64
	ErrorCount      int64
	AverageDuration int64
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.DispatchTotal == 0 {
		return 100.0
	}
	return float64(s.DispatchTotal-s.DispatchFailed) / float64(s.DispatchTotal) * 100.0
}
