package tool

import (
	"sync"
	"time"
)

// Metrics tracks execution statistics for a single tool.
type Metrics struct {
	mu            sync.Mutex
	executions    int64
	failures      int64
	totalDuration time.Duration
	lastExecution time.Time
}

// NewMetrics creates a zeroed Metrics record.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordSuccess records a successful execution with its duration.
func (m *Metrics) RecordSuccess(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executions++
	m.totalDuration += d
	m.lastExecution = time.Now()
}

// RecordFailure records a failed execution with its duration.
func (m *Metrics) RecordFailure(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.executions++
	m.failures++
	m.totalDuration += d
	m.lastExecution = time.Now()
}

// Snapshot returns a copy of the current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		Executions:    m.executions,
		Failures:      m.failures,
		TotalDuration: m.totalDuration,
		LastExecution: m.lastExecution,
	}
	if m.executions > 0 {
		snap.AverageDuration = m.totalDuration / time.Duration(m.executions)
	}
	return snap
}

// MetricsSnapshot is a point-in-time view of a tool's metrics.
type MetricsSnapshot struct {
	Executions      int64         `json:"executions"`
	Failures        int64         `json:"failures"`
	TotalDuration   time.Duration `json:"total_duration"`
	AverageDuration time.Duration `json:"average_duration"`
	LastExecution   time.Time     `json:"last_execution"`
}
