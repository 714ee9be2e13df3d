package metrics

import "sync/atomic"

// MetricID identifies a specific counter in the in-process metrics system.
type MetricID uint8

const (
	MetricSubmit MetricID = iota
	MetricSubmitRejected
	MetricLoginSuccess
	MetricLoginFailure
	MetricInvalidCredentials
	MetricServerRejected
	MetricNoResponse
	MetricRequestFailed
	MetricMissingSubjectID
	MetricMissingToken
	MetricUnauthorized
	MetricRoleAmbiguous
	MetricSessionSaveFailed
	MetricRoutedGuest
	MetricRoutedEmployee
	MetricRoutedStudent
	MetricLogout

	MetricIDCount
)

// Config controls metrics collection.
type Config struct {
	Enabled bool
}

// Metrics holds atomic counters. When disabled, all operations are no-ops.
type Metrics struct {
	enabled  bool
	counters [MetricIDCount]atomic.Uint64
}

// New creates a Metrics instance per cfg.
func New(cfg Config) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

// Inc increments a counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= MetricIDCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot is a point-in-time deep copy of all counters.
type Snapshot struct {
	Counters map[MetricID]uint64
}

// Snapshot copies every counter value.
func (m *Metrics) Snapshot() Snapshot {
	snap := Snapshot{Counters: make(map[MetricID]uint64, int(MetricIDCount))}
	if m == nil || !m.enabled {
		return snap
	}
	for id := MetricID(0); id < MetricIDCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
