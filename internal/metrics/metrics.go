// Package metrics provides per-session metrics for one analysis. Every
// counter is owned by the session that created it; there are no
// process-wide mutable counters, so concurrent sessions never interfere.
package metrics

import (
	"sync"
	"time"
)

// SessionMetrics holds the counters of one analysis session.
type SessionMetrics struct {
	// EnginesSucceeded is the number of engines that settled with a result.
	EnginesSucceeded int64
	// EnginesFailed is the number of engines that failed or panicked.
	EnginesFailed int64
	// RawFindings is the total pre-merge finding count across engines.
	RawFindings int64
	// MergedFindings is the post-merge finding count.
	MergedFindings int64
	// APICallCount counts calls against the rate-limited checker API
	// (WAVE). The session owns it; Reset starts a fresh budget.
	APICallCount int64
	// StartTime is when the session began.
	StartTime time.Time
	// mu protects concurrent access.
	mu sync.Mutex
}

// NewSessionMetrics creates metrics for a fresh analysis session.
func NewSessionMetrics() *SessionMetrics {
	return &SessionMetrics{StartTime: time.Now()}
}

// RecordEngine counts one settled engine.
func (m *SessionMetrics) RecordEngine(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.EnginesSucceeded++
	} else {
		m.EnginesFailed++
	}
}

// RecordFindings counts raw and merged findings of the session.
func (m *SessionMetrics) RecordFindings(raw, merged int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RawFindings += int64(raw)
	m.MergedFindings += int64(merged)
}

// RecordAPICall counts one rate-limited API call and returns the running
// total.
func (m *SessionMetrics) RecordAPICall() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.APICallCount++
	return m.APICallCount
}

// GetAPICallCount returns the rate-limited API call total.
func (m *SessionMetrics) GetAPICallCount() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.APICallCount
}

// GetEngineCounts returns the succeeded and failed engine counts.
func (m *SessionMetrics) GetEngineCounts() (succeeded, failed int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.EnginesSucceeded, m.EnginesFailed
}

// GetFindingCounts returns raw and merged finding totals.
func (m *SessionMetrics) GetFindingCounts() (raw, merged int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.RawFindings, m.MergedFindings
}

// GetStartTime returns when the session began.
func (m *SessionMetrics) GetStartTime() time.Time {
	return m.StartTime
}

// Reset clears every counter for reuse of the session.
func (m *SessionMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EnginesSucceeded = 0
	m.EnginesFailed = 0
	m.RawFindings = 0
	m.MergedFindings = 0
	m.APICallCount = 0
	m.StartTime = time.Now()
}
