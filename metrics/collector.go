// Package metrics provides per-session bridge operation counters.
//
// The Collector accumulates counters for one console session. It is a leaf
// package with no internal dependencies. Counters are keyed by operation
// name so the status surface can show which operations hit the real backend
// and which degraded to the substitute.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of session counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Per-operation counters
	RealCalls    map[string]int64
	RealFailures map[string]int64
	Fallbacks    map[string]int64
	MockCalls    map[string]int64
	MockFailures map[string]int64

	// Totals across all operations
	TotalReal     int64
	TotalMock     int64
	TotalFailures int64

	// Dimensions (informational, set at construction)
	SessionID string
	Backend   string
}

// Collector accumulates bridge counters during a single session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe
// so the bridge can run without metrics wired.
type Collector struct {
	mu sync.Mutex

	realCalls    map[string]int64
	realFailures map[string]int64
	fallbacks    map[string]int64
	mockCalls    map[string]int64
	mockFailures map[string]int64

	sessionID string
	backend   string
}

// NewCollector creates a Collector with dimension labels.
// backend names the configured backend ("none" when running mock-only).
func NewCollector(sessionID, backend string) *Collector {
	return &Collector{
		realCalls:    make(map[string]int64),
		realFailures: make(map[string]int64),
		fallbacks:    make(map[string]int64),
		mockCalls:    make(map[string]int64),
		mockFailures: make(map[string]int64),
		sessionID:    sessionID,
		backend:      backend,
	}
}

// IncRealCall records an attempt against the real backend.
func (c *Collector) IncRealCall(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.realCalls[op]++
	c.mu.Unlock()
}

// IncRealFailure records a real backend call that returned an error.
func (c *Collector) IncRealFailure(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.realFailures[op]++
	c.mu.Unlock()
}

// IncFallback records a read operation that degraded to the substitute
// after a real backend failure.
func (c *Collector) IncFallback(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.fallbacks[op]++
	c.mu.Unlock()
}

// IncMockCall records a substitute-path invocation.
func (c *Collector) IncMockCall(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.mockCalls[op]++
	c.mu.Unlock()
}

// IncMockFailure records a substitute path that returned an error.
func (c *Collector) IncMockFailure(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.mockFailures[op]++
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all counters.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		RealCalls:    copyCounts(c.realCalls),
		RealFailures: copyCounts(c.realFailures),
		Fallbacks:    copyCounts(c.fallbacks),
		MockCalls:    copyCounts(c.mockCalls),
		MockFailures: copyCounts(c.mockFailures),
		SessionID:    c.sessionID,
		Backend:      c.backend,
	}
	for _, v := range c.realCalls {
		snap.TotalReal += v
	}
	for _, v := range c.mockCalls {
		snap.TotalMock += v
	}
	for _, v := range c.realFailures {
		snap.TotalFailures += v
	}
	for _, v := range c.mockFailures {
		snap.TotalFailures += v
	}
	return snap
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
