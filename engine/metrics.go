package engine

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Metrics holds live counters for one Engine instance. Counters are
// cumulative across calls and updated atomically as work completes, so
// Snapshot is safe to call while chunks are in flight.
type Metrics struct {
	runs            atomic.Uint64
	rowsProcessed   atomic.Uint64
	chunksStarted   atomic.Uint64
	chunksFinished  atomic.Uint64
	throttleWaitNs  atomic.Uint64
	elapsedNs       atomic.Uint64
	activeChunks    atomic.Int64
	maxActiveChunks atomic.Int64
}

func (m *Metrics) beginRun() { m.runs.Add(1) }

func (m *Metrics) endRun(elapsed time.Duration) {
	m.elapsedNs.Add(uint64(elapsed.Nanoseconds()))
}

func (m *Metrics) onRowsProcessed(n int) { m.rowsProcessed.Add(uint64(n)) }

func (m *Metrics) onThrottleWait(d time.Duration) {
	m.throttleWaitNs.Add(uint64(d.Nanoseconds()))
}

func (m *Metrics) onChunkStart() {
	m.chunksStarted.Add(1)
	now := m.activeChunks.Add(1)
	for {
		cur := m.maxActiveChunks.Load()
		if now <= cur || m.maxActiveChunks.CompareAndSwap(cur, now) {
			return
		}
	}
}

func (m *Metrics) onChunkEnd() {
	m.chunksFinished.Add(1)
	m.activeChunks.Add(-1)
}

// Snapshot returns an immutable copy of the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Runs:            m.runs.Load(),
		RowsProcessed:   m.rowsProcessed.Load(),
		ChunksStarted:   m.chunksStarted.Load(),
		ChunksFinished:  m.chunksFinished.Load(),
		MaxActiveChunks: int(m.maxActiveChunks.Load()),
		ThrottleWait:    time.Duration(m.throttleWaitNs.Load()),
		Elapsed:         time.Duration(m.elapsedNs.Load()),
	}
}

// Snapshot is a point-in-time copy of engine Metrics.
//
// Elapsed accumulates wall-clock time spent inside engine calls, not idle
// time between calls. RowsProcessed counts rows whose processing finished,
// across all operations invoked on the engine.
type Snapshot struct {
	Runs            uint64
	RowsProcessed   uint64
	ChunksStarted   uint64
	ChunksFinished  uint64
	MaxActiveChunks int
	ThrottleWait    time.Duration
	Elapsed         time.Duration
}

func (s Snapshot) String() string {
	return fmt.Sprintf("runs=%d rows_processed=%d chunks=%d/%d max_active_chunks=%d throttle_wait=%s elapsed=%s",
		s.Runs, s.RowsProcessed, s.ChunksFinished, s.ChunksStarted, s.MaxActiveChunks, s.ThrottleWait, s.Elapsed)
}
