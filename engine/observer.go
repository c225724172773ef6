package engine

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fogfactory/tabular"
)

// EventKind discriminates engine lifecycle events.
type EventKind uint8

const (
	EventRunStarted EventKind = iota
	EventThrottleWaited
	EventChunkStarted
	EventChunkFinished
	EventChunkFailed
	EventReduceStarted
	EventReduceFinished
	EventRunFinished
	EventRunFailed
)

func (k EventKind) String() string {
	switch k {
	case EventRunStarted:
		return "run_started"
	case EventThrottleWaited:
		return "throttle_waited"
	case EventChunkStarted:
		return "chunk_started"
	case EventChunkFinished:
		return "chunk_finished"
	case EventChunkFailed:
		return "chunk_failed"
	case EventReduceStarted:
		return "reduce_started"
	case EventReduceFinished:
		return "reduce_finished"
	case EventRunFinished:
		return "run_finished"
	case EventRunFailed:
		return "run_failed"
	default:
		return "event(?)"
	}
}

// Event is a single engine lifecycle notification. Only the fields relevant
// to the Kind are set.
type Event struct {
	Kind EventKind

	// Chunk events.
	Chunk      int
	StartRow   int
	RowCount   int
	OutputRows int

	// Reduce events.
	Column   string
	Op       tabular.ReduceOp
	Result   tabular.Value
	ResultOK bool

	// Throttling and run totals.
	Wait     time.Duration
	Elapsed  time.Duration
	Err      error
	Snapshot Snapshot
}

// Observer receives engine events. Implementations must be safe for
// concurrent use; calls are fire-and-forget and must not block the workers
// for long.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// LogObserver logs engine events through logrus.
type LogObserver struct {
	log logrus.FieldLogger
}

// NewLogObserver builds a LogObserver. A nil logger falls back to the logrus
// standard logger.
func NewLogObserver(log logrus.FieldLogger) *LogObserver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogObserver{log: log}
}

func (o *LogObserver) OnEvent(e Event) {
	entry := o.log.WithField("event", e.Kind.String())
	switch e.Kind {
	case EventChunkStarted:
		entry = entry.WithFields(logrus.Fields{"chunk": e.Chunk, "start_row": e.StartRow, "rows": e.RowCount})
	case EventChunkFinished:
		entry = entry.WithFields(logrus.Fields{"chunk": e.Chunk, "output_rows": e.OutputRows})
	case EventChunkFailed:
		entry = entry.WithFields(logrus.Fields{"chunk": e.Chunk, "error": e.Err})
	case EventThrottleWaited:
		entry = entry.WithField("wait", e.Wait)
	case EventReduceStarted:
		entry = entry.WithFields(logrus.Fields{"column": e.Column, "op": e.Op.String()})
	case EventReduceFinished:
		entry = entry.WithFields(logrus.Fields{"column": e.Column, "op": e.Op.String(), "ok": e.ResultOK, "result": e.Result.String()})
	case EventRunFinished:
		entry = entry.WithFields(logrus.Fields{"elapsed": e.Elapsed, "metrics": e.Snapshot.String()})
	case EventRunFailed:
		entry = entry.WithFields(logrus.Fields{"elapsed": e.Elapsed, "error": e.Err})
	}
	if e.Kind == EventChunkFailed || e.Kind == EventRunFailed {
		entry.Warn("engine")
		return
	}
	entry.Debug("engine")
}
