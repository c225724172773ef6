/*
Package engine executes filter/map/reduce over a tabular.DataSet on a fixed
goroutine pool, preserving the exact observable semantics of the sequential
primitives: same output rows, same order, same reduce value.

The input rows are split into contiguous chunks. Chunk dispatch passes through
a counting semaphore sized to Options.MaxInFlight, so at most that many chunks
are dispatched-and-unconsumed at once regardless of dataset size; a worker
finishing a chunk frees one admission slot. Chunk results are merged in
sequence-index order, never completion order.

Calls block until every chunk for the call has settled. If any row function
fails, the whole call fails with an aggregate error and no partial dataset is
returned; not-yet-admitted chunks are skipped best-effort, while chunks
already handed to the pool run to completion.
*/
package engine

import (
	"context"
	stderrors "errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/semaphore"

	"github.com/fogfactory/tabular"
)

// ErrInvalidOptions is returned by New for out-of-range options.
var ErrInvalidOptions = stderrors.New("invalid engine options")

// DefaultChunkSize is the chunk size used when Options.ChunkSize is zero.
const DefaultChunkSize = 4096

// Options configure an Engine. They are fixed at construction.
type Options struct {
	// Workers is the goroutine pool size. Zero or negative means the
	// available hardware parallelism.
	Workers int
	// ChunkSize is the number of rows per unit of work. Zero means
	// DefaultChunkSize; negative is invalid.
	ChunkSize int
	// MaxInFlight caps how many chunks may be dispatched-but-not-consumed at
	// once. Zero means Workers; negative is invalid.
	MaxInFlight int
	// Observer optionally receives lifecycle events. Fire-and-forget: it is
	// never part of control flow.
	Observer Observer
}

func (o Options) normalized() (Options, error) {
	if o.ChunkSize < 0 || o.MaxInFlight < 0 {
		return o, errors.Wrapf(ErrInvalidOptions, "chunk_size=%d max_in_flight=%d", o.ChunkSize, o.MaxInFlight)
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxInFlight == 0 {
		o.MaxInFlight = o.Workers
	}
	return o, nil
}

// Engine owns a fixed goroutine pool and per-instance metrics, and is reused
// across many calls. It is safe for concurrent use; the engine itself is the
// only shared mutable state, input datasets are never written to.
type Engine struct {
	opts    Options
	pool    *ants.Pool
	metrics Metrics
}

// New builds an engine. The pool is created once and reused until Release.
func New(opts Options) (*Engine, error) {
	opts, err := opts.normalized()
	if err != nil {
		return nil, err
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, errors.Wrap(err, "engine: create pool")
	}
	return &Engine{opts: opts, pool: pool}, nil
}

// Release frees the worker pool. The engine must not be used afterwards.
func (e *Engine) Release() {
	e.pool.Release()
}

// Metrics returns the live metrics handle for this engine.
func (e *Engine) Metrics() *Metrics { return &e.metrics }

func (e *Engine) emit(ev Event) {
	if e.opts.Observer != nil {
		e.opts.Observer.OnEvent(ev)
	}
}

// FilterParallel is the parallel equivalent of tabular.Filter: same schema,
// same kept rows in the same order.
func (e *Engine) FilterParallel(ds *tabular.DataSet, pred tabular.Predicate) (*tabular.DataSet, error) {
	results, err := runChunks(e, ds, func(c chunk) ([]tabular.Row, int, error) {
		out := make([]tabular.Row, 0, len(c.rows))
		for i, row := range c.rows {
			keep, err := pred(row)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "filter: row %d", c.start+i)
			}
			if keep {
				out = append(out, row)
			}
		}
		return out, len(out), nil
	})
	if err != nil {
		return nil, err
	}
	return ds.WithRows(lo.Flatten(results)), nil
}

// MapParallel is the parallel equivalent of tabular.Map: one output row per
// input row, in input order. Mapper output arity and typing stay
// caller-trusted, as in the sequential primitive.
func (e *Engine) MapParallel(ds *tabular.DataSet, m tabular.Mapper) (*tabular.DataSet, error) {
	results, err := runChunks(e, ds, func(c chunk) ([]tabular.Row, int, error) {
		out := make([]tabular.Row, 0, len(c.rows))
		for i, row := range c.rows {
			mapped, err := m(row)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "map: row %d", c.start+i)
			}
			out = append(out, mapped)
		}
		return out, len(out), nil
	})
	if err != nil {
		return nil, err
	}
	return ds.WithRows(lo.Flatten(results)), nil
}

// Reduce is the parallel equivalent of tabular.Reduce: each chunk produces a
// partial with the sequential semantics (Count counts all rows, Sum/Min/Max
// skip nulls), and partials are folded with an order-independent combinator.
// A chunk with no non-null contribution contributes nothing; if no chunk
// contributes, ok is false.
func (e *Engine) Reduce(ds *tabular.DataSet, column string, op tabular.ReduceOp) (tabular.Value, bool, error) {
	if _, ok := ds.Schema().IndexOf(column); !ok {
		return tabular.Null(), false, nil
	}
	// An empty input plans zero chunks, so no partial would ever contribute;
	// delegate to the sequential reduce, which defines Count over no rows as
	// Int64(0).
	if ds.RowCount() == 0 {
		return tabular.Reduce(ds, column, op)
	}
	// Validate the op against the column type before dispatching any work, so
	// undefined combinations fail loudly.
	if _, _, err := tabular.Reduce(ds.WithRows(nil), column, op); err != nil {
		return tabular.Null(), false, err
	}

	e.emit(Event{Kind: EventReduceStarted, Column: column, Op: op})
	parts, err := runChunks(e, ds, func(c chunk) (partial, int, error) {
		v, ok, err := tabular.Reduce(ds.WithRows(c.rows), column, op)
		return partial{val: v, ok: ok}, len(c.rows), err
	})
	if err != nil {
		return tabular.Null(), false, err
	}

	acc := partial{}
	for _, p := range parts {
		if !p.ok {
			continue
		}
		if !acc.ok {
			acc = p
			continue
		}
		acc.val = combinePartials(op, acc.val, p.val)
	}
	e.emit(Event{Kind: EventReduceFinished, Column: column, Op: op, Result: acc.val, ResultOK: acc.ok})
	if !acc.ok {
		return tabular.Null(), false, nil
	}
	return acc.val, true, nil
}

// runChunks plans, admits and executes chunks on the pool, then returns the
// per-chunk results indexed by chunk sequence number. It blocks until all
// admitted chunks have settled.
func runChunks[R any](e *Engine, ds *tabular.DataSet, work func(chunk) (R, int, error)) ([]R, error) {
	start := time.Now()
	e.metrics.beginRun()
	e.emit(Event{Kind: EventRunStarted})

	chunks := e.planChunks(ds)
	results := make([]R, len(chunks))
	errs := make([]error, len(chunks))

	sem := semaphore.NewWeighted(int64(e.opts.MaxInFlight))
	var wg sync.WaitGroup
	var failed atomic.Bool

	for _, c := range chunks {
		c := c
		if failed.Load() {
			break // best-effort early stop: later chunks are never admitted
		}
		if !sem.TryAcquire(1) {
			waitStart := time.Now()
			// Background context: the contract has no mid-call cancellation,
			// a call runs to completion or aggregate failure.
			if err := sem.Acquire(context.Background(), 1); err != nil {
				errs[c.index] = errors.Wrapf(err, "admit chunk %d", c.index)
				break
			}
			waited := time.Since(waitStart)
			e.metrics.onThrottleWait(waited)
			e.emit(Event{Kind: EventThrottleWaited, Chunk: c.index, Wait: waited})
		}

		wg.Add(1)
		err := e.pool.Submit(func() {
			defer wg.Done()
			defer sem.Release(1)
			e.metrics.onChunkStart()
			e.emit(Event{Kind: EventChunkStarted, Chunk: c.index, StartRow: c.start, RowCount: len(c.rows)})

			out, outRows, err := work(c)
			if err != nil {
				failed.Store(true)
				errs[c.index] = errors.Wrapf(err, "chunk %d", c.index)
				e.metrics.onChunkEnd()
				e.emit(Event{Kind: EventChunkFailed, Chunk: c.index, Err: err})
				return
			}
			results[c.index] = out
			e.metrics.onRowsProcessed(len(c.rows))
			e.metrics.onChunkEnd()
			e.emit(Event{Kind: EventChunkFinished, Chunk: c.index, OutputRows: outRows})
		})
		if err != nil {
			wg.Done()
			sem.Release(1)
			failed.Store(true)
			errs[c.index] = errors.Wrapf(err, "submit chunk %d", c.index)
			break
		}
	}

	wg.Wait()
	elapsed := time.Since(start)
	e.metrics.endRun(elapsed)

	if err := stderrors.Join(errs...); err != nil {
		e.emit(Event{Kind: EventRunFailed, Elapsed: elapsed, Err: err})
		return nil, err
	}
	e.emit(Event{Kind: EventRunFinished, Elapsed: elapsed, Snapshot: e.metrics.Snapshot()})
	return results, nil
}
