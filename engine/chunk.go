package engine

import (
	"github.com/samber/lo"

	"github.com/fogfactory/tabular"
)

// chunk is the unit of parallel work: a contiguous slice of the input rows
// tagged with its 0-based sequence index. The index, not completion order,
// decides where results land in the merged output.
type chunk struct {
	index int
	start int
	rows  []tabular.Row
}

// planChunks partitions the input rows into contiguous chunks of
// opts.ChunkSize rows (last chunk may be shorter). Planning is deterministic:
// it depends only on row count and chunk size.
func (e *Engine) planChunks(ds *tabular.DataSet) []chunk {
	return lo.Map(lo.Chunk(ds.Rows(), e.opts.ChunkSize), func(rows []tabular.Row, i int) chunk {
		return chunk{index: i, start: i * e.opts.ChunkSize, rows: rows}
	})
}

// partial is a chunk-local reduction result. ok is false when no non-null
// row in the chunk contributed.
type partial struct {
	val tabular.Value
	ok  bool
}

// combinePartials folds two settled partials with an order-independent
// combinator: Count and Sum partials are added, Min and Max compared. Both
// values come from the same column, so mixed kinds only occur when a mapper
// broke the caller-trusted typing contract; in that case the accumulator
// wins.
func combinePartials(op tabular.ReduceOp, acc, next tabular.Value) tabular.Value {
	switch op {
	case tabular.Count, tabular.Sum:
		if a, ok := acc.AsInt64(); ok {
			if b, ok := next.AsInt64(); ok {
				return tabular.Int64(a + b)
			}
		}
		if a, ok := acc.AsFloat64(); ok {
			if b, ok := next.AsFloat64(); ok {
				return tabular.Float64(a + b)
			}
		}
	case tabular.Min:
		if a, ok := acc.AsInt64(); ok {
			if b, ok := next.AsInt64(); ok && b < a {
				return next
			}
		}
		if a, ok := acc.AsFloat64(); ok {
			if b, ok := next.AsFloat64(); ok && b < a {
				return next
			}
		}
		if a, ok := acc.AsBool(); ok {
			if b, ok := next.AsBool(); ok && !b && a {
				return next
			}
		}
	case tabular.Max:
		if a, ok := acc.AsInt64(); ok {
			if b, ok := next.AsInt64(); ok && b > a {
				return next
			}
		}
		if a, ok := acc.AsFloat64(); ok {
			if b, ok := next.AsFloat64(); ok && b > a {
				return next
			}
		}
		if a, ok := acc.AsBool(); ok {
			if b, ok := next.AsBool(); ok && b && !a {
				return next
			}
		}
	}
	return acc
}
