package engine

import "github.com/fogfactory/tabular"

// NormalizedOptions returns the effective options after defaulting.
func (e *Engine) NormalizedOptions() Options {
	return e.opts
}

// PlannedChunks returns (index, startRow, rowCount) per planned chunk.
func (e *Engine) PlannedChunks(ds *tabular.DataSet) [][3]int {
	chunks := e.planChunks(ds)
	out := make([][3]int, len(chunks))
	for i, c := range chunks {
		out[i] = [3]int{c.index, c.start, len(c.rows)}
	}
	return out
}

// Combine exposes the partial combinator.
func Combine(op tabular.ReduceOp, acc, next tabular.Value) tabular.Value {
	return combinePartials(op, acc, next)
}
