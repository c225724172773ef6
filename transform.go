package tabular

import "github.com/pkg/errors"

// Predicate decides whether a row is kept by Filter.
type Predicate func(Row) (bool, error)

// Mapper turns a row into a new row of the same length as the schema. Output
// arity and typing are caller-trusted: they are not re-validated, and a
// mapper that violates them makes downstream reductions on the affected
// columns undefined.
type Mapper func(Row) (Row, error)

// Filter returns a new dataset with the same schema, keeping the subsequence
// of rows for which pred holds, in original order. The input is not mutated.
func Filter(ds *DataSet, pred Predicate) (*DataSet, error) {
	out := make([]Row, 0, ds.RowCount())
	for i, row := range ds.Rows() {
		keep, err := pred(row)
		if err != nil {
			return nil, errors.Wrapf(err, "filter: row %d", i)
		}
		if keep {
			out = append(out, row)
		}
	}
	return ds.WithRows(out), nil
}

// Map returns a new dataset with the same schema and one output row per input
// row, in the same order. The input is not mutated; mappers must not write
// through the row they are given.
func Map(ds *DataSet, m Mapper) (*DataSet, error) {
	out := make([]Row, 0, ds.RowCount())
	for i, row := range ds.Rows() {
		mapped, err := m(row)
		if err != nil {
			return nil, errors.Wrapf(err, "map: row %d", i)
		}
		out = append(out, mapped)
	}
	return ds.WithRows(out), nil
}

// Transform is a whole-dataset processing step.
type Transform func(*DataSet) (*DataSet, error)

// FilterStep lifts a predicate into a Transform.
func FilterStep(pred Predicate) Transform {
	return func(ds *DataSet) (*DataSet, error) { return Filter(ds, pred) }
}

// MapStep lifts a mapper into a Transform.
func MapStep(m Mapper) Transform {
	return func(ds *DataSet) (*DataSet, error) { return Map(ds, m) }
}

// Chain merges several transforms into one, applied left to right. Nil steps
// are skipped.
func Chain(steps ...Transform) Transform {
	return func(ds *DataSet) (*DataSet, error) {
		out := ds
		for _, step := range steps {
			if step == nil {
				continue
			}
			var err error
			if out, err = step(out); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
}
