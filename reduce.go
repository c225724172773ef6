package tabular

import "github.com/pkg/errors"

// ErrUnsupportedReduce is returned when a reduce operation is undefined for
// the column's declared type (e.g. Sum over utf8). There is no implicit
// coercion and no invented ordering for strings.
var ErrUnsupportedReduce = errors.New("reduce operation unsupported for column type")

// ReduceOp is a built-in single-column reduction.
type ReduceOp uint8

const (
	// Count counts rows, including rows whose column value is null.
	Count ReduceOp = iota
	// Sum adds non-null numeric values.
	Sum
	// Min takes the smallest non-null value. On bool columns false < true.
	Min
	// Max takes the largest non-null value. On bool columns false < true.
	Max
)

func (op ReduceOp) String() string {
	switch op {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "reduceop(?)"
	}
}

// Reduce reduces a single column of ds.
//
//   - A missing column is not an error: it returns ok == false with a nil
//     error.
//   - Count returns Int64(row count) and counts rows whose value is null.
//   - Sum, Min and Max skip null cells and return ok == false when no
//     non-null cell contributes (all-null column or empty dataset).
//   - Int64 columns accumulate in int64, Float64 columns in float64.
//   - Sum/Min/Max on utf8, and Sum on bool, fail with ErrUnsupportedReduce.
func Reduce(ds *DataSet, column string, op ReduceOp) (Value, bool, error) {
	idx, ok := ds.Schema().IndexOf(column)
	if !ok {
		return Null(), false, nil
	}
	if op == Count {
		return Int64(int64(ds.RowCount())), true, nil
	}

	field := ds.Schema().Field(idx)
	switch field.Type {
	case TypeInt64:
		return reduceInt64(ds, idx, op)
	case TypeFloat64:
		return reduceFloat64(ds, idx, op)
	case TypeBool:
		if op == Sum {
			return Null(), false, errors.Wrapf(ErrUnsupportedReduce, "%s on bool column %q", op, column)
		}
		return reduceBool(ds, idx, op)
	default:
		return Null(), false, errors.Wrapf(ErrUnsupportedReduce, "%s on %s column %q", op, field.Type, column)
	}
}

func reduceInt64(ds *DataSet, idx int, op ReduceOp) (Value, bool, error) {
	var acc int64
	seen := false
	for _, row := range ds.Rows() {
		v, ok := row[idx].AsInt64()
		if !ok {
			continue // null, or a mixed-type cell left by a mapper
		}
		if !seen {
			acc, seen = v, true
			continue
		}
		switch op {
		case Sum:
			acc += v
		case Min:
			if v < acc {
				acc = v
			}
		case Max:
			if v > acc {
				acc = v
			}
		}
	}
	if !seen {
		return Null(), false, nil
	}
	return Int64(acc), true, nil
}

func reduceFloat64(ds *DataSet, idx int, op ReduceOp) (Value, bool, error) {
	var acc float64
	seen := false
	for _, row := range ds.Rows() {
		v, ok := row[idx].AsFloat64()
		if !ok {
			continue
		}
		if !seen {
			acc, seen = v, true
			continue
		}
		switch op {
		case Sum:
			acc += v
		case Min:
			if v < acc {
				acc = v
			}
		case Max:
			if v > acc {
				acc = v
			}
		}
	}
	if !seen {
		return Null(), false, nil
	}
	return Float64(acc), true, nil
}

func reduceBool(ds *DataSet, idx int, op ReduceOp) (Value, bool, error) {
	var acc bool
	seen := false
	for _, row := range ds.Rows() {
		v, ok := row[idx].AsBool()
		if !ok {
			continue
		}
		if !seen {
			acc, seen = v, true
			continue
		}
		// false < true
		if op == Min && !v {
			acc = false
		}
		if op == Max && v {
			acc = true
		}
	}
	if !seen {
		return Null(), false, nil
	}
	return Bool(acc), true, nil
}
