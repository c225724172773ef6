package tabular_test

import (
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/fogfactory/tabular"
)

func TestReduce(t *testing.T) {
	t.Run("success_count_includes_null_cells", func(t *testing.T) {
		// Arrange
		ds := sampleDataSet(t)

		// Act
		v, ok, err := tabular.Reduce(ds, "score", tabular.Count)

		// Assert
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Int64(3))
	})

	t.Run("success_sum_min_max_skip_nulls", func(t *testing.T) {
		ds := sampleDataSet(t)

		v, ok, err := tabular.Reduce(ds, "score", tabular.Sum)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Float64(30.0))

		v, ok, err = tabular.Reduce(ds, "score", tabular.Min)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Float64(10.0))

		v, ok, err = tabular.Reduce(ds, "id", tabular.Max)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Int64(3))
	})

	t.Run("success_all_null_column_yields_no_value", func(t *testing.T) {
		// Arrange
		ds, err := tabular.NewDataSet(sampleSchema(t), []tabular.Row{
			{tabular.Int64(1), tabular.Bool(true), tabular.Null()},
			{tabular.Int64(2), tabular.Bool(true), tabular.Null()},
		})
		td.Require(t).CmpNoError(err)

		// Act & Assert
		for _, op := range []tabular.ReduceOp{tabular.Sum, tabular.Min, tabular.Max} {
			_, ok, err := tabular.Reduce(ds, "score", op)
			td.CmpNoError(t, err)
			td.CmpFalse(t, ok, "%s over an all-null column has no value", op)
		}

		// Count still counts the null rows.
		v, ok, err := tabular.Reduce(ds, "score", tabular.Count)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Int64(2))
	})

	t.Run("success_missing_column_is_not_an_error", func(t *testing.T) {
		ds := sampleDataSet(t)

		for _, op := range []tabular.ReduceOp{tabular.Count, tabular.Sum, tabular.Min, tabular.Max} {
			_, ok, err := tabular.Reduce(ds, "nope", op)
			td.CmpNoError(t, err)
			td.CmpFalse(t, ok)
		}
	})

	t.Run("success_empty_dataset", func(t *testing.T) {
		ds, err := tabular.NewDataSet(sampleSchema(t), nil)
		td.Require(t).CmpNoError(err)

		v, ok, err := tabular.Reduce(ds, "id", tabular.Count)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Int64(0))

		_, ok, err = tabular.Reduce(ds, "id", tabular.Sum)
		td.CmpNoError(t, err)
		td.CmpFalse(t, ok)
	})

	t.Run("success_bool_min_max", func(t *testing.T) {
		ds := sampleDataSet(t)

		v, ok, err := tabular.Reduce(ds, "active", tabular.Min)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Bool(false))

		v, ok, err = tabular.Reduce(ds, "active", tabular.Max)
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Bool(true))
	})

	t.Run("error_unsupported_type_and_op", func(t *testing.T) {
		schema := tabular.MustSchema(
			tabular.NewField("name", tabular.TypeUtf8),
			tabular.NewField("active", tabular.TypeBool),
		)
		ds, err := tabular.NewDataSet(schema, []tabular.Row{
			{tabular.Utf8("a"), tabular.Bool(true)},
		})
		td.Require(t).CmpNoError(err)

		for _, op := range []tabular.ReduceOp{tabular.Sum, tabular.Min, tabular.Max} {
			_, _, err := tabular.Reduce(ds, "name", op)
			td.CmpErrorIs(t, err, tabular.ErrUnsupportedReduce, "%s on utf8", op)
		}
		_, _, err = tabular.Reduce(ds, "active", tabular.Sum)
		td.CmpErrorIs(t, err, tabular.ErrUnsupportedReduce)
	})

	t.Run("success_filter_map_reduce_pipeline", func(t *testing.T) {
		// Arrange
		ds := sampleDataSet(t)
		scoreIdx, _ := ds.Schema().IndexOf("score")

		// Act: keep active rows, add one to every score, sum.
		kept, err := tabular.Filter(ds, activeOnly(ds, t))
		td.Require(t).CmpNoError(err)
		bumped, err := tabular.Map(kept, func(row tabular.Row) (tabular.Row, error) {
			out := row.Clone()
			if v, ok := out[scoreIdx].AsFloat64(); ok {
				out[scoreIdx] = tabular.Float64(v + 1)
			}
			return out, nil
		})
		td.Require(t).CmpNoError(err)
		v, ok, err := tabular.Reduce(bumped, "score", tabular.Sum)

		// Assert: row 3's null score is skipped, row 1 contributes 11.
		td.CmpNoError(t, err)
		td.CmpTrue(t, ok)
		td.Cmp(t, v, tabular.Float64(11.0))
	})
}
