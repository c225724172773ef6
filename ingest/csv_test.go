package ingest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/fogfactory/tabular"
	"github.com/fogfactory/tabular/ingest"
)

func writeFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	td.Require(t).CmpNoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

func peopleSchema(t testing.TB) *tabular.Schema {
	t.Helper()
	return tabular.MustSchema(
		tabular.NewField("id", tabular.TypeInt64),
		tabular.NewField("name", tabular.TypeUtf8),
		tabular.NewField("active", tabular.TypeBool),
		tabular.NewField("score", tabular.TypeFloat64),
	)
}

func TestFromPathCSV(t *testing.T) {
	t.Run("success_typed_rows_in_source_order", func(t *testing.T) {
		// Arrange
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"1,ada,true,10.5\n"+
				"2,grace,no,20\n")

		// Act
		ds, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		// Assert
		td.CmpNoError(t, err)
		td.Cmp(t, ds.Rows(), []tabular.Row{
			{tabular.Int64(1), tabular.Utf8("ada"), tabular.Bool(true), tabular.Float64(10.5)},
			{tabular.Int64(2), tabular.Utf8("grace"), tabular.Bool(false), tabular.Float64(20)},
		})
	})

	t.Run("success_column_order_is_free_and_blanks_become_null", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"score,id,active,name\n"+
				",3,1,\n")

		ds, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.Row(0), tabular.Row{
			tabular.Int64(3), tabular.Null(), tabular.Bool(true), tabular.Null(),
		})
	})

	t.Run("success_short_records_are_padded_with_nulls", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"7,linus\n")

		ds, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.Row(0), tabular.Row{
			tabular.Int64(7), tabular.Utf8("linus"), tabular.Null(), tabular.Null(),
		})
	})

	t.Run("error_missing_declared_column", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,score\n"+
				"1,ada,10\n")

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		var schemaErr *ingest.SchemaError
		td.CmpTrue(t, errorsAs(err, &schemaErr))
		td.Cmp(t, schemaErr.Column, "active")
		td.Cmp(t, schemaErr.Row, 1)
	})

	t.Run("error_cell_not_coercible", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"1,ada,true,10\n"+
				"x,bob,false,20\n")

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		var parseErr *ingest.ParseError
		td.CmpTrue(t, errorsAs(err, &parseErr))
		td.Cmp(t, parseErr.Row, 2)
		td.Cmp(t, parseErr.Column, "id")
		td.Cmp(t, parseErr.Raw, "x")
	})

	t.Run("error_empty_file_needs_header", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{})

		var srcErr *ingest.SourceError
		td.CmpTrue(t, errorsAs(err, &srcErr))
		td.CmpContains(t, err.Error(), "header row required")
	})
}
