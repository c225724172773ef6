package ingest_test

import (
	"errors"
	"testing"

	"github.com/maxatome/go-testdeep/td"

	"github.com/fogfactory/tabular"
	"github.com/fogfactory/tabular/ingest"
)

func errorsAs(err error, target any) bool { return errors.As(err, target) }

// recordingObserver captures ingestion callbacks for assertions.
type recordingObserver struct {
	successes []ingest.Stats
	failures  []ingest.Severity
	alerts    []ingest.Severity
	lastCtx   ingest.Context
}

func (r *recordingObserver) OnSuccess(ctx ingest.Context, stats ingest.Stats) {
	r.lastCtx = ctx
	r.successes = append(r.successes, stats)
}

func (r *recordingObserver) OnFailure(ctx ingest.Context, sev ingest.Severity, _ error) {
	r.lastCtx = ctx
	r.failures = append(r.failures, sev)
}

func (r *recordingObserver) OnAlert(_ ingest.Context, sev ingest.Severity, _ error) {
	r.alerts = append(r.alerts, sev)
}

func TestFormatFromExtension(t *testing.T) {
	t.Run("success_known_extensions", func(t *testing.T) {
		for ext, want := range map[string]ingest.Format{
			".csv":    ingest.FormatCSV,
			"CSV":     ingest.FormatCSV,
			".json":   ingest.FormatJSON,
			"ndjson":  ingest.FormatJSON,
			".pq":     ingest.FormatParquet,
			"parquet": ingest.FormatParquet,
			".xlsx":   ingest.FormatXLSX,
			".xlsm":   ingest.FormatXLSX,
		} {
			got, ok := ingest.FormatFromExtension(ext)
			td.CmpTrue(t, ok, "extension %q", ext)
			td.Cmp(t, got, want, "extension %q", ext)
		}
	})

	t.Run("error_unknown_extension", func(t *testing.T) {
		_, ok := ingest.FormatFromExtension(".txt")
		td.CmpFalse(t, ok)
	})
}

func TestFromPath(t *testing.T) {
	t.Run("error_undetectable_extension", func(t *testing.T) {
		// Arrange
		path := writeFile(t, "people.dat", "id,name,active,score\n")
		obs := &recordingObserver{}

		// Act
		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{Observer: obs})

		// Assert
		var srcErr *ingest.SourceError
		td.CmpTrue(t, errorsAs(err, &srcErr))
		td.CmpContains(t, err.Error(), "cannot infer format")
		td.Cmp(t, len(obs.failures), 1)
		td.CmpEmpty(t, obs.successes)
	})

	t.Run("success_explicit_format_overrides_extension", func(t *testing.T) {
		path := writeFile(t, "people.dat",
			"id,name,active,score\n"+
				"1,ada,true,1\n")

		ds, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{Format: ingest.FormatCSV})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.RowCount(), 1)
	})

	t.Run("success_observer_gets_stats", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"1,ada,true,1\n"+
				"2,bob,false,2\n")
		obs := &recordingObserver{}

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{Observer: obs})

		td.CmpNoError(t, err)
		td.Cmp(t, obs.successes, []ingest.Stats{{Rows: 2}})
		td.CmpEmpty(t, obs.failures)
		td.CmpEmpty(t, obs.alerts)
		td.Cmp(t, obs.lastCtx.Format, ingest.FormatCSV)
	})

	t.Run("error_missing_file_is_critical_and_alerts", func(t *testing.T) {
		// Arrange
		obs := &recordingObserver{}

		// Act
		_, err := ingest.FromPath("/nonexistent/people.csv", peopleSchema(t), ingest.Options{Observer: obs})

		// Assert: a failed open alerts at the default Critical threshold.
		td.CmpError(t, err)
		td.Cmp(t, obs.failures, []ingest.Severity{ingest.SeverityCritical})
		td.Cmp(t, obs.alerts, []ingest.Severity{ingest.SeverityCritical})
		td.CmpEmpty(t, obs.successes)
	})

	t.Run("success_parse_failure_is_error_severity_below_default_threshold", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"nope,ada,true,1\n")
		obs := &recordingObserver{}

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{Observer: obs})

		td.CmpError(t, err)
		td.Cmp(t, obs.failures, []ingest.Severity{ingest.SeverityError})
		td.CmpEmpty(t, obs.alerts)
	})

	t.Run("success_lowered_threshold_alerts_on_parse_failures", func(t *testing.T) {
		path := writeFile(t, "people.csv",
			"id,name,active,score\n"+
				"nope,ada,true,1\n")
		obs := &recordingObserver{}

		_, err := ingest.FromPath(path, peopleSchema(t), ingest.Options{
			Observer: obs,
			AlertAt:  ingest.SeverityError,
		})

		td.CmpError(t, err)
		td.Cmp(t, obs.alerts, []ingest.Severity{ingest.SeverityError})
	})
}

func TestCoercion(t *testing.T) {
	t.Run("success_int_column_accepts_only_integers", func(t *testing.T) {
		schema := tabular.MustSchema(tabular.NewField("id", tabular.TypeInt64))
		path := writeFile(t, "ids.csv", "id\n1.5\n")

		_, err := ingest.FromPath(path, schema, ingest.Options{})

		var parseErr *ingest.ParseError
		td.CmpTrue(t, errorsAs(err, &parseErr))
	})

	t.Run("success_float_column_accepts_integer_literals", func(t *testing.T) {
		schema := tabular.MustSchema(tabular.NewField("score", tabular.TypeFloat64))
		path := writeFile(t, "scores.csv", "score\n42\n")

		ds, err := ingest.FromPath(path, schema, ingest.Options{})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.At(0, 0), tabular.Float64(42))
	})

	t.Run("success_bool_spellings", func(t *testing.T) {
		schema := tabular.MustSchema(tabular.NewField("flag", tabular.TypeBool))
		path := writeFile(t, "flags.csv", "flag\nTRUE\nf\n1\nno\nY\n")

		ds, err := ingest.FromPath(path, schema, ingest.Options{})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.Rows(), []tabular.Row{
			{tabular.Bool(true)},
			{tabular.Bool(false)},
			{tabular.Bool(true)},
			{tabular.Bool(false)},
			{tabular.Bool(true)},
		})
	})

	t.Run("success_utf8_cells_are_trimmed", func(t *testing.T) {
		schema := tabular.MustSchema(tabular.NewField("name", tabular.TypeUtf8))
		path := writeFile(t, "names.csv", "name\n  ada  \n")

		ds, err := ingest.FromPath(path, schema, ingest.Options{})

		td.CmpNoError(t, err)
		td.Cmp(t, ds.At(0, 0), tabular.Utf8("ada"))
	})
}
