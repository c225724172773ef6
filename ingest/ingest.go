/*
Package ingest loads tabular files into a tabular.DataSet against a caller
supplied schema.

Per-format adapters (CSV, JSON/NDJSON, Parquet, XLSX workbooks) produce raw
records: maps from a field-path string to a raw, not-yet-typed value. The
coordinator orders each record by the schema, coerces raw values to the
declared field types, and substitutes Null for absent, blank or explicit-null
cells. Schema field names may use dot paths ("user.name") to address nested
source data; the path is resolved here, never by the data model.

FromPath auto-detects the format from the file extension unless
Options.Format forces one, and reports success, failure and threshold-based
alerts to an optional Observer.
*/
package ingest

import (
	"encoding/json"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/fogfactory/tabular"
)

// Format selects an ingestion adapter.
type Format uint8

const (
	// FormatAuto infers the format from the file extension.
	FormatAuto Format = iota
	FormatCSV
	FormatJSON
	FormatParquet
	FormatXLSX
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatCSV:
		return "csv"
	case FormatJSON:
		return "json"
	case FormatParquet:
		return "parquet"
	case FormatXLSX:
		return "xlsx"
	default:
		return "format(?)"
	}
}

// FormatFromExtension maps a file extension (with or without the leading
// dot, case-insensitive) to a Format.
func FormatFromExtension(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "csv":
		return FormatCSV, true
	case "json", "ndjson":
		return FormatJSON, true
	case "parquet", "pq":
		return FormatParquet, true
	case "xlsx", "xlsm":
		return FormatXLSX, true
	default:
		return FormatAuto, false
	}
}

// Record is one raw source record: field path to raw value. Values may be
// raw strings (CSV, workbooks), decoded JSON scalars, or nested maps for
// dot-path addressing.
type Record map[string]any

// Options control unified ingestion. The zero value auto-detects the format,
// reads the first workbook sheet and alerts at Critical.
type Options struct {
	// Format overrides extension-based detection when not FormatAuto.
	Format Format
	// Sheets selects workbook sheets; ignored by other formats.
	Sheets SheetSelection
	// Observer optionally receives success/failure/alert notifications.
	Observer Observer
	// AlertAt is the severity threshold at or above which OnAlert fires.
	// Zero means SeverityCritical.
	AlertAt Severity
}

// FromPath ingests a file into a DataSet. On failure the observer (if any)
// receives OnFailure with a computed severity, then OnAlert when the
// severity meets Options.AlertAt.
func FromPath(path string, schema *tabular.Schema, opts Options) (*tabular.DataSet, error) {
	format := opts.Format
	if format == FormatAuto {
		ext := filepath.Ext(path)
		detected, ok := FormatFromExtension(ext)
		if !ok {
			err := &SourceError{Path: path, Err: errors.Errorf("cannot infer format from extension %q", ext)}
			notify(opts, Context{Path: path, Format: FormatAuto}, nil, err)
			return nil, err
		}
		format = detected
	}
	ctx := Context{Path: path, Format: format}

	var (
		records []Record
		err     error
	)
	switch format {
	case FormatCSV:
		records, err = readCSV(path)
	case FormatJSON:
		records, err = readJSON(path)
	case FormatParquet:
		records, err = readParquet(path)
	case FormatXLSX:
		records, err = readXLSX(path, opts.Sheets)
	default:
		err = &SourceError{Path: path, Err: errors.Errorf("unsupported format %s", format)}
	}

	var ds *tabular.DataSet
	if err == nil {
		ds, err = coerceRecords(records, schema)
	}
	notify(opts, ctx, ds, err)
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func notify(opts Options, ctx Context, ds *tabular.DataSet, err error) {
	if opts.Observer == nil {
		return
	}
	if err == nil {
		opts.Observer.OnSuccess(ctx, Stats{Rows: ds.RowCount()})
		return
	}
	sev := severityFor(err)
	opts.Observer.OnFailure(ctx, sev, err)
	threshold := opts.AlertAt
	if threshold == 0 {
		threshold = SeverityCritical
	}
	if sev >= threshold {
		opts.Observer.OnAlert(ctx, sev, err)
	}
}

// coerceRecords maps raw records to schema-ordered typed rows.
func coerceRecords(records []Record, schema *tabular.Schema) (*tabular.DataSet, error) {
	fields := schema.Fields()
	rows := make([]tabular.Row, 0, len(records))
	for i, rec := range records {
		recordNum := i + 1
		row := make(tabular.Row, 0, len(fields))
		for _, field := range fields {
			raw, ok := lookup(rec, field.Name)
			if !ok {
				return nil, &SchemaError{Column: field.Name, Row: recordNum}
			}
			v, err := coerceValue(recordNum, field, raw)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return tabular.NewDataSet(schema, rows)
}

// lookup resolves a field path in a record: a literal key match wins (CSV
// headers may legitimately contain dots), then the path is walked through
// nested maps.
func lookup(rec Record, path string) (any, bool) {
	if v, ok := rec[path]; ok {
		return v, true
	}
	if !strings.Contains(path, ".") {
		return nil, false
	}
	segments := strings.Split(path, ".")
	cur, ok := rec[segments[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func coerceValue(record int, field tabular.Field, raw any) (tabular.Value, error) {
	switch rv := raw.(type) {
	case nil:
		return tabular.Null(), nil
	case string:
		return coerceString(record, field, rv)
	case bool:
		if field.Type != tabular.TypeBool {
			return parseFailure(record, field, strconv.FormatBool(rv))
		}
		return tabular.Bool(rv), nil
	case int64:
		switch field.Type {
		case tabular.TypeInt64:
			return tabular.Int64(rv), nil
		case tabular.TypeFloat64:
			return tabular.Float64(float64(rv)), nil
		}
		return parseFailure(record, field, strconv.FormatInt(rv, 10))
	case float64:
		if field.Type == tabular.TypeFloat64 {
			return tabular.Float64(rv), nil
		}
		return parseFailure(record, field, strconv.FormatFloat(rv, 'g', -1, 64))
	case json.Number:
		switch field.Type {
		case tabular.TypeInt64:
			n, err := rv.Int64()
			if err != nil {
				return tabular.Null(), &ParseError{Row: record, Column: field.Name, Raw: rv.String(), Message: "expected integer number"}
			}
			return tabular.Int64(n), nil
		case tabular.TypeFloat64:
			n, err := rv.Float64()
			if err != nil {
				return tabular.Null(), &ParseError{Row: record, Column: field.Name, Raw: rv.String(), Message: "expected number"}
			}
			return tabular.Float64(n), nil
		}
		return parseFailure(record, field, rv.String())
	default:
		return tabular.Null(), &ParseError{
			Row: record, Column: field.Name, Raw: "",
			Message: "unsupported raw value type",
		}
	}
}

// coerceString parses a raw text cell. Blank cells are Null.
func coerceString(record int, field tabular.Field, raw string) (tabular.Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return tabular.Null(), nil
	}
	switch field.Type {
	case tabular.TypeUtf8:
		return tabular.Utf8(trimmed), nil
	case tabular.TypeInt64:
		n, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return tabular.Null(), &ParseError{Row: record, Column: field.Name, Raw: raw, Message: "expected int64"}
		}
		return tabular.Int64(n), nil
	case tabular.TypeFloat64:
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return tabular.Null(), &ParseError{Row: record, Column: field.Name, Raw: raw, Message: "expected float64"}
		}
		return tabular.Float64(f), nil
	case tabular.TypeBool:
		b, ok := parseBool(trimmed)
		if !ok {
			return tabular.Null(), &ParseError{Row: record, Column: field.Name, Raw: raw, Message: "expected bool (true/false/1/0/yes/no)"}
		}
		return tabular.Bool(b), nil
	default:
		return parseFailure(record, field, raw)
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "t", "1", "yes", "y":
		return true, true
	case "false", "f", "0", "no", "n":
		return false, true
	default:
		return false, false
	}
}

func parseFailure(record int, field tabular.Field, raw string) (tabular.Value, error) {
	return tabular.Null(), &ParseError{
		Row: record, Column: field.Name, Raw: raw,
		Message: "expected " + field.Type.String(),
	}
}
