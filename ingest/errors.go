package ingest

import "fmt"

// SourceError reports an unreadable or malformed source: missing file,
// undetectable format, broken CSV/JSON/parquet/workbook framing. Cell-level
// problems use ParseError instead.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Path, e.Err) }

func (e *SourceError) Unwrap() error { return e.Err }

// SchemaError reports a declared field that the source does not provide.
type SchemaError struct {
	Column string
	Row    int
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch: record %d is missing required column %q", e.Row, e.Column)
}

// ParseError reports a cell whose raw value cannot be coerced to the
// declared field type.
type ParseError struct {
	Row     int
	Column  string
	Raw     string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse value at record %d column %q: %s (raw=%q)", e.Row, e.Column, e.Message, e.Raw)
}
