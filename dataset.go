package tabular

import "fmt"

// Row is a fixed-length ordered sequence of Values aligned to a Schema's
// field order.
type Row []Value

// Clone returns a copy of the row.
func (r Row) Clone() Row { return append(Row(nil), r...) }

// DataSet is an immutable in-memory relation: a Schema plus ordered row-major
// values. Transformations return new DataSets; row order is significant and
// preserved end-to-end.
type DataSet struct {
	schema *Schema
	rows   []Row
}

// NewDataSet builds a dataset and validates every row against the schema:
// each row must have exactly one value per field, and each value must be null
// or match the declared field type. The rows slice is retained, not copied;
// callers must not modify it afterwards.
func NewDataSet(schema *Schema, rows []Row) (*DataSet, error) {
	if schema == nil {
		return nil, fmt.Errorf("dataset: nil schema")
	}
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, fmt.Errorf("dataset: row %d has %d values, schema has %d fields", i, len(row), schema.Len())
		}
		for j, v := range row {
			if f := schema.Field(j); !v.Is(f.Type) {
				return nil, fmt.Errorf("dataset: row %d column %q: %s value does not match declared type %s",
					i, f.Name, v.Kind(), f.Type)
			}
		}
	}
	return &DataSet{schema: schema, rows: rows}, nil
}

// WithRows returns a new dataset sharing d's schema over different rows,
// without re-validating them. Transform outputs use it: mapper output typing
// is caller-trusted.
func (d *DataSet) WithRows(rows []Row) *DataSet {
	return &DataSet{schema: d.schema, rows: rows}
}

// Schema returns the dataset schema.
func (d *DataSet) Schema() *Schema { return d.schema }

// RowCount returns the number of rows.
func (d *DataSet) RowCount() int { return len(d.rows) }

// Row returns the row at index i. The returned slice is backed by the
// dataset; treat it as read-only.
func (d *DataSet) Row(i int) Row { return d.rows[i] }

// Rows returns the backing row slice; treat it as read-only.
func (d *DataSet) Rows() []Row { return d.rows }

// At returns the value at row i, column j.
func (d *DataSet) At(i, j int) Value { return d.rows[i][j] }
