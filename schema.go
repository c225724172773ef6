package tabular

import (
	"fmt"

	"github.com/samber/lo"
)

// Field is a single named, typed column of a Schema.
//
// The name may encode a dot-separated path (e.g. "user.name") for sources with
// nested structure; the path is opaque here and only interpreted by ingestion.
type Field struct {
	Name string
	Type DataType
}

// NewField creates a field.
func NewField(name string, t DataType) Field { return Field{Name: name, Type: t} }

// Schema is an ordered list of uniquely named fields. Field order defines the
// column index used by all row access.
type Schema struct {
	fields []Field
	index  map[string]int
}

// NewSchema builds a schema from fields. Field names must be unique.
func NewSchema(fields ...Field) (*Schema, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has an empty name", i)
		}
		if prev, ok := index[f.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate field %q (positions %d and %d)", f.Name, prev, i)
		}
		index[f.Name] = i
	}
	return &Schema{fields: append([]Field(nil), fields...), index: index}, nil
}

// MustSchema is NewSchema for static schemas; it panics on invalid fields.
func MustSchema(fields ...Field) *Schema {
	s, err := NewSchema(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the field at column index i.
func (s *Schema) Field(i int) Field { return s.fields[i] }

// Fields returns a copy of the field list.
func (s *Schema) Fields() []Field { return append([]Field(nil), s.fields...) }

// FieldNames returns the field names in column order.
func (s *Schema) FieldNames() []string {
	return lo.Map(s.fields, func(f Field, _ int) string { return f.Name })
}

// IndexOf returns the column index of the named field.
func (s *Schema) IndexOf(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Equal reports whether two schemas declare the same fields in the same order.
func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}
