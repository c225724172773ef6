package tabular

import (
	"fmt"
	"strconv"
)

// DataType is the declared logical type of a schema field. Null is not a
// DataType: it is a valid Value for any declared type.
type DataType uint8

const (
	TypeInt64 DataType = iota
	TypeFloat64
	TypeBool
	TypeUtf8
)

func (t DataType) String() string {
	switch t {
	case TypeInt64:
		return "int64"
	case TypeFloat64:
		return "float64"
	case TypeBool:
		return "bool"
	case TypeUtf8:
		return "utf8"
	default:
		return fmt.Sprintf("datatype(%d)", uint8(t))
	}
}

// Kind discriminates the variants of a Value. Unlike DataType it includes
// Null.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt64
	KindFloat64
	KindBool
	KindUtf8
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindUtf8:
		return "utf8"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a single typed cell. The zero Value is Null.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// Null returns the null value.
func Null() Value { return Value{} }

// Int64 returns an int64 value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float64 returns a float64 value.
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// Bool returns a bool value.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Utf8 returns a string value.
func Utf8(s string) Value { return Value{kind: KindUtf8, s: s} }

// Kind returns the variant of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt64 returns the int64 payload. ok is false for any other variant,
// including null.
func (v Value) AsInt64() (int64, bool) { return v.i, v.kind == KindInt64 }

// AsFloat64 returns the float64 payload. ok is false for any other variant.
func (v Value) AsFloat64() (float64, bool) { return v.f, v.kind == KindFloat64 }

// AsBool returns the bool payload. ok is false for any other variant.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsUtf8 returns the string payload. ok is false for any other variant.
func (v Value) AsUtf8() (string, bool) { return v.s, v.kind == KindUtf8 }

// Is reports whether v is either null or of the given declared type.
func (v Value) Is(t DataType) bool {
	if v.kind == KindNull {
		return true
	}
	switch t {
	case TypeInt64:
		return v.kind == KindInt64
	case TypeFloat64:
		return v.kind == KindFloat64
	case TypeBool:
		return v.kind == KindBool
	case TypeUtf8:
		return v.kind == KindUtf8
	default:
		return false
	}
}

// Equal reports whether two values have the same variant and payload.
func (v Value) Equal(o Value) bool { return v == o }

func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindUtf8:
		return v.s
	default:
		return fmt.Sprintf("value(kind=%d)", uint8(v.kind))
	}
}
