// Package types implements the polymorphic SQL type descriptor model and the
// interval-qualifier lexer/validator described in the type & interval model.
package types

import "fmt"

// Family classifies a Type's storage/semantic family.
type Family int

const (
	Unknown Family = iota
	Boolean
	TinyInt
	SmallInt
	Integer
	BigInt
	Decimal
	Float
	Double
	Char
	VarChar
	Text
	Binary
	VarBinary
	Blob
	Date
	Time
	Timestamp
	Interval
	Array
	Multiset
	Struct
	JSON
	Document
)

// StructKind describes how a Struct type's field list should be interpreted
// by name resolution: a fully-qualified record, a "peek-through" anonymous
// record whose fields are promoted into the enclosing scope, or none.
type StructKind int

const (
	StructKindNone StructKind = iota
	StructKindFullyQualified
	StructKindPeek
)

// Field is one element of a Struct type's ordered field list.
type Field struct {
	Name string
	Type *Type
}

// Type is the polymorphic SQL type descriptor from the data model: every
// relational row type, row-expression type, and column-placement type is
// described by one of these.
type Type struct {
	Family    Family
	Precision int // -1 means "unspecified, use system default"
	Scale     int
	Nullable  bool
	Collation int

	// ComponentType is set iff Family is Array or Multiset.
	ComponentType *Type
	// KeyType/ValueType are set iff Family is a map-like document field type;
	// unused by the families in this spec's core but kept for the document
	// convention's dynamic field typing.
	KeyType   *Type
	ValueType *Type

	// FieldList is set iff Family is Struct.
	FieldList  []Field
	StructKind StructKind

	// Qualifier is set iff Family is Interval.
	Qualifier *IntervalQualifier
}

// UnspecifiedPrecision is the sentinel meaning "use the system default for
// this family", per the data model's precision invariant.
const UnspecifiedPrecision = -1

// String renders f's SQL family keyword, e.g. "VARCHAR".
func (f Family) String() string { return familyName(f) }

// WithNullable returns a shallow copy of t with Nullable set to nullable.
func (t *Type) WithNullable(nullable bool) *Type {
	cp := *t
	cp.Nullable = nullable
	return &cp
}

// String renders a debug form used in digests and error messages.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	s := familyName(t.Family)
	if t.Precision != UnspecifiedPrecision {
		if t.Scale != 0 {
			s += fmt.Sprintf("(%d,%d)", t.Precision, t.Scale)
		} else {
			s += fmt.Sprintf("(%d)", t.Precision)
		}
	}
	if t.Nullable {
		s += " NULL"
	} else {
		s += " NOT NULL"
	}
	return s
}

func familyName(f Family) string {
	switch f {
	case Boolean:
		return "BOOLEAN"
	case TinyInt:
		return "TINYINT"
	case SmallInt:
		return "SMALLINT"
	case Integer:
		return "INTEGER"
	case BigInt:
		return "BIGINT"
	case Decimal:
		return "DECIMAL"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case Char:
		return "CHAR"
	case VarChar:
		return "VARCHAR"
	case Text:
		return "TEXT"
	case Binary:
		return "BINARY"
	case VarBinary:
		return "VARBINARY"
	case Blob:
		return "BLOB"
	case Date:
		return "DATE"
	case Time:
		return "TIME"
	case Timestamp:
		return "TIMESTAMP"
	case Interval:
		return "INTERVAL"
	case Array:
		return "ARRAY"
	case Multiset:
		return "MULTISET"
	case Struct:
		return "STRUCT"
	case JSON:
		return "JSON"
	case Document:
		return "DOCUMENT"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric reports whether f is one of the exact or approximate numeric
// families, used by operand harmonization (spec §4.2) to decide whether two
// operand types can share a common numeric type.
func (f Family) IsNumeric() bool {
	switch f {
	case TinyInt, SmallInt, Integer, BigInt, Decimal, Float, Double:
		return true
	default:
		return false
	}
}

// IsCharacter reports whether f is a character-string family.
func (f Family) IsCharacter() bool {
	switch f {
	case Char, VarChar, Text:
		return true
	default:
		return false
	}
}
