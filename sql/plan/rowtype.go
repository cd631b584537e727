package plan

import "github.com/polypheny/polypheny-core-go/sql/types"

// NewRowType builds the struct type used as every relational node's
// RowType(): an ordered field list with struct_kind FULLY_QUALIFIED, per the
// data model's "Struct types carry an ordered field list".
func NewRowType(fields ...types.Field) *types.Type {
	return &types.Type{
		Family:     types.Struct,
		Precision:  types.UnspecifiedPrecision,
		FieldList:  fields,
		StructKind: types.StructKindFullyQualified,
	}
}

// Field is a convenience constructor for a types.Field.
func Field(name string, typ *types.Type) types.Field {
	return types.Field{Name: name, Type: typ}
}
