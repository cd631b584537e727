package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// Direction is a single sort key's ordering direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// NullDirection places nulls first or last within a sort key, independent
// of Direction.
type NullDirection int

const (
	NullsLast NullDirection = iota
	NullsFirst
)

// FieldCollation is one key of a Sort's collation: a column index plus
// ordering.
type FieldCollation struct {
	Index int
	Dir   Direction
	Nulls NullDirection
}

// Sort orders rows by Collation and optionally truncates to Fetch rows
// after skipping Offset; its row type equals its input's, unchanged.
type Sort struct {
	base
	Collation []FieldCollation
	Offset    expression.Expr // nil if absent
	Fetch     expression.Expr // nil if absent
}

func NewSort(collation []FieldCollation, offset, fetch expression.Expr, input Node) *Sort {
	return &Sort{
		base: base{
			kind:    KindSort,
			inputs:  []Node{input},
			rowType: input.RowType(),
			traits:  input.Traits(),
		},
		Collation: collation,
		Offset:    offset,
		Fetch:     fetch,
	}
}

// HasFetchOrOffset reports whether this Sort forces the emitter to append
// FETCH/OFFSET clauses beyond ORDER_BY (spec §4.4).
func (s *Sort) HasFetchOrOffset() bool {
	return s.Offset != nil || s.Fetch != nil
}

func (s *Sort) WithTraits(ts *traits.TraitSet) Node {
	cp := *s
	cp.base.traits = ts
	return &cp
}

func (s *Sort) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("Sort takes exactly one input"))
	}
	cp := *s
	cp.base.inputs = inputs
	cp.base.rowType = inputs[0].RowType()
	return &cp
}

func (s *Sort) Digest() string {
	offset, fetch := "", ""
	if s.Offset != nil {
		offset = s.Offset.Digest()
	}
	if s.Fetch != nil {
		fetch = s.Fetch.Digest()
	}
	return digestOf(s.kind, s.inputs, struct {
		Collation []FieldCollation
		Offset    string
		Fetch     string
	}{s.Collation, offset, fetch}, s.rowType, s.traits)
}
