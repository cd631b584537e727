package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// SetOpKind classifies a SetOp's combining semantics.
type SetOpKind int

const (
	Union SetOpKind = iota
	Intersect
	Minus
)

func (k SetOpKind) String() string {
	switch k {
	case Intersect:
		return "INTERSECT"
	case Minus:
		return "EXCEPT"
	default:
		return "UNION"
	}
}

// SetOp combines two or more inputs of identical row type (field count and
// order) by set semantics; its row type is its first input's row type,
// verbatim, per the data model invariant that row_type is a pure function
// of inputs and kind.
type SetOp struct {
	base
	Op  SetOpKind
	All bool
}

func NewSetOp(op SetOpKind, all bool, inputs []Node) *SetOp {
	if len(inputs) < 2 {
		panic(ErrInternalInvariant.New("SetOp takes at least two inputs"))
	}
	n := len(inputs[0].RowType().FieldList)
	for _, in := range inputs[1:] {
		if len(in.RowType().FieldList) != n {
			panic(ErrInternalInvariant.New("SetOp inputs must share a common row type arity"))
		}
	}
	return &SetOp{
		base: base{
			kind:    KindSetOp,
			inputs:  inputs,
			rowType: inputs[0].RowType(),
			traits:  inputs[0].Traits(),
		},
		Op:  op,
		All: all,
	}
}

func (s *SetOp) WithTraits(ts *traits.TraitSet) Node {
	cp := *s
	cp.base.traits = ts
	return &cp
}

func (s *SetOp) WithInputs(inputs []Node) Node {
	if len(inputs) < 2 {
		panic(ErrInternalInvariant.New("SetOp takes at least two inputs"))
	}
	cp := *s
	cp.base.inputs = inputs
	cp.base.rowType = inputs[0].RowType()
	return &cp
}

func (s *SetOp) Digest() string {
	return digestOf(s.kind, s.inputs, struct {
		Op  string
		All bool
	}{s.Op.String(), s.All}, s.rowType, s.traits)
}
