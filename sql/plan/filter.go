package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// Filter keeps only rows for which Condition evaluates true; its row type
// equals its input's row type unchanged.
type Filter struct {
	base
	Condition expression.Expr
}

func NewFilter(condition expression.Expr, input Node) *Filter {
	return &Filter{
		base: base{
			kind:    KindFilter,
			inputs:  []Node{input},
			rowType: input.RowType(),
			traits:  input.Traits(),
		},
		Condition: condition,
	}
}

func (f *Filter) WithTraits(ts *traits.TraitSet) Node {
	cp := *f
	cp.base.traits = ts
	return &cp
}

func (f *Filter) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("Filter takes exactly one input"))
	}
	cp := *f
	cp.base.inputs = inputs
	cp.base.rowType = inputs[0].RowType()
	return &cp
}

func (f *Filter) Digest() string {
	return digestOf(f.kind, f.inputs, struct{ Cond string }{f.Condition.Digest()}, f.rowType, f.traits)
}
