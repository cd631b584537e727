package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// AggCall is one aggregate function application within an Aggregate node.
type AggCall struct {
	Function   *expression.Operator
	Args       []int // input-row column indices, in argument order
	Distinct   bool
	OutputName string
	Typ        *types.Type
}

// Aggregate groups rows by GroupSet and evaluates Calls per group. Its row
// type is the group columns (in GroupSet order) followed by the aggregate
// call outputs — child results must be addressable by column reference
// (spec §4.4), so Aggregate is always built over a Project or a node whose
// row type already names its columns.
type Aggregate struct {
	base
	GroupSet []int
	Calls    []AggCall
}

func NewAggregate(groupSet []int, calls []AggCall, input Node) *Aggregate {
	return &Aggregate{
		base: base{
			kind:    KindAggregate,
			inputs:  []Node{input},
			rowType: aggregateRowType(groupSet, calls, input.RowType()),
			traits:  input.Traits(),
		},
		GroupSet: groupSet,
		Calls:    calls,
	}
}

func aggregateRowType(groupSet []int, calls []AggCall, input *types.Type) *types.Type {
	fields := make([]types.Field, 0, len(groupSet)+len(calls))
	for _, idx := range groupSet {
		f := input.FieldList[idx]
		fields = append(fields, f)
	}
	for _, c := range calls {
		fields = append(fields, Field(c.OutputName, c.Typ))
	}
	return NewRowType(fields...)
}

// IsGroupSetEmpty reports whether this Aggregate has no GROUP BY columns,
// per the relational-SQL emitter's "group-set empty with aggregates omits
// the GROUP BY clause entirely" rule (spec §4.4).
func (a *Aggregate) IsGroupSetEmpty() bool {
	return len(a.GroupSet) == 0
}

func (a *Aggregate) WithTraits(ts *traits.TraitSet) Node {
	cp := *a
	cp.base.traits = ts
	return &cp
}

func (a *Aggregate) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("Aggregate takes exactly one input"))
	}
	cp := *a
	cp.base.inputs = inputs
	cp.base.rowType = aggregateRowType(a.GroupSet, a.Calls, inputs[0].RowType())
	return &cp
}

func (a *Aggregate) Digest() string {
	type callDTO struct {
		Fn       string
		Args     []int
		Distinct bool
		Name     string
	}
	calls := make([]callDTO, len(a.Calls))
	for i, c := range a.Calls {
		calls[i] = callDTO{c.Function.Name, c.Args, c.Distinct, c.OutputName}
	}
	return digestOf(a.kind, a.inputs, struct {
		Group []int
		Calls []callDTO
	}{a.GroupSet, calls}, a.rowType, a.traits)
}
