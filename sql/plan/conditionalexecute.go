package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// ExecutionCondition classifies the predicate a ConditionalExecute applies
// to its Check sub-plan's row count before deciding whether Action may run.
type ExecutionCondition int

const (
	EqualToZero ExecutionCondition = iota
	GreaterZero
)

// ConditionalExecute runs Check; if Check's result count satisfies
// Condition, runs Action and adopts its result, otherwise raises an error
// carrying ExceptionMessage. This is how the placement-aware modify planner
// expresses its "last placement" and similar invariant guards as plan nodes
// rather than imperative checks (spec §4.6): e.g. "exactly zero other
// placements of this column remain" guards a DROP PLACEMENT.
type ConditionalExecute struct {
	base
	Check            Node
	Action           Node
	Condition        ExecutionCondition
	ExceptionMessage string
}

func NewConditionalExecute(check, action Node, cond ExecutionCondition, exceptionMessage string) *ConditionalExecute {
	return &ConditionalExecute{
		base: base{
			kind:    KindConditionalExecute,
			inputs:  []Node{check, action},
			rowType: action.RowType(),
			traits:  action.Traits(),
		},
		Check:            check,
		Action:           action,
		Condition:        cond,
		ExceptionMessage: exceptionMessage,
	}
}

func (c *ConditionalExecute) WithTraits(ts *traits.TraitSet) Node {
	cp := *c
	cp.base.traits = ts
	return &cp
}

func (c *ConditionalExecute) WithInputs(inputs []Node) Node {
	if len(inputs) != 2 {
		panic(ErrInternalInvariant.New("ConditionalExecute takes exactly two inputs (check, action)"))
	}
	cp := *c
	cp.base.inputs = inputs
	cp.Check = inputs[0]
	cp.Action = inputs[1]
	cp.base.rowType = inputs[1].RowType()
	return &cp
}

func (c *ConditionalExecute) Digest() string {
	return digestOf(c.kind, c.inputs, struct {
		Cond    int
		Message string
	}{int(c.Condition), c.ExceptionMessage}, c.rowType, c.traits)
}
