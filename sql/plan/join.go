package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// JoinType classifies a Join's semantics.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullJoin
	CrossJoin
)

func (j JoinType) String() string {
	switch j {
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullJoin:
		return "FULL"
	case CrossJoin:
		return "CROSS"
	default:
		return "INNER"
	}
}

// Join combines a left and right input on Condition. Its row type is the
// concatenation of the left and right row types; outer-joined sides'
// fields become nullable.
type Join struct {
	base
	Type      JoinType
	Condition expression.Expr
}

func NewJoin(joinType JoinType, condition expression.Expr, left, right Node) *Join {
	return &Join{
		base: base{
			kind:    KindJoin,
			inputs:  []Node{left, right},
			rowType: joinRowType(joinType, left.RowType(), right.RowType()),
			traits:  left.Traits(),
		},
		Type:      joinType,
		Condition: condition,
	}
}

// NewCrossJoin builds an always-true inner join, which the relational-SQL
// emitter renders as a comma join (spec §4.4).
func NewCrossJoin(left, right Node) *Join {
	return NewJoin(CrossJoin, expression.NewLiteral(true, &types.Type{Family: types.Boolean}), left, right)
}

func joinRowType(joinType JoinType, left, right *types.Type) *types.Type {
	fields := make([]types.Field, 0, len(left.FieldList)+len(right.FieldList))
	for _, f := range left.FieldList {
		t := f.Type
		if joinType == RightJoin || joinType == FullJoin {
			t = t.WithNullable(true)
		}
		fields = append(fields, types.Field{Name: f.Name, Type: t})
	}
	for _, f := range right.FieldList {
		t := f.Type
		if joinType == LeftJoin || joinType == FullJoin {
			t = t.WithNullable(true)
		}
		fields = append(fields, types.Field{Name: f.Name, Type: t})
	}
	return NewRowType(fields...)
}

// LeftFieldCount is the offset added to a right-side column reference when
// the relational-SQL emitter re-qualifies it against the combined context
// (spec §4.4).
func (j *Join) LeftFieldCount() int {
	return len(j.inputs[0].RowType().FieldList)
}

func (j *Join) WithTraits(ts *traits.TraitSet) Node {
	cp := *j
	cp.base.traits = ts
	return &cp
}

func (j *Join) WithInputs(inputs []Node) Node {
	if len(inputs) != 2 {
		panic(ErrInternalInvariant.New("Join takes exactly two inputs"))
	}
	cp := *j
	cp.base.inputs = inputs
	cp.base.rowType = joinRowType(j.Type, inputs[0].RowType(), inputs[1].RowType())
	return &cp
}

func (j *Join) Digest() string {
	return digestOf(j.kind, j.inputs, struct {
		Type string
		Cond string
	}{j.Type.String(), j.Condition.Digest()}, j.rowType, j.traits)
}

// SemiJoin keeps left rows that have at least one matching right row,
// without projecting any right-side columns (the data model's "semijoin").
type SemiJoin struct {
	base
	Condition expression.Expr
	Anti      bool // true = ANTI semi join: keep left rows with NO match
}

func NewSemiJoin(condition expression.Expr, left, right Node, anti bool) *SemiJoin {
	return &SemiJoin{
		base: base{
			kind:    KindSemiJoin,
			inputs:  []Node{left, right},
			rowType: left.RowType(),
			traits:  left.Traits(),
		},
		Condition: condition,
		Anti:      anti,
	}
}

func (s *SemiJoin) WithTraits(ts *traits.TraitSet) Node {
	cp := *s
	cp.base.traits = ts
	return &cp
}

func (s *SemiJoin) WithInputs(inputs []Node) Node {
	if len(inputs) != 2 {
		panic(ErrInternalInvariant.New("SemiJoin takes exactly two inputs"))
	}
	cp := *s
	cp.base.inputs = inputs
	cp.base.rowType = inputs[0].RowType()
	return &cp
}

func (s *SemiJoin) Digest() string {
	return digestOf(s.kind, s.inputs, struct {
		Cond string
		Anti bool
	}{s.Condition.Digest(), s.Anti}, s.rowType, s.traits)
}

// Correlate applies Right once per distinct binding of the correlation
// variables it reads from Left (the data model's "correlate" operator, used
// to decorrelate/represent APPLY-shaped subqueries). Right's row
// expressions reference Left's columns via expression.CorrelVariable.
type Correlate struct {
	base
	CorrelID        string
	RequiredColumns []int // indices into Left's row type that Right's CorrelVariable reads
	JoinType        JoinType
}

func NewCorrelate(correlID string, requiredColumns []int, joinType JoinType, left, right Node) *Correlate {
	return &Correlate{
		base: base{
			kind:    KindCorrelate,
			inputs:  []Node{left, right},
			rowType: joinRowType(joinType, left.RowType(), right.RowType()),
			traits:  left.Traits(),
		},
		CorrelID:        correlID,
		RequiredColumns: requiredColumns,
		JoinType:        joinType,
	}
}

func (c *Correlate) WithTraits(ts *traits.TraitSet) Node {
	cp := *c
	cp.base.traits = ts
	return &cp
}

func (c *Correlate) WithInputs(inputs []Node) Node {
	if len(inputs) != 2 {
		panic(ErrInternalInvariant.New("Correlate takes exactly two inputs"))
	}
	cp := *c
	cp.base.inputs = inputs
	cp.base.rowType = joinRowType(c.JoinType, inputs[0].RowType(), inputs[1].RowType())
	return &cp
}

func (c *Correlate) Digest() string {
	return digestOf(c.kind, c.inputs, struct {
		ID   string
		Cols []int
	}{c.CorrelID, c.RequiredColumns}, c.rowType, c.traits)
}
