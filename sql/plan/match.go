package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Measure is one output column of a Match's MEASURES clause.
type Measure struct {
	Expr       expression.Expr
	OutputName string
}

// Match recognizes row patterns (MATCH_RECOGNIZE-shaped row-pattern
// matching) over its input, partitioned and ordered, producing one row per
// match with the partition keys followed by the declared measures.
type Match struct {
	base
	Pattern       string
	PartitionKeys []int
	OrderKeys     []FieldCollation
	Measures      []Measure
	AllRows       bool // ALL ROWS PER MATCH vs ONE ROW PER MATCH
}

func NewMatch(pattern string, partitionKeys []int, orderKeys []FieldCollation, measures []Measure, allRows bool, input Node) *Match {
	return &Match{
		base: base{
			kind:    KindMatch,
			inputs:  []Node{input},
			rowType: matchRowType(partitionKeys, measures, input.RowType()),
			traits:  input.Traits(),
		},
		Pattern:       pattern,
		PartitionKeys: partitionKeys,
		OrderKeys:     orderKeys,
		Measures:      measures,
		AllRows:       allRows,
	}
}

func matchRowType(partitionKeys []int, measures []Measure, input *types.Type) *types.Type {
	fields := make([]types.Field, 0, len(partitionKeys)+len(measures))
	for _, idx := range partitionKeys {
		fields = append(fields, input.FieldList[idx])
	}
	for _, m := range measures {
		fields = append(fields, Field(m.OutputName, m.Expr.Type()))
	}
	return NewRowType(fields...)
}

func (m *Match) WithTraits(ts *traits.TraitSet) Node {
	cp := *m
	cp.base.traits = ts
	return &cp
}

func (m *Match) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("Match takes exactly one input"))
	}
	cp := *m
	cp.base.inputs = inputs
	cp.base.rowType = matchRowType(m.PartitionKeys, m.Measures, inputs[0].RowType())
	return &cp
}

func (m *Match) Digest() string {
	parts := make([]string, len(m.Measures))
	for i, me := range m.Measures {
		parts[i] = me.Expr.Digest() + " AS " + me.OutputName
	}
	return digestOf(m.kind, m.inputs, struct {
		Pattern   string
		Partition []int
		Order     []FieldCollation
		Measures  []string
		AllRows   bool
	}{m.Pattern, m.PartitionKeys, m.OrderKeys, parts, m.AllRows}, m.rowType, m.traits)
}
