package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Project evaluates Expressions against each input row, producing a row
// whose type is the pure function of the expressions' declared types and
// OutputNames.
type Project struct {
	base
	Expressions []expression.Expr
	OutputNames []string
}

func NewProject(expressions []expression.Expr, outputNames []string, input Node) *Project {
	fields := make([]types.Field, len(expressions))
	for i, e := range expressions {
		fields[i] = Field(outputNames[i], e.Type())
	}
	return &Project{
		base: base{
			kind:    KindProject,
			inputs:  []Node{input},
			rowType: NewRowType(fields...),
			traits:  input.Traits(),
		},
		Expressions: expressions,
		OutputNames: outputNames,
	}
}

// IsIdentity reports whether this projection is exactly [ref(0), ref(1), ...
// ref(n-1)] against the child's row type, per the relational-SQL emitter's
// "skip if identity" rule (spec §4.4).
func (p *Project) IsIdentity() bool {
	child := p.inputs[0].RowType()
	if len(p.Expressions) != len(child.FieldList) {
		return false
	}
	for i, e := range p.Expressions {
		ref, ok := e.(*expression.InputRef)
		if !ok || ref.Index != i {
			return false
		}
	}
	return true
}

func (p *Project) WithTraits(ts *traits.TraitSet) Node {
	cp := *p
	cp.base.traits = ts
	return &cp
}

func (p *Project) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("Project takes exactly one input"))
	}
	cp := *p
	cp.base.inputs = inputs
	return &cp
}

func (p *Project) Digest() string {
	parts := make([]string, len(p.Expressions))
	for i, e := range p.Expressions {
		parts[i] = e.Digest() + " AS " + p.OutputNames[i]
	}
	return digestOf(p.kind, p.inputs, struct{ Exprs []string }{parts}, p.rowType, p.traits)
}
