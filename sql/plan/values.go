package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Values is a leaf producing a fixed literal row set, each tuple an
// expression list matching RowType field-for-field (the data model's
// inline-rows source used for INSERT and constant-folded unions).
type Values struct {
	base
	Tuples [][]expression.Expr
}

func NewValues(rowType *types.Type, tuples [][]expression.Expr, registry *traits.Registry) *Values {
	return &Values{
		base: base{
			kind:    KindValues,
			rowType: rowType,
			traits:  registry.Defaults(),
		},
		Tuples: tuples,
	}
}

func (v *Values) WithTraits(ts *traits.TraitSet) Node {
	cp := *v
	cp.base.traits = ts
	return &cp
}

func (v *Values) WithInputs(inputs []Node) Node {
	if len(inputs) != 0 {
		panic(ErrInternalInvariant.New("Values takes no inputs"))
	}
	return v
}

func (v *Values) Digest() string {
	rows := make([][]string, len(v.Tuples))
	for i, row := range v.Tuples {
		cells := make([]string, len(row))
		for j, e := range row {
			cells[j] = e.Digest()
		}
		rows[i] = cells
	}
	return digestOf(v.kind, nil, struct{ Rows [][]string }{rows}, v.rowType, v.traits)
}
