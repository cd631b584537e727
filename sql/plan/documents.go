package plan

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// documentRowType is the single-field row type every Documents leaf
// produces: one DOCUMENT-family column, since a document-model tuple has
// no fixed relational shape (the data model's document convention carries
// dynamic field typing via Type.KeyType/ValueType).
func documentRowType() *types.Type {
	return NewRowType(Field("_doc", &types.Type{Family: types.Document}))
}

// Documents is the document-convention counterpart to Values: a leaf
// producing a fixed set of literal documents, each a field-name ->
// row-expression map. Used to seed document-pipeline INSERT sources.
type Documents struct {
	base
	Tuples []map[string]expression.Expr
}

func NewDocuments(tuples []map[string]expression.Expr, registry *traits.Registry) *Documents {
	return &Documents{
		base: base{
			kind:    KindDocuments,
			rowType: documentRowType(),
			traits:  registry.Defaults(),
		},
		Tuples: tuples,
	}
}

func (d *Documents) WithTraits(ts *traits.TraitSet) Node {
	cp := *d
	cp.base.traits = ts
	return &cp
}

func (d *Documents) WithInputs(inputs []Node) Node {
	if len(inputs) != 0 {
		panic(ErrInternalInvariant.New("Documents takes no inputs"))
	}
	return d
}

func (d *Documents) Digest() string {
	docs := make([]map[string]string, len(d.Tuples))
	for i, doc := range d.Tuples {
		m := make(map[string]string, len(doc))
		for k, v := range doc {
			m[k] = v.Digest()
		}
		docs[i] = m
	}
	return digestOf(d.kind, nil, struct {
		Docs []map[string]string
	}{docs}, d.rowType, d.traits)
}
