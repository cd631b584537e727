package plan

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// ErrMergeUnsupported is returned by NewTableModify when asked to build a
// Merge: the open question of whether MERGE is required is left
// unimplemented, surfacing a clear error rather than a silent no-op (spec
// §9).
var ErrMergeUnsupported = errors.NewKind("MERGE table-modify is not supported")

// ModifyOperation classifies a TableModify's DML kind. MERGE is declared
// but left unimplemented by the placement planner (open question, spec §9):
// constructing one returns ErrMergeUnsupported rather than a silent no-op.
type ModifyOperation int

const (
	Insert ModifyOperation = iota
	Update
	Delete
	Merge
)

func (m ModifyOperation) String() string {
	switch m {
	case Update:
		return "UPDATE"
	case Delete:
		return "DELETE"
	case Merge:
		return "MERGE"
	default:
		return "INSERT"
	}
}

// rowCountType is the single-column BIGINT row type every TableModify
// produces, per the emitters' "returns a count" contract (spec §4.4, §4.5).
func rowCountType() *types.Type {
	return NewRowType(Field("ROWCOUNT", &types.Type{Family: types.BigInt}))
}

// TableModify compiles an INSERT/UPDATE/DELETE against Table. Insert
// consumes a Values (or any relational) child as the source of new rows;
// Update consumes a child whose WHERE-equivalent filter selects the rows to
// change, paired with UpdateColumns/SourceExprs; Delete consumes a
// filter-only child. Its row type is always a single row-count column.
type TableModify struct {
	base
	Table         *catalog.Table
	Operation     ModifyOperation
	UpdateColumns []string          // set iff Operation == Update
	SourceExprs   []expression.Expr // set iff Operation == Update, parallel to UpdateColumns
}

func NewTableModify(table *catalog.Table, op ModifyOperation, updateColumns []string, sourceExprs []expression.Expr, input Node) *TableModify {
	if op == Merge {
		panic(ErrMergeUnsupported.New())
	}
	return &TableModify{
		base: base{
			kind:    KindTableModify,
			inputs:  []Node{input},
			rowType: rowCountType(),
			traits:  input.Traits(),
		},
		Table:         table,
		Operation:     op,
		UpdateColumns: updateColumns,
		SourceExprs:   sourceExprs,
	}
}

func (t *TableModify) WithTraits(ts *traits.TraitSet) Node {
	cp := *t
	cp.base.traits = ts
	return &cp
}

func (t *TableModify) WithInputs(inputs []Node) Node {
	if len(inputs) != 1 {
		panic(ErrInternalInvariant.New("TableModify takes exactly one input"))
	}
	cp := *t
	cp.base.inputs = inputs
	return &cp
}

func (t *TableModify) Digest() string {
	parts := make([]string, len(t.SourceExprs))
	for i, e := range t.SourceExprs {
		parts[i] = e.Digest()
	}
	return digestOf(t.kind, t.inputs, struct {
		Schema, Name string
		Op           string
		UpdateCols   []string
		SourceExprs  []string
	}{t.Table.Schema, t.Table.Name, t.Operation.String(), t.UpdateColumns, parts}, t.rowType, t.traits)
}
