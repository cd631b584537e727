package plan

import (
	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Scan reads every row of a catalog table. It is the IR's only leaf that
// reaches outside the arena, to the (read-only) catalog reader.
type Scan struct {
	base
	Table *catalog.Table
}

// NewScan builds a Scan over table, with RowType derived from the table's
// column list, seeded with the registry's default trait set.
func NewScan(table *catalog.Table, registry *traits.Registry) *Scan {
	fields := make([]types.Field, len(table.Columns))
	for i, c := range table.Columns {
		fields[i] = Field(c.Name, c.Type)
	}
	return &Scan{
		base: base{
			kind:    KindScan,
			rowType: NewRowType(fields...),
			traits:  registry.Defaults(),
		},
		Table: table,
	}
}

func (s *Scan) WithTraits(ts *traits.TraitSet) Node {
	cp := *s
	cp.base.traits = ts
	return &cp
}

func (s *Scan) WithInputs(inputs []Node) Node {
	if len(inputs) != 0 {
		panic(ErrInternalInvariant.New("Scan takes no inputs"))
	}
	return s
}

func (s *Scan) Digest() string {
	return digestOf(s.kind, nil, struct {
		Schema, Name string
	}{s.Table.Schema, s.Table.Name}, s.rowType, s.traits)
}
