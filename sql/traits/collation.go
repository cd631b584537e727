package traits

import (
	"fmt"
	"strings"
)

// Direction is a sort field's direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// FieldCollation pins one column index to a sort direction.
type FieldCollation struct {
	FieldIndex int
	Direction  Direction
}

// Collation is an ordered list of FieldCollations. The empty Collation means
// "no particular order" and is both CollationTraitDef's default and
// satisfies/is-satisfied-by anything (spec §4.3's collation trait).
type Collation struct {
	Fields []FieldCollation
}

func NewCollation(fields ...FieldCollation) *Collation { return &Collation{Fields: fields} }

var EmptyCollation = &Collation{}

func (c *Collation) Def() TraitDef { return CollationTraitDef }

func (c *Collation) String() string {
	if len(c.Fields) == 0 {
		return "[]"
	}
	parts := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		dir := "ASC"
		if f.Direction == Descending {
			dir = "DESC"
		}
		parts[i] = fmt.Sprintf("%d %s", f.FieldIndex, dir)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Satisfies: c satisfies other iff other is a prefix of c (a stream sorted
// by (a,b) also satisfies a requirement of "sorted by a"), or other is
// empty ("don't care").
func (c *Collation) Satisfies(other Trait) bool {
	req, ok := other.(*Collation)
	if !ok {
		return false
	}
	if len(req.Fields) == 0 {
		return true
	}
	if len(req.Fields) > len(c.Fields) {
		return false
	}
	for i, f := range req.Fields {
		if c.Fields[i] != f {
			return false
		}
	}
	return true
}

type collationTraitDef struct{}

func (collationTraitDef) Name() string   { return "COLLATION" }
func (collationTraitDef) Default() Trait { return EmptyCollation }

func (collationTraitDef) Join(a, b Trait) Trait {
	ca, aok := a.(*Collation)
	cb, bok := b.(*Collation)
	if !aok || !bok {
		return EmptyCollation
	}
	if ca.String() == cb.String() {
		return ca
	}
	return EmptyCollation
}

var CollationTraitDef TraitDef = collationTraitDef{}
