package analyzer

import (
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// retagConverter is a traits.Converter whose conversion work is entirely a
// trait relabel: the node is already physically hosted by the target
// backend (spec §4.3's representative "convention conversion" rule,
// specialized to the case where no data movement is required, only the
// sub-tree's convention trait needs to change so the matching emitter
// claims it). from == nil matches any source convention.
type retagConverter struct {
	def  traits.TraitDef
	from *traits.Convention
	to   *traits.Convention
}

// newRetagConverter builds a converter for def that relabels any node
// already satisfying from (nil for "any") to the to convention.
func newRetagConverter(def traits.TraitDef, from, to *traits.Convention) traits.Converter {
	return retagConverter{def: def, from: from, to: to}
}

func (c retagConverter) Def() traits.TraitDef { return c.def }

func (c retagConverter) CanConvert(from, to traits.Trait) bool {
	toConv, ok := to.(*traits.Convention)
	if !ok || toConv.Name != c.to.Name {
		return false
	}
	if c.from == nil {
		return true
	}
	fromConv, ok := from.(*traits.Convention)
	return ok && fromConv.Name == c.from.Name
}

func (c retagConverter) Convert(input traits.Node, to traits.Trait) (traits.Node, bool) {
	n, ok := input.(plan.Node)
	if !ok {
		return nil, false
	}
	return n.WithTraits(n.Traits().ReplaceNamed(c.def.Name(), to)), true
}
