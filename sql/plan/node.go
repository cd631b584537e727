// Package plan implements the relational algebra IR (spec §4's "Relational
// Algebra IR"): logical operators carrying an input list, row type, and
// trait set, per the data model's "Relational node" entry. The IR is
// functional: rule rewrites never mutate an existing Node, they construct a
// new one (spec §3 "Ownership").
package plan

import (
	"fmt"

	"github.com/mitchellh/hashstructure"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Kind tags every concrete Node implementation, collapsing what would be a
// deep class hierarchy in an OO host language into a tagged sum over
// operator kinds (spec §9).
type Kind int

const (
	KindScan Kind = iota
	KindFilter
	KindProject
	KindJoin
	KindSemiJoin
	KindCorrelate
	KindAggregate
	KindSort
	KindSetOp
	KindValues
	KindMatch
	KindTableModify
	KindConditionalExecute
	KindDocuments
)

func (k Kind) String() string {
	names := [...]string{
		"Scan", "Filter", "Project", "Join", "SemiJoin", "Correlate",
		"Aggregate", "Sort", "SetOp", "Values", "Match", "TableModify",
		"ConditionalExecute", "Documents",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// ErrInternalInvariant is raised only when an invariant the planner itself
// is responsible for maintaining is violated; never for user input (spec
// §7 "Internal invariant").
var ErrInternalInvariant = errors.NewKind("internal invariant violated: %s")

// Node is the relational node interface every operator implements.
type Node interface {
	Kind() Kind
	Inputs() []Node
	// RowType is a pure function of (kind, inputs' row types, node
	// parameters), per the data model's Relational node invariant.
	RowType() *types.Type
	Traits() *traits.TraitSet
	// WithTraits returns a copy of this node with its trait set replaced;
	// used by the rule engine's convention-conversion step.
	WithTraits(*traits.TraitSet) Node
	// WithInputs returns a copy of this node with its input list replaced;
	// used by bottom-up rewrites that rebuild a sub-tree after rewriting
	// children (sql/transform).
	WithInputs([]Node) Node
	// Digest is the canonical textual identity of the node: equal iff nodes
	// are structurally equivalent (same kind, same input digests, same
	// parameters, same trait set), per the data model.
	Digest() string
}

// base holds the fields common to every operator and is embedded by each
// concrete Node.
type base struct {
	kind    Kind
	inputs  []Node
	rowType *types.Type
	traits  *traits.TraitSet
}

func (b *base) Kind() Kind                  { return b.kind }
func (b *base) Inputs() []Node              { return b.inputs }
func (b *base) RowType() *types.Type        { return b.rowType }
func (b *base) Traits() *traits.TraitSet    { return b.traits }

// digestOf computes the structural digest shared by every concrete Node:
// the node's kind, its inputs' digests (recursively pure, since the IR never
// mutates a constructed node), its own parameter payload, its row type, and
// its trait set — the data model's "equal iff ... same trait set" clause,
// so a rule that only rewrites a node's traits (e.g. convention assignment)
// still produces a digest the rule engine recognizes as changed.
// It uses hashstructure over a plain DTO so funcs / interfaces embedded
// elsewhere in the IR (e.g. operator implementors) never need to be
// hashable themselves.
func digestOf(kind Kind, inputs []Node, params interface{}, rowType *types.Type, ts *traits.TraitSet) string {
	childDigests := make([]string, len(inputs))
	for i, in := range inputs {
		childDigests[i] = in.Digest()
	}

	dto := struct {
		Kind     string
		Children []string
		Params   interface{}
		RowType  string
		Traits   string
	}{
		Kind:     kind.String(),
		Children: childDigests,
		Params:   params,
		RowType:  rowType.String(),
		Traits:   ts.String(),
	}

	h, err := hashstructure.Hash(dto, nil)
	if err != nil {
		// Params must always be a hashstructure-safe DTO (primitives,
		// slices, strings); a hashing failure means a caller embedded an
		// unhashable value (a func, a channel) and is a programming error.
		panic(fmt.Sprintf("plan: unhashable node params for %s: %v", kind, err))
	}
	return fmt.Sprintf("%s#%x", kind, h)
}
