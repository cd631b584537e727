// Package memo implements the planner's memoization of equivalent node
// sets (spec §3 "equivalence classes identify nodes with equal digest and
// equal trait-set"; spec §4.3 "maintains equivalence sets keyed by
// digest"). A Memo never removes an expression once added — rewrites grow
// groups, they never shrink them — matching the functional-IR invariant
// that rule rewrites append rather than mutate.
package memo

import "github.com/polypheny/polypheny-core-go/sql/plan"

// Group is an equivalence class: every member is a plan.Node the rule
// engine has proven equivalent (same logical result), distinguished only
// by physical shape or trait set.
type Group struct {
	ID      int
	Digests map[string]bool
	Exprs   []plan.Node
	Best    plan.Node // set by the planner once a cost-optimal member is known
}

// Memo indexes groups by every member's digest, so a node constructed
// again later (by an independent rule firing) is recognized as already
// explored rather than re-added.
type Memo struct {
	groups   []*Group
	byDigest map[string]*Group
}

func New() *Memo {
	return &Memo{byDigest: make(map[string]*Group)}
}

// AddExpr adds n to the memo, merging into n's existing group if any of
// n's digest is already known, else starting a new singleton group.
// Returns the group and whether n was newly added to it.
func (m *Memo) AddExpr(n plan.Node) (*Group, bool) {
	digest := n.Digest()
	if g, ok := m.byDigest[digest]; ok {
		return g, false
	}

	g := &Group{ID: len(m.groups), Digests: map[string]bool{digest: true}}
	g.Exprs = append(g.Exprs, n)
	m.groups = append(m.groups, g)
	m.byDigest[digest] = g
	return g, true
}

// Merge unions b into a: every digest and expression of b becomes reachable
// from a, and future lookups of b's digests resolve to a. Used when a rule
// proves two previously-distinct sub-trees equivalent.
func (m *Memo) Merge(a, b *Group) {
	if a == b {
		return
	}
	for d := range b.Digests {
		a.Digests[d] = true
		m.byDigest[d] = a
	}
	a.Exprs = append(a.Exprs, b.Exprs...)
}

// GroupOf returns the group containing a node with the given digest, if
// known.
func (m *Memo) GroupOf(digest string) (*Group, bool) {
	g, ok := m.byDigest[digest]
	return g, ok
}

// Groups returns every group, in insertion order.
func (m *Memo) Groups() []*Group {
	return m.groups
}

// Sealed reports whether g has had no new expression added since lastSeen,
// i.e. no rule has produced a novel rewrite of it (spec §4.3 "a node is
// sealed once no pattern matches its sub-tree").
func (g *Group) Sealed(lastSeen int) bool {
	return len(g.Exprs) == lastSeen
}
