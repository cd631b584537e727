// Package traits implements the trait & convention framework (spec §4.3):
// traits (convention, collation, distribution) with a lattice, a registry of
// trait-defs, and conversion between traits via converters.
package traits

import "strings"

// Trait is one value of a TraitDef's domain attached to a relational node.
type Trait interface {
	Def() TraitDef
	// Satisfies reports whether this trait (what a node provides) satisfies
	// other (what a consumer requires) under the def's lattice order.
	Satisfies(other Trait) bool
	String() string
}

// TraitDef is one registered trait dimension (e.g. "convention",
// "collation", "distribution"). Every relational node carries exactly one
// trait per registered TraitDef, per the data model's TraitSet invariant.
type TraitDef interface {
	Name() string
	Default() Trait
	// Join computes the lattice join of a and b: the least upper bound that
	// both satisfy, used when two sibling sub-trees must agree on a trait.
	Join(a, b Trait) Trait
}

// Registry holds the ordered list of trait-defs; the order fixes each
// TraitDef's index within a TraitSet vector, per the data model.
type Registry struct {
	defs []TraitDef
	idx  map[string]int
}

// NewRegistry builds a Registry from defs in the given order. Per spec §9
// ("Global registries... process-wide immutable state initialized once at
// startup"), callers build one Registry per process/config and do not mutate
// it afterward; tests build throwaway registries freely.
func NewRegistry(defs ...TraitDef) *Registry {
	r := &Registry{defs: defs, idx: make(map[string]int, len(defs))}
	for i, d := range defs {
		r.idx[d.Name()] = i
	}
	return r
}

func (r *Registry) IndexOf(name string) (int, bool) {
	i, ok := r.idx[name]
	return i, ok
}

func (r *Registry) DefAt(i int) TraitDef { return r.defs[i] }

func (r *Registry) Len() int { return len(r.defs) }

// Defaults returns a TraitSet of every def's default trait, in registry
// order, used to seed newly constructed relational nodes before rules
// narrow any trait.
func (r *Registry) Defaults() *TraitSet {
	ts := &TraitSet{registry: r, traits: make([]Trait, len(r.defs))}
	for i, d := range r.defs {
		ts.traits[i] = d.Default()
	}
	return ts
}

// TraitSet is the ordered vector of traits attached to a relational node,
// indexed by the owning Registry's trait-def order.
type TraitSet struct {
	registry *Registry
	traits   []Trait
}

// NewTraitSet builds a TraitSet from explicit traits, one per registry slot
// in order. len(ts) must equal registry.Len().
func NewTraitSet(registry *Registry, ts ...Trait) *TraitSet {
	cp := make([]Trait, len(ts))
	copy(cp, ts)
	return &TraitSet{registry: registry, traits: cp}
}

// Registry returns the Registry this TraitSet was built against, so callers
// holding only a TraitSet (e.g. a rule constructing a fresh leaf node) can
// still seed a new node's defaults.
func (s *TraitSet) Registry() *Registry { return s.registry }

// Get returns the trait at def index i.
func (s *TraitSet) Get(i int) Trait { return s.traits[i] }

// GetByName returns the trait registered under the named def, or nil if the
// def isn't registered.
func (s *TraitSet) GetByName(name string) Trait {
	i, ok := s.registry.IndexOf(name)
	if !ok {
		return nil
	}
	return s.traits[i]
}

// Replace returns a new TraitSet with the def at index i set to t; the
// functional-IR invariant means TraitSets are never mutated in place.
func (s *TraitSet) Replace(i int, t Trait) *TraitSet {
	cp := make([]Trait, len(s.traits))
	copy(cp, s.traits)
	cp[i] = t
	return &TraitSet{registry: s.registry, traits: cp}
}

// ReplaceNamed is Replace keyed by def name.
func (s *TraitSet) ReplaceNamed(name string, t Trait) *TraitSet {
	i, ok := s.registry.IndexOf(name)
	if !ok {
		return s
	}
	return s.Replace(i, t)
}

// Satisfies reports whether every trait in s satisfies the corresponding
// trait in other.
func (s *TraitSet) Satisfies(other *TraitSet) bool {
	if len(s.traits) != len(other.traits) {
		return false
	}
	for i := range s.traits {
		if s.traits[i] == nil || other.traits[i] == nil {
			continue
		}
		if !s.traits[i].Satisfies(other.traits[i]) {
			return false
		}
	}
	return true
}

// Join computes the pointwise lattice join of two TraitSets against the
// owning registry's per-def Join function.
func (s *TraitSet) Join(other *TraitSet) *TraitSet {
	out := make([]Trait, len(s.traits))
	for i := range s.traits {
		def := s.registry.DefAt(i)
		out[i] = def.Join(s.traits[i], other.traits[i])
	}
	return &TraitSet{registry: s.registry, traits: out}
}

func (s *TraitSet) String() string {
	parts := make([]string, len(s.traits))
	for i, t := range s.traits {
		if t == nil {
			parts[i] = "?"
		} else {
			parts[i] = t.String()
		}
	}
	return "[" + strings.Join(parts, ",") + "]"
}
