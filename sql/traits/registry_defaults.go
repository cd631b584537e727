package traits

// DefaultRegistry builds the registry used throughout this module: one
// trait-def per spec §4.3 ("traits (convention, collation, distribution)"),
// in a fixed, documented order. Index order matters: it is the TraitSet
// vector layout, so it must not change once nodes have been constructed
// against it.
func DefaultRegistry() *Registry {
	return NewRegistry(ConventionTraitDef, CollationTraitDef, DistributionTraitDef)
}
