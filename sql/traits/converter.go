package traits

// Node is the minimal shape a relational node must expose for trait
// conversion, kept trait-package-local (rather than importing sql/plan) so
// traits has no dependency on the algebra layer: sql/plan.Node satisfies
// this interface.
type Node interface {
	Traits() *TraitSet
}

// Converter converts a node carrying trait `From` into one carrying trait
// `To` (same TraitDef), per spec §4.3 "conversion between traits via
// converters". Converters are registered per TraitDef and consulted by the
// rule engine's convention-conversion rule.
type Converter interface {
	Def() TraitDef
	// CanConvert reports whether this converter can bridge from->to.
	CanConvert(from, to Trait) bool
	// Convert produces a new node (or the planner's placeholder for one)
	// wrapping input in a conversion to `to`. The concrete Node type is
	// supplied by the caller (sql/plan); Convert returns it as this
	// package's Node interface to keep this package free of an import cycle.
	Convert(input Node, to Trait) (Node, bool)
}

// ConverterRegistry holds converters keyed by TraitDef name.
type ConverterRegistry struct {
	byDef map[string][]Converter
}

func NewConverterRegistry() *ConverterRegistry {
	return &ConverterRegistry{byDef: make(map[string][]Converter)}
}

func (r *ConverterRegistry) Register(c Converter) {
	name := c.Def().Name()
	r.byDef[name] = append(r.byDef[name], c)
}

// Find returns the first registered converter (for def) that can bridge
// from->to, or nil.
func (r *ConverterRegistry) Find(def TraitDef, from, to Trait) Converter {
	for _, c := range r.byDef[def.Name()] {
		if c.CanConvert(from, to) {
			return c
		}
	}
	return nil
}
