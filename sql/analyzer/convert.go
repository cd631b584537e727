package analyzer

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// ErrNoReachableConvention is raised when a required sub-tree cannot be
// converted to any convention an adapter provides (spec §7 "Planning: ...
// no convention reachable for a required sub-tree").
var ErrNoReachableConvention = errors.NewKind("no convention reachable for required trait %s on node %s")

// ConvertTo rewrites n to carry the convention trait `to`, using converters
// a rule firing or the orchestrator registered, per spec §4.3's
// "convention conversion (e.g. LogicalX -> Mongo-X under a convention
// trait)". If n already carries `to`, it is returned unchanged.
func ConvertTo(converters *traits.ConverterRegistry, conventionDef traits.TraitDef, n plan.Node, to traits.Trait) (plan.Node, error) {
	current := n.Traits().GetByName(conventionDef.Name())
	if current != nil && current.Satisfies(to) {
		return n, nil
	}

	conv := converters.Find(conventionDef, current, to)
	if conv == nil {
		return nil, ErrNoReachableConvention.New(to, n.Kind())
	}
	converted, ok := conv.Convert(n, to)
	if !ok {
		return nil, ErrNoReachableConvention.New(to, n.Kind())
	}
	out, ok := converted.(plan.Node)
	if !ok {
		return nil, ErrNoReachableConvention.New(to, n.Kind())
	}
	return out, nil
}
