package analyzer

import (
	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
)

// DropIdentityProject removes a Project whose expressions are exactly
// [ref(0)..ref(n-1)] against its child's row type, per the relational-SQL
// emitter's own "skip if identity" contract (spec §4.4); folding it into a
// rule keeps the optimized IR itself free of redundant projections rather
// than leaving the skip to each emitter.
var DropIdentityProject = Rule{
	Name: "project-pullup/drop-identity",
	Pattern: func(n Match) bool {
		return n.Kind() == plan.KindProject
	},
	Precondition: func(n Match) bool {
		return n.(*plan.Project).IsIdentity()
	},
	Apply: func(n Match) (plan.Node, error) {
		return n.Inputs()[0], nil
	},
}

// MergeNestedProjects collapses Project(Project(x)) into a single Project
// by substituting the inner projection's expressions into the outer's
// InputRefs, avoiding a materialization step between the two (the
// "project-pullup" family, spec §4.3).
var MergeNestedProjects = Rule{
	Name: "project-pullup/merge-nested",
	Pattern: func(n Match) bool {
		outer, ok := n.(*plan.Project)
		if !ok {
			return false
		}
		_, ok = outer.Inputs()[0].(*plan.Project)
		return ok
	},
	Apply: func(n Match) (plan.Node, error) {
		outer := n.(*plan.Project)
		inner := outer.Inputs()[0].(*plan.Project)

		composed := make([]expression.Expr, len(outer.Expressions))
		for i, e := range outer.Expressions {
			substituted, err := substituteInputRefs(e, inner.Expressions)
			if err != nil {
				return nil, err
			}
			composed[i] = substituted
		}
		return plan.NewProject(composed, outer.OutputNames, inner.Inputs()[0]), nil
	},
}

// substituteInputRefs replaces every InputRef(i) in e with innerExprs[i],
// recursively, composing two projection lists into one.
func substituteInputRefs(e expression.Expr, innerExprs []expression.Expr) (expression.Expr, error) {
	switch v := e.(type) {
	case *expression.InputRef:
		return innerExprs[v.Index], nil
	case *expression.Call:
		newOperands := make([]expression.Expr, len(v.Operands_))
		for i, o := range v.Operands_ {
			substituted, err := substituteInputRefs(o, innerExprs)
			if err != nil {
				return nil, err
			}
			newOperands[i] = substituted
		}
		return expression.NewCall(v.Op, newOperands)
	default:
		return e, nil
	}
}

// FoldAlwaysTrueFilter removes a Filter whose condition is a constant TRUE,
// per the "constant folding in row-expressions" rule family (spec §4.3).
var FoldAlwaysTrueFilter = Rule{
	Name: "constant-fold/drop-always-true-filter",
	Pattern: func(n Match) bool {
		f, ok := n.(*plan.Filter)
		return ok && expression.AlwaysTrue(f.Condition)
	},
	Apply: func(n Match) (plan.Node, error) {
		return n.Inputs()[0], nil
	},
}

// FoldAlwaysFalseFilter replaces a Filter whose condition is a constant
// FALSE with an empty Values of the same row type, short-circuiting any
// work downstream.
var FoldAlwaysFalseFilter = Rule{
	Name: "constant-fold/collapse-always-false-filter",
	Pattern: func(n Match) bool {
		f, ok := n.(*plan.Filter)
		return ok && expression.AlwaysFalse(f.Condition)
	},
	Apply: func(n Match) (plan.Node, error) {
		f := n.(*plan.Filter)
		return plan.NewValues(f.RowType(), nil, f.Traits().Registry()), nil
	},
}

// FilterIntoJoin pushes a Filter sitting directly above an inner Join into
// the join's own condition, per "filter-pushdown across join" (spec §4.3).
// It is deliberately conservative: it does not attempt to split the
// predicate by which side(s) it references, since that split requires
// column-provenance tracking the IR doesn't carry on its own; it only
// eliminates the redundant Filter node by folding its condition into the
// Join, which is always semantically sound for INNER joins.
var FilterIntoJoin = Rule{
	Name: "filter-pushdown/into-inner-join",
	Pattern: func(n Match) bool {
		f, ok := n.(*plan.Filter)
		if !ok {
			return false
		}
		j, ok := f.Inputs()[0].(*plan.Join)
		return ok && j.Type == plan.InnerJoin
	},
	Apply: func(n Match) (plan.Node, error) {
		f := n.(*plan.Filter)
		j := f.Inputs()[0].(*plan.Join)
		merged := expression.NewAnd(j.Condition, f.Condition)
		return plan.NewJoin(plan.InnerJoin, merged, j.Inputs()[0], j.Inputs()[1]), nil
	},
}

// MergeSortLimit merges a Sort directly above another Sort that carries no
// collation of its own (only a LIMIT/OFFSET) into one Sort node, per
// "sort-limit merge" (spec §4.3). The combined node keeps the outer
// collation (the ordering that must observably hold). Offset and fetch are
// each taken from the outer Sort when it sets one, otherwise from the inner
// Sort; when both set the same one, the inner value is dropped, not
// combined with the outer.
var MergeSortLimit = Rule{
	Name: "sort-limit-merge",
	Pattern: func(n Match) bool {
		outer, ok := n.(*plan.Sort)
		if !ok || len(outer.Collation) == 0 {
			return false
		}
		inner, ok := outer.Inputs()[0].(*plan.Sort)
		return ok && len(inner.Collation) == 0
	},
	Apply: func(n Match) (plan.Node, error) {
		outer := n.(*plan.Sort)
		inner := outer.Inputs()[0].(*plan.Sort)

		offset := outer.Offset
		if offset == nil {
			offset = inner.Offset
		}
		fetch := outer.Fetch
		if fetch == nil {
			fetch = inner.Fetch
		}
		return plan.NewSort(outer.Collation, offset, fetch, inner.Inputs()[0]), nil
	},
}

// AssignScanConvention tags a Scan leaf with the convention of whichever
// backend physically stores its table, per spec §4.3's representative
// "convention conversion (e.g. LogicalX -> Mongo-X under a convention
// trait)" rule, specialized to the leaf case: a scan's convention is fixed
// by placement, not chosen by the planner. storeConventions maps a
// catalog.Placement.StoreID to the Convention the store's adapter was
// registered under; a table with no placement in storeConventions is left
// at the registry's default (logical/NONE) convention, so an adapter with
// no assigned tables never receives scans it didn't place. The conversion
// itself (a trait-only rewrite here, since no data movement is needed for
// a scan already hosted by the target backend) goes through the same
// ConvertTo/Converter machinery a cross-convention rewrite would use.
func AssignScanConvention(storeConventions map[int64]*traits.Convention, converters *traits.ConverterRegistry) Rule {
	return Rule{
		Name: "convention-assignment/scan-to-adapter",
		Pattern: func(n Match) bool {
			_, ok := n.(*plan.Scan)
			return ok
		},
		Precondition: func(n Match) bool {
			s := n.(*plan.Scan)
			want := conventionForTable(s.Table, storeConventions)
			if want == nil {
				return false
			}
			current := s.Traits().GetByName(traits.ConventionTraitDef.Name())
			return current == nil || !current.Satisfies(want)
		},
		Apply: func(n Match) (plan.Node, error) {
			s := n.(*plan.Scan)
			want := conventionForTable(s.Table, storeConventions)
			return ConvertTo(converters, traits.ConventionTraitDef, s, want)
		},
	}
}

// conventionForTable returns the convention of the first of t's placements
// whose store is in storeConventions, or nil if none is known.
func conventionForTable(t *catalog.Table, storeConventions map[int64]*traits.Convention) *traits.Convention {
	for _, p := range t.Placements {
		if conv, ok := storeConventions[p.StoreID]; ok {
			return conv
		}
	}
	return nil
}

// PropagateConventionUpward keeps an interior node's convention trait in
// sync with the lattice join of its inputs' conventions (spec §4.3's
// convention trait set, §9's "Convention ... a trait naming the runtime
// family that owns a sub-tree"): once AssignScanConvention (or a deeper
// application of this same rule) has tagged a node's children, the parent
// must be retagged too, or a stale NONE/child-borrowed convention on the
// parent would hide the assignment from Engine.adapterFor, which only
// inspects the root. Sibling sub-trees that disagree join to NONE
// (conventionTraitDef.Join), which is deliberate: this module does not
// split a tree into maximal per-convention sub-trees for independent
// emission, so a node spanning two conventions has no adapter that can
// claim it and planning surfaces ErrNoAdapter rather than mis-routing it.
var PropagateConventionUpward = Rule{
	Name: "convention-assignment/propagate-upward",
	Pattern: func(n Match) bool {
		return len(n.Inputs()) > 0
	},
	Precondition: func(n Match) bool {
		want := joinedChildConvention(n)
		current, _ := n.Traits().GetByName(traits.ConventionTraitDef.Name()).(*traits.Convention)
		return current == nil || current.Name != want.Name
	},
	Apply: func(n Match) (plan.Node, error) {
		want := joinedChildConvention(n)
		return n.WithTraits(n.Traits().ReplaceNamed(traits.ConventionTraitDef.Name(), want)), nil
	},
}

func joinedChildConvention(n Match) *traits.Convention {
	inputs := n.Inputs()
	def := traits.ConventionTraitDef
	acc := inputs[0].Traits().GetByName(def.Name())
	if acc == nil {
		acc = def.Default()
	}
	for _, in := range inputs[1:] {
		next := in.Traits().GetByName(def.Name())
		if next == nil {
			next = def.Default()
		}
		acc = def.Join(acc, next)
	}
	conv, _ := acc.(*traits.Convention)
	return conv
}

// DefaultRules is the representative rule set named in spec §4.3, in the
// stable order this module fires them (DESIGN.md records the rationale):
// structural simplifications (identity/merge projects, constant folding)
// run before cross-node rewrites (filter pushdown, sort-limit merge), on
// the theory that a simplified sub-tree gives the later rules a cleaner
// match surface. It carries no store-to-convention assignment; every node
// stays at the registry's default convention, exactly as before
// RulesForStores existed.
func DefaultRules() RuleSet {
	return RulesForStores(nil)
}

// RulesForStores is DefaultRules plus the convention-assignment pair
// (AssignScanConvention, PropagateConventionUpward) wired against
// storeConventions, so a planning pass can tag each Scan with its owning
// backend and keep interior nodes' convention traits in sync with their
// children (spec §4.3). A nil or empty map makes both rules inert, since
// conventionForTable never finds a match.
func RulesForStores(storeConventions map[int64]*traits.Convention) RuleSet {
	converters := traits.NewConverterRegistry()
	registered := map[string]bool{}
	for _, conv := range storeConventions {
		if registered[conv.Name] {
			continue
		}
		registered[conv.Name] = true
		converters.Register(newRetagConverter(traits.ConventionTraitDef, nil, conv))
	}
	return NewRuleSet(
		DropIdentityProject,
		MergeNestedProjects,
		FoldAlwaysTrueFilter,
		FoldAlwaysFalseFilter,
		FilterIntoJoin,
		MergeSortLimit,
		AssignScanConvention(storeConventions, converters),
		PropagateConventionUpward,
	)
}
