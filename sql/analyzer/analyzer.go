// Package analyzer implements the rule engine (spec §4.3): pattern-matched
// rewrite rules over the relational IR, a rule set with a stable rule-id
// order, and a planner that applies the first matching rule at each node,
// pass after pass, until a fixed point or the iteration bound is reached.
// Rewrites are not compared by cost: Cost is computed but does not take
// part in rule selection.
package analyzer

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/plan"
)

// Match is the sub-tree a Rule's Pattern accepted; kept as plan.Node since
// the IR's functional, content-addressed nodes are themselves a sufficient
// "rooted sub-DAG" handle (spec §4.3 "A match is a rooted sub-DAG whose
// shape satisfies the pattern").
type Match = plan.Node

// Rule is one pattern-matched rewrite: Pattern filters candidate nodes
// cheaply (by kind, typically), Precondition does the expensive structural
// check, and Apply builds the replacement sub-tree.
type Rule struct {
	// ID fixes this rule's position in the stable tie-break order (spec
	// §4.3 "if equal [cost], stable rule-id order"); callers are expected to
	// construct a RuleSet (which assigns ID = index) rather than set it by
	// hand.
	ID           int
	Name         string
	Pattern      func(Match) bool
	Precondition func(Match) bool
	Apply        func(Match) (plan.Node, error)
}

// matches reports whether r applies to n, running Pattern then
// Precondition.
func (r Rule) matches(n Match) bool {
	if r.Pattern != nil && !r.Pattern(n) {
		return false
	}
	if r.Precondition != nil && !r.Precondition(n) {
		return false
	}
	return true
}

// RuleSet is an ordered, ID-stamped list of rules.
type RuleSet []Rule

// NewRuleSet stamps every rule's ID to its position, fixing the tie-break
// order documented at spec §9's open question ("an implementer should
// define a stable rule-id order and document it"): rules fire in the order
// they are listed here; DESIGN.md records the chosen ordering.
func NewRuleSet(rules ...Rule) RuleSet {
	out := make(RuleSet, len(rules))
	for i, r := range rules {
		r.ID = i
		out[i] = r
	}
	return out
}

// ErrIterationBoundExceeded is a non-fatal planning warning (spec §4.3
// "planning terminates when the root is sealed or the iteration bound is
// hit (reported as a non-fatal warning)"); Optimize returns it alongside a
// best-effort plan rather than failing the pass.
var ErrIterationBoundExceeded = errors.NewKind("rule iteration bound %d exceeded before reaching a fixed point")

// ErrCancelled is raised when a planning pass observes its per-query
// cancel flag set (spec §5 "the orchestrator checks a per-query cancel
// flag between rule firings"; spec §7 error kind "Cancellation").
var ErrCancelled = errors.NewKind("query planning cancelled")

// Warning is a non-fatal condition surfaced by Optimize.
type Warning struct {
	Err error
}

// Planner saturates rewrites over an IR under RuleSet, stopping at a fixed
// point or IterationBound (spec §6 "rule_iteration_bound").
type Planner struct {
	Rules          RuleSet
	IterationBound int
}

func New(rules RuleSet, iterationBound int) *Planner {
	return &Planner{Rules: rules, IterationBound: iterationBound}
}

// Optimize repeatedly applies every matching rule bottom-up until no rule
// fires in a full pass (the root is "sealed", spec §4.3) or IterationBound
// passes have run. Within a pass, rules are tried in RuleSet order at each
// node, and the first applicable rule wins per node per pass — ties in
// which rule could fire are broken by that same stable order (spec §4.3).
func (p *Planner) Optimize(root plan.Node) (plan.Node, []Warning, error) {
	return p.OptimizeCancellable(root, nil)
}

// OptimizeCancellable is Optimize but checks cancel, if non-nil, between
// rule-firing passes, aborting with ErrCancelled the moment it is closed or
// signalled (spec §5). Passing a nil cancel is equivalent to Optimize.
func (p *Planner) OptimizeCancellable(root plan.Node, cancel <-chan struct{}) (plan.Node, []Warning, error) {
	current := root
	for iter := 0; iter < p.IterationBound; iter++ {
		if isCancelled(cancel) {
			return nil, nil, ErrCancelled.New()
		}
		next, changed, err := p.applyOnce(current)
		if err != nil {
			return nil, nil, err
		}
		if !changed {
			return next, nil, nil
		}
		current = next
	}
	return current, []Warning{{Err: ErrIterationBoundExceeded.New(p.IterationBound)}}, nil
}

func isCancelled(cancel <-chan struct{}) bool {
	if cancel == nil {
		return false
	}
	select {
	case <-cancel:
		return true
	default:
		return false
	}
}

// applyOnce runs one bottom-up pass, applying the first matching rule at
// each node.
func (p *Planner) applyOnce(root plan.Node) (plan.Node, bool, error) {
	return rewriteBottomUp(root, p.Rules)
}

func rewriteBottomUp(n plan.Node, rules RuleSet) (plan.Node, bool, error) {
	children := n.Inputs()
	newChildren := make([]plan.Node, len(children))
	anyChanged := false
	for i, c := range children {
		newChild, changed, err := rewriteBottomUp(c, rules)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = newChild
		anyChanged = anyChanged || changed
	}

	current := n
	if anyChanged {
		current = n.WithInputs(newChildren)
	}

	for _, r := range rules {
		if !r.matches(current) {
			continue
		}
		rewritten, err := r.Apply(current)
		if err != nil {
			return nil, false, err
		}
		if rewritten.Digest() != current.Digest() {
			return rewritten, true, nil
		}
	}
	return current, anyChanged, nil
}
