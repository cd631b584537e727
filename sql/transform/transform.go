// Package transform implements the functional rewrite helpers the rule
// engine (sql/analyzer) builds on: bottom-up traversal and rebuild of the
// relational IR, never mutating an existing plan.Node (spec §3
// "Ownership: rule rewrites append new nodes and never mutate existing
// ones").
package transform

import "github.com/polypheny/polypheny-core-go/sql/plan"

// NodeFunc rewrites a single node, reporting whether it changed the node.
type NodeFunc func(n plan.Node) (plan.Node, bool, error)

// Node walks n bottom-up (children before parents), applying f to every
// node including the root, and rebuilds each ancestor via WithInputs when
// any child changed. It returns the (possibly new) root and whether
// anything changed anywhere in the tree.
func Node(n plan.Node, f NodeFunc) (plan.Node, bool, error) {
	children := n.Inputs()
	newChildren := make([]plan.Node, len(children))
	anyChildChanged := false

	for i, c := range children {
		newChild, changed, err := Node(c, f)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = newChild
		anyChildChanged = anyChildChanged || changed
	}

	current := n
	if anyChildChanged {
		current = n.WithInputs(newChildren)
	}

	next, changed, err := f(current)
	if err != nil {
		return nil, false, err
	}
	return next, anyChildChanged || changed, nil
}

// TopDown walks n top-down: f observes (and may replace) a node before its
// children are visited. Used by rewrites whose precondition depends on an
// ancestor's shape (e.g. filter-pushdown matching a Filter-over-Join before
// descending into the join's own children).
func TopDown(n plan.Node, f NodeFunc) (plan.Node, bool, error) {
	current, changed, err := f(n)
	if err != nil {
		return nil, false, err
	}

	children := current.Inputs()
	newChildren := make([]plan.Node, len(children))
	anyChildChanged := false
	for i, c := range children {
		newChild, childChanged, err := TopDown(c, f)
		if err != nil {
			return nil, false, err
		}
		newChildren[i] = newChild
		anyChildChanged = anyChildChanged || childChanged
	}
	if anyChildChanged {
		current = current.WithInputs(newChildren)
	}
	return current, changed || anyChildChanged, nil
}
