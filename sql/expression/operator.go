// Package expression implements the row-expression (scalar) IR: an immutable
// sum type over {Literal, InputRef, LocalRef, Call, CorrelVariable,
// FieldAccess, Over}, per the data model's "Row expression" entry.
package expression

import (
	"fmt"

	"github.com/polypheny/polypheny-core-go/internal/similartext"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// NullPolicy classifies how an operator's implementor propagates SQL NULL,
// per the row-expression translator's contract (spec §4.2).
type NullPolicy int

const (
	PolicyNone NullPolicy = iota
	PolicyStrict
	PolicyAny
	PolicyAnd
	PolicyOr
	PolicyNot
	PolicySemiStrict
)

func (p NullPolicy) String() string {
	switch p {
	case PolicyStrict:
		return "STRICT"
	case PolicyAny:
		return "ANY"
	case PolicyAnd:
		return "AND"
	case PolicyOr:
		return "OR"
	case PolicyNot:
		return "NOT"
	case PolicySemiStrict:
		return "SEMI_STRICT"
	default:
		return "NONE"
	}
}

// Syntax is the call-site shape an operator renders as (used by emitters).
type Syntax int

const (
	SyntaxFunction Syntax = iota
	SyntaxBinary
	SyntaxPrefix
	SyntaxPostfix
	SyntaxSpecial
)

// ArityPredicate reports whether n operands is an acceptable arity for an
// operator.
type ArityPredicate func(n int) bool

// Exactly builds an ArityPredicate requiring exactly n operands.
func Exactly(n int) ArityPredicate {
	return func(got int) bool { return got == n }
}

// AtLeast builds an ArityPredicate requiring at least n operands.
func AtLeast(n int) ArityPredicate {
	return func(got int) bool { return got >= n }
}

// Between builds an ArityPredicate requiring lo..hi operands inclusive.
func Between(lo, hi int) ArityPredicate {
	return func(got int) bool { return got >= lo && got <= hi }
}

// ReturnTypeInference computes a Call's result type from its operand types.
type ReturnTypeInference func(operands []Expr) (*types.Type, error)

// Operator is the operator-table descriptor from spec §6: "a registry
// mapping operator name -> descriptor { name, kind, syntax, arity predicate,
// return-type inference, null semantics }".
type Operator struct {
	Name       string
	Kind       string
	Syntax     Syntax
	Arity      ArityPredicate
	ReturnType ReturnTypeInference
	NullPolicy NullPolicy
}

// Table is the operator table the orchestrator injects (spec §6): callers
// must supply every operator used by constructed row expressions.
type Table struct {
	byName map[string]*Operator
}

// NewTable builds an empty operator table.
func NewTable() *Table {
	return &Table{byName: make(map[string]*Operator)}
}

// Register adds op to the table, keyed by its name.
func (t *Table) Register(op *Operator) {
	t.byName[op.Name] = op
}

// Lookup returns the operator registered under name, or nil.
func (t *Table) Lookup(name string) *Operator {
	return t.byName[name]
}

// LookupOrSuggest is Lookup but returns an error naming the closest
// registered operator name when name isn't found, so a caller supplying an
// operator table that's missing an entry (spec §6: "Callers must supply
// every operator used by constructed row expressions") gets an actionable
// message instead of a silent nil.
func (t *Table) LookupOrSuggest(name string) (*Operator, error) {
	if op := t.byName[name]; op != nil {
		return op, nil
	}
	names := make([]string, 0, len(t.byName))
	for n := range t.byName {
		names = append(names, n)
	}
	return nil, fmt.Errorf("expression: unknown operator %q%s", name, similartext.Find(names, name))
}

// All returns every registered operator, in no particular order.
func (t *Table) All() []*Operator {
	out := make([]*Operator, 0, len(t.byName))
	for _, op := range t.byName {
		out = append(out, op)
	}
	return out
}
