package expression

import (
	"fmt"
	"strings"

	"github.com/polypheny/polypheny-core-go/sql/types"
)

// Expr is the row-expression sum type: every concrete node below implements
// it. The IR is functional — no Expr is ever mutated after construction — so
// Digest is a pure function of structure and type, per the data model's
// row-expression invariants.
type Expr interface {
	// Type is the expression's declared SQL type.
	Type() *types.Type
	// Operands returns the expression's child expressions, nil for leaves.
	Operands() []Expr
	// Digest is the canonical textual identity of the expression: equal iff
	// the expressions are structurally equivalent.
	Digest() string
}

// Literal is a constant value of a declared type.
type Literal struct {
	Value interface{}
	Typ   *types.Type
}

func NewLiteral(value interface{}, typ *types.Type) *Literal {
	return &Literal{Value: value, Typ: typ}
}

func (l *Literal) Type() *types.Type { return l.Typ }
func (l *Literal) Operands() []Expr  { return nil }
func (l *Literal) Digest() string {
	return fmt.Sprintf("Literal(%v):%s", l.Value, l.Typ)
}

// IsNull reports whether this literal denotes SQL NULL.
func (l *Literal) IsNull() bool { return l.Value == nil }

// InputRef references the i-th column of the enclosing relational node's
// input row type.
type InputRef struct {
	Index int
	Typ   *types.Type
	Name  string
}

func NewInputRef(index int, typ *types.Type, name string) *InputRef {
	return &InputRef{Index: index, Typ: typ, Name: name}
}

func (r *InputRef) Type() *types.Type { return r.Typ }
func (r *InputRef) Operands() []Expr  { return nil }
func (r *InputRef) Digest() string {
	return fmt.Sprintf("InputRef(%d):%s", r.Index, r.Typ)
}

// LocalRef references a common-subexpression slot local to a single
// relational node's projection list (e.g. a window function reused by two
// output columns), distinct from InputRef which crosses relational nodes.
type LocalRef struct {
	Index int
	Typ   *types.Type
}

func NewLocalRef(index int, typ *types.Type) *LocalRef {
	return &LocalRef{Index: index, Typ: typ}
}

func (r *LocalRef) Type() *types.Type { return r.Typ }
func (r *LocalRef) Operands() []Expr  { return nil }
func (r *LocalRef) Digest() string {
	return fmt.Sprintf("LocalRef(%d):%s", r.Index, r.Typ)
}

// CorrelVariable is a reference to a correlation variable bound by an
// enclosing Correlate node (spec §4.4's "correlation-variable rebinding").
type CorrelVariable struct {
	ID  string
	Typ *types.Type
}

func NewCorrelVariable(id string, typ *types.Type) *CorrelVariable {
	return &CorrelVariable{ID: id, Typ: typ}
}

func (c *CorrelVariable) Type() *types.Type { return c.Typ }
func (c *CorrelVariable) Operands() []Expr  { return nil }
func (c *CorrelVariable) Digest() string {
	return fmt.Sprintf("CorrelVariable(%s):%s", c.ID, c.Typ)
}

// FieldAccess projects a single named field out of a struct-typed
// expression.
type FieldAccess struct {
	Struct Expr
	Field  string
	Typ    *types.Type
}

func NewFieldAccess(structExpr Expr, field string, typ *types.Type) *FieldAccess {
	return &FieldAccess{Struct: structExpr, Field: field, Typ: typ}
}

func (f *FieldAccess) Type() *types.Type { return f.Typ }
func (f *FieldAccess) Operands() []Expr  { return []Expr{f.Struct} }
func (f *FieldAccess) Digest() string {
	return fmt.Sprintf("FieldAccess(%s,%s):%s", f.Struct.Digest(), f.Field, f.Typ)
}

// Call is an application of an operator to a list of operand expressions.
// The arity predicate and the return-type inference of Op are validated at
// construction time, per the Call invariant in the data model.
type Call struct {
	Op       *Operator
	Operands_ []Expr
	Typ      *types.Type
}

// NewCall validates operand arity and infers the return type via op, per
// the "Relational node" / "Row expression" invariant that the declared type
// is always a pure function of the operator's return-type inference.
func NewCall(op *Operator, operands []Expr) (*Call, error) {
	if op.Arity != nil && !op.Arity(len(operands)) {
		return nil, fmt.Errorf("operator %s: %d operands does not satisfy arity predicate", op.Name, len(operands))
	}
	var typ *types.Type
	var err error
	if op.ReturnType != nil {
		typ, err = op.ReturnType(operands)
		if err != nil {
			return nil, err
		}
	}
	return &Call{Op: op, Operands_: operands, Typ: typ}, nil
}

// MustNewCall panics on construction error; used for operators whose return
// type inference cannot fail given well-formed operands (tests, rule
// rewrites operating on already-validated trees).
func MustNewCall(op *Operator, operands []Expr) *Call {
	c, err := NewCall(op, operands)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Call) Type() *types.Type { return c.Typ }
func (c *Call) Operands() []Expr  { return c.Operands_ }
func (c *Call) Digest() string {
	parts := make([]string, len(c.Operands_))
	for i, o := range c.Operands_ {
		parts[i] = o.Digest()
	}
	return fmt.Sprintf("Call(%s,[%s]):%s", c.Op.Name, strings.Join(parts, ","), c.Typ)
}

// WindowSpec describes a window function's partition/order/frame, kept
// minimal: the planning core only needs to carry it opaquely between the
// algebra layer and the emitters.
type WindowSpec struct {
	PartitionBy []Expr
	OrderBy     []Expr
}

// Over wraps an aggregate Call with a window specification.
type Over struct {
	Agg    *Call
	Window *WindowSpec
	Typ    *types.Type
}

func NewOver(agg *Call, window *WindowSpec) *Over {
	return &Over{Agg: agg, Window: window, Typ: agg.Type()}
}

func (o *Over) Type() *types.Type { return o.Typ }
func (o *Over) Operands() []Expr  { return []Expr{o.Agg} }
func (o *Over) Digest() string {
	return fmt.Sprintf("Over(%s):%s", o.Agg.Digest(), o.Typ)
}

// AlwaysTrue/AlwaysFalse analysis, per component design §2 "always-true /
// always-false analysis".
func AlwaysTrue(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Value == true
}

func AlwaysFalse(e Expr) bool {
	lit, ok := e.(*Literal)
	return ok && lit.Value == false
}
