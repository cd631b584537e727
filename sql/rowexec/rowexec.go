// Package rowexec implements the row-expression translator (RexImpTable,
// spec §4.2): it maps each operator to an implementation strategy keyed by
// the operator's declared null policy, and lowers a row-expression tree
// into a backend-agnostic expression tree honoring an ambient "null-as"
// policy. This is the component the spec calls the "Row-Expression
// Translator" — distinct from sql/expression, which only declares the IR
// and the operator table the parser populates.
package rowexec

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
)

// NullAs is the caller's declared interpretation of a boolean-valued
// expression's possible null result (spec §4.2's "null-as policy").
type NullAs int

const (
	AsNull NullAs = iota
	AsNotPossible
	AsFalse
	AsTrue
	AsIsNull
	AsIsNotNull
)

// Negate swaps TRUE/FALSE, per the NOT rule's "negate the child's null-as
// policy (TRUE↔FALSE)"; every other policy passes through unchanged.
func (n NullAs) Negate() NullAs {
	switch n {
	case AsTrue:
		return AsFalse
	case AsFalse:
		return AsTrue
	default:
		return n
	}
}

// Translator lowers row expressions per the operator table's declared null
// policies.
type Translator struct {
	Ops *expression.Table
}

func New(ops *expression.Table) *Translator {
	return &Translator{Ops: ops}
}

// Translate lowers e under the ambient null-as policy n, per spec §4.2.
func (t *Translator) Translate(e expression.Expr, n NullAs) (expression.Expr, error) {
	switch v := e.(type) {
	case *expression.Call:
		return t.translateCall(v, n)
	default:
		return applyNullAs(e, n), nil
	}
}

func (t *Translator) translateCall(c *expression.Call, n NullAs) (expression.Expr, error) {
	switch c.Op.NullPolicy {
	case expression.PolicyStrict, expression.PolicyAny, expression.PolicySemiStrict:
		return t.translateStrict(c, n)
	case expression.PolicyAnd:
		return t.translateAnd(c, n)
	case expression.PolicyOr:
		return t.translateOr(c, n)
	case expression.PolicyNot:
		return t.translateNot(c, n)
	case expression.PolicyNone:
		return t.translateNone(c)
	default:
		return t.translateNone(c)
	}
}

// translateStrict implements STRICT/ANY/SEMI_STRICT: ANY and SEMI_STRICT
// share STRICT's propagation and differ only in when a null guard is
// omitted, which wrapNullGuard already does by skipping provably
// not-null operands (spec §4.2 "ANY... do not emit null-guards on
// already-not-null operands").
func (t *Translator) translateStrict(c *expression.Call, n NullAs) (expression.Expr, error) {
	if n == AsIsNotNull {
		translated, err := t.translateEach(c.Operands_, AsIsNotNull)
		if err != nil {
			return nil, err
		}
		return foldAnd(translated), nil
	}
	if n == AsIsNull {
		translated, err := t.translateEach(c.Operands_, AsIsNull)
		if err != nil {
			return nil, err
		}
		return foldOr(translated), nil
	}

	harmonized, _, err := Harmonize(c.Operands_)
	if err != nil {
		return nil, err
	}
	raw, err := t.translateEach(harmonized, AsNotPossible)
	if err != nil {
		return nil, err
	}
	rebuilt, err := expression.NewCall(c.Op, raw)
	if err != nil {
		return nil, err
	}
	return t.wrapNullGuard(rebuilt, c.Operands_, n)
}

// wrapNullGuard applies N's coercion to value, short-circuiting to a null
// guard over the original (pre-harmonization) operands when any of them is
// nullable.
func (t *Translator) wrapNullGuard(value expression.Expr, originalOperands []expression.Expr, n NullAs) (expression.Expr, error) {
	anyNullable := false
	var nullable []expression.Expr
	for _, o := range originalOperands {
		if o.Type() != nil && o.Type().Nullable {
			anyNullable = true
			nullable = append(nullable, o)
		}
	}
	if !anyNullable {
		return applyNullAs(value, n), nil
	}

	guardOperands, err := t.translateEach(nullable, AsIsNull)
	if err != nil {
		return nil, err
	}
	guard := foldOr(guardOperands)

	switch n {
	case AsNull:
		return newCaseWhen(guard, nullBoolLiteral(), value), nil
	case AsFalse:
		return newCaseWhen(guard, falseLiteral(), applyNullAs(value, AsFalse)), nil
	case AsTrue:
		return newCaseWhen(guard, trueLiteral(), applyNullAs(value, AsTrue)), nil
	case AsIsNull:
		return guard, nil
	case AsIsNotNull:
		return expression.NewNot(guard), nil
	default:
		return applyNullAs(value, n), nil
	}
}

func (t *Translator) translateNone(c *expression.Call) (expression.Expr, error) {
	raw, err := t.translateEach(c.Operands_, AsNotPossible)
	if err != nil {
		return nil, err
	}
	return expression.NewCall(c.Op, raw)
}

// translateAnd implements the exact AND policy table from spec §4.2:
// has_false = ¬fold_and(args under TRUE); has_null = fold_or(args under
// IS_NULL); result = false if has_false, else null if has_null, else true.
func (t *Translator) translateAnd(c *expression.Call, n NullAs) (expression.Expr, error) {
	if n == AsTrue || n == AsFalse || n == AsNotPossible {
		translated, err := t.translateEach(c.Operands_, n)
		if err != nil {
			return nil, err
		}
		return foldAnd(translated), nil
	}

	notFalseChecks, err := t.translateEach(c.Operands_, AsTrue)
	if err != nil {
		return nil, err
	}
	hasFalse := negate(foldAnd(notFalseChecks))

	nullChecks, err := t.translateEach(c.Operands_, AsIsNull)
	if err != nil {
		return nil, err
	}
	hasNull := foldOr(nullChecks)

	result := newCaseWhen(hasFalse, falseLiteral(), newCaseWhen(hasNull, nullBoolLiteral(), trueLiteral()))
	return applyNullAs(result, n), nil
}

// translateOr is AND's dual: has_true = fold_or(args under FALSE), since
// FALSE's coercion (is_true) already detects a true operand directly, with
// no negation needed (spec §4.2 "OR: symmetric to AND with TRUE/FALSE
// swapped").
func (t *Translator) translateOr(c *expression.Call, n NullAs) (expression.Expr, error) {
	if n == AsTrue || n == AsFalse || n == AsNotPossible {
		translated, err := t.translateEach(c.Operands_, n)
		if err != nil {
			return nil, err
		}
		return foldOr(translated), nil
	}

	isTrueChecks, err := t.translateEach(c.Operands_, AsFalse)
	if err != nil {
		return nil, err
	}
	hasTrue := foldOr(isTrueChecks)

	nullChecks, err := t.translateEach(c.Operands_, AsIsNull)
	if err != nil {
		return nil, err
	}
	hasNull := foldOr(nullChecks)

	result := newCaseWhen(hasTrue, trueLiteral(), newCaseWhen(hasNull, nullBoolLiteral(), falseLiteral()))
	return applyNullAs(result, n), nil
}

// negate constant-folds the negation of a not-null boolean literal, or
// wraps it in a NOT call otherwise.
func negate(v expression.Expr) expression.Expr {
	if lit, ok := v.(*expression.Literal); ok {
		return boolLit(lit.Value == false)
	}
	return expression.NewNot(v)
}

// translateNot implements NOT: negate the child's null-as policy
// (TRUE↔FALSE) and wrap with logical negation; NULL delegates to a
// ternary-negation helper since negation preserves nullness but flips
// truth.
func (t *Translator) translateNot(c *expression.Call, n NullAs) (expression.Expr, error) {
	child := c.Operands_[0]

	if n == AsIsNull || n == AsIsNotNull {
		// Negation preserves nullness: translate(NOT(x), IS_[NOT_]NULL) ==
		// translate(x, IS_[NOT_]NULL).
		return t.Translate(child, n)
	}
	if n == AsNull {
		childVal, err := t.Translate(child, AsNull)
		if err != nil {
			return nil, err
		}
		return ternaryNot(childVal), nil
	}

	childVal, err := t.Translate(child, n.Negate())
	if err != nil {
		return nil, err
	}
	return expression.NewNot(childVal), nil
}

// ternaryNot negates a boolean-or-null value: null stays null, true/false
// flip. Folds a literal operand directly; otherwise builds a guarded NOT.
func ternaryNot(v expression.Expr) expression.Expr {
	if lit, ok := v.(*expression.Literal); ok {
		if lit.IsNull() {
			return nullBoolLiteral()
		}
		return expression.NewLiteral(!lit.Value.(bool), lit.Typ)
	}
	return newCaseWhen(newIsNotNull(v), expression.NewNot(v), nullBoolLiteral())
}

func (t *Translator) translateEach(operands []expression.Expr, n NullAs) ([]expression.Expr, error) {
	out := make([]expression.Expr, len(operands))
	for i, o := range operands {
		v, err := t.Translate(o, n)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// foldAnd combines already-translated, not-null boolean operands with a
// plain (two-valued) AND, constant-folding when every operand is a
// literal.
func foldAnd(operands []expression.Expr) expression.Expr {
	allLiteral := true
	for _, o := range operands {
		if _, ok := o.(*expression.Literal); !ok {
			allLiteral = false
			break
		}
	}
	if allLiteral {
		for _, o := range operands {
			if o.(*expression.Literal).Value == false {
				return falseLiteral()
			}
		}
		return trueLiteral()
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return expression.NewAnd(operands...)
}

// foldOr is foldAnd's dual.
func foldOr(operands []expression.Expr) expression.Expr {
	allLiteral := true
	for _, o := range operands {
		if _, ok := o.(*expression.Literal); !ok {
			allLiteral = false
			break
		}
	}
	if allLiteral {
		for _, o := range operands {
			if o.(*expression.Literal).Value == true {
				return trueLiteral()
			}
		}
		return falseLiteral()
	}
	if len(operands) == 1 {
		return operands[0]
	}
	return expression.NewOr(operands...)
}

// applyNullAs is the null-as coercion table (spec §4.2), folding constant
// literals directly.
func applyNullAs(e expression.Expr, n NullAs) expression.Expr {
	if lit, ok := e.(*expression.Literal); ok {
		return applyNullAsLiteral(lit, n)
	}
	switch n {
	case AsNull, AsNotPossible:
		return e
	case AsFalse:
		return newIsTrue(e)
	case AsTrue:
		return newIsNotFalse(e)
	case AsIsNull:
		return expression.NewIsNull(e)
	case AsIsNotNull:
		return newIsNotNull(e)
	default:
		return e
	}
}

func applyNullAsLiteral(lit *expression.Literal, n NullAs) expression.Expr {
	switch n {
	case AsNull, AsNotPossible:
		return lit
	case AsFalse:
		return boolLit(lit.Value == true)
	case AsTrue:
		return boolLit(lit.Value != false)
	case AsIsNull:
		return boolLit(lit.IsNull())
	case AsIsNotNull:
		return boolLit(!lit.IsNull())
	default:
		return lit
	}
}

func boolLit(v bool) *expression.Literal {
	if v {
		return trueLiteral()
	}
	return falseLiteral()
}
