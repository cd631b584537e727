package rowexec

import (
	"fmt"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// The operators below are synthetic: they never appear in the operator
// table the parser builds row expressions against (spec §6). They are the
// implementation strategy's own vocabulary — the shape the null-as
// coercion table and the ternary AND/OR algorithm build their output in
// (spec §4.2) — and are only ever constructed by this package.

func notNullBool() *types.Type {
	return &types.Type{Family: types.Boolean, Precision: types.UnspecifiedPrecision}
}

func nullableBool() *types.Type {
	return &types.Type{Family: types.Boolean, Precision: types.UnspecifiedPrecision, Nullable: true}
}

var (
	isNotNullOp = &expression.Operator{
		Name: "IS NOT NULL", Kind: "IS_NOT_NULL", Syntax: expression.SyntaxPostfix,
		Arity: expression.Exactly(1), NullPolicy: expression.PolicyNone,
		ReturnType: func(operands []expression.Expr) (*types.Type, error) { return notNullBool(), nil },
	}
	isTrueOp = &expression.Operator{
		Name: "IS TRUE", Kind: "IS_TRUE", Syntax: expression.SyntaxPostfix,
		Arity: expression.Exactly(1), NullPolicy: expression.PolicyNone,
		ReturnType: func(operands []expression.Expr) (*types.Type, error) { return notNullBool(), nil },
	}
	isNotFalseOp = &expression.Operator{
		Name: "IS NOT FALSE", Kind: "IS_NOT_FALSE", Syntax: expression.SyntaxPostfix,
		Arity: expression.Exactly(1), NullPolicy: expression.PolicyNone,
		ReturnType: func(operands []expression.Expr) (*types.Type, error) { return notNullBool(), nil },
	}
	// caseWhenOp is a 3-ary (cond, then, else) conditional; cond is always a
	// not-null boolean produced by this package's own translation.
	caseWhenOp = &expression.Operator{
		Name: "CASE_WHEN", Kind: "CASE_WHEN", Syntax: expression.SyntaxSpecial,
		Arity: expression.Exactly(3), NullPolicy: expression.PolicyNone,
		ReturnType: func(operands []expression.Expr) (*types.Type, error) { return operands[1].Type(), nil },
	}
)

func newIsNotNull(x expression.Expr) *expression.Call { return expression.MustNewCall(isNotNullOp, []expression.Expr{x}) }
func newIsTrue(x expression.Expr) *expression.Call     { return expression.MustNewCall(isTrueOp, []expression.Expr{x}) }
func newIsNotFalse(x expression.Expr) *expression.Call { return expression.MustNewCall(isNotFalseOp, []expression.Expr{x}) }

// newCaseWhen builds cond ? then : els, folding away the branch immediately
// when cond is a constant (always not-null in this package's usage).
func newCaseWhen(cond, then, els expression.Expr) expression.Expr {
	if lit, ok := cond.(*expression.Literal); ok {
		if lit.Value == true {
			return then
		}
		return els
	}
	return expression.MustNewCall(caseWhenOp, []expression.Expr{cond, then, els})
}

func trueLiteral() *expression.Literal  { return expression.NewLiteral(true, notNullBool()) }
func falseLiteral() *expression.Literal { return expression.NewLiteral(false, notNullBool()) }
func nullBoolLiteral() *expression.Literal {
	return expression.NewLiteral(nil, nullableBool())
}

// castOp builds a one-off CAST operator targeting to; used by operand
// harmonization to coerce operands to the least-restrictive common type
// (spec §4.2 "Operand harmonization").
func castOp(to *types.Type) *expression.Operator {
	return &expression.Operator{
		Name: fmt.Sprintf("CAST(%s)", to), Kind: "CAST", Syntax: expression.SyntaxSpecial,
		Arity: expression.Exactly(1), NullPolicy: expression.PolicyStrict,
		ReturnType: func(operands []expression.Expr) (*types.Type, error) { return to, nil },
	}
}
