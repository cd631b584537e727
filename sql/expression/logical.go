package expression

import "github.com/polypheny/polypheny-core-go/sql/types"

func booleanReturnType(operands []Expr) (*types.Type, error) {
	nullable := false
	for _, o := range operands {
		if o.Type() != nil && o.Type().Nullable {
			nullable = true
		}
	}
	return &types.Type{Family: types.Boolean, Precision: types.UnspecifiedPrecision, Nullable: nullable}, nil
}

// AndOp / OrOp / NotOp are the canonical three-valued logical connectives.
// Their NullPolicy drives sql/rowexec's translation, per spec §4.2.
var (
	AndOp = &Operator{Name: "AND", Kind: "AND", Syntax: SyntaxBinary, Arity: AtLeast(1), ReturnType: booleanReturnType, NullPolicy: PolicyAnd}
	OrOp  = &Operator{Name: "OR", Kind: "OR", Syntax: SyntaxBinary, Arity: AtLeast(1), ReturnType: booleanReturnType, NullPolicy: PolicyOr}
	NotOp = &Operator{Name: "NOT", Kind: "NOT", Syntax: SyntaxPrefix, Arity: Exactly(1), ReturnType: booleanReturnType, NullPolicy: PolicyNot}

	EqualsOp      = &Operator{Name: "=", Kind: "EQUALS", Syntax: SyntaxBinary, Arity: Exactly(2), ReturnType: booleanReturnType, NullPolicy: PolicyStrict}
	NotEqualsOp   = &Operator{Name: "<>", Kind: "NOT_EQUALS", Syntax: SyntaxBinary, Arity: Exactly(2), ReturnType: booleanReturnType, NullPolicy: PolicyStrict}
	LessThanOp    = &Operator{Name: "<", Kind: "LESS_THAN", Syntax: SyntaxBinary, Arity: Exactly(2), ReturnType: booleanReturnType, NullPolicy: PolicyStrict}
	GreaterThanOp = &Operator{Name: ">", Kind: "GREATER_THAN", Syntax: SyntaxBinary, Arity: Exactly(2), ReturnType: booleanReturnType, NullPolicy: PolicyStrict}
	IsNullOp      = &Operator{Name: "IS NULL", Kind: "IS_NULL", Syntax: SyntaxPostfix, Arity: Exactly(1), ReturnType: booleanReturnType, NullPolicy: PolicyNone}
	PlusOp        = &Operator{Name: "+", Kind: "PLUS", Syntax: SyntaxBinary, Arity: Exactly(2), NullPolicy: PolicyStrict}
)

// NewAnd builds a conjunction over operands, flattening none; nested ANDs
// stay nested.
func NewAnd(operands ...Expr) *Call { return MustNewCall(AndOp, operands) }

// NewOr builds a disjunction over operands.
func NewOr(operands ...Expr) *Call { return MustNewCall(OrOp, operands) }

// NewNot negates operand.
func NewNot(operand Expr) *Call { return MustNewCall(NotOp, []Expr{operand}) }

// NewEquals builds an equality comparison.
func NewEquals(left, right Expr) *Call { return MustNewCall(EqualsOp, []Expr{left, right}) }

// NewIsNull builds an IS NULL test.
func NewIsNull(operand Expr) *Call { return MustNewCall(IsNullOp, []Expr{operand}) }

// NewGetField is the conventional constructor name (matching the teacher's
// expression.NewGetField) for an InputRef.
func NewGetField(index int, typ *types.Type, name string, nullable bool) *InputRef {
	return NewInputRef(index, typ.WithNullable(nullable), name)
}
