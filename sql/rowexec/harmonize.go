package rowexec

import (
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// ErrNoCommonType is raised when operand harmonization cannot find a single
// least-restrictive type across a call's operands (spec §7 "Type: no
// common type during harmonization").
var ErrNoCommonType = errors.NewKind("no common type across operand types: %v")

var numericRank = map[types.Family]int{
	types.TinyInt:  0,
	types.SmallInt: 1,
	types.Integer:  2,
	types.BigInt:   3,
	types.Decimal:  4,
	types.Float:    5,
	types.Double:   6,
}

var characterRank = map[types.Family]int{
	types.Char:    0,
	types.VarChar: 1,
	types.Text:    2,
}

// LeastRestrictiveType computes the single common type across operandTypes,
// normalizing to SQL-family types: the widest numeric family if all
// operands are numeric, the widest character family if all are character,
// or the shared family verbatim if every operand already agrees. Overall
// nullability is "nullable iff any operand was nullable" (spec §4.2).
func LeastRestrictiveType(operandTypes []*types.Type) (*types.Type, error) {
	if len(operandTypes) == 0 {
		return nil, ErrNoCommonType.New(operandTypes)
	}

	nullable := false
	allNumeric, allCharacter, allSameFamily := true, true, true
	first := operandTypes[0].Family
	bestNumeric, bestCharacter := operandTypes[0], operandTypes[0]

	for _, t := range operandTypes {
		if t.Nullable {
			nullable = true
		}
		if t.Family != first {
			allSameFamily = false
		}
		if !t.Family.IsNumeric() {
			allNumeric = false
		} else if numericRank[t.Family] > numericRank[bestNumeric.Family] {
			bestNumeric = t
		}
		if !t.Family.IsCharacter() {
			allCharacter = false
		} else if characterRank[t.Family] > characterRank[bestCharacter.Family] {
			bestCharacter = t
		}
	}

	switch {
	case allSameFamily:
		return operandTypes[0].WithNullable(nullable), nil
	case allNumeric:
		return bestNumeric.WithNullable(nullable), nil
	case allCharacter:
		return bestCharacter.WithNullable(nullable), nil
	default:
		return nil, ErrNoCommonType.New(operandTypes)
	}
}

// Harmonize coerces every operand to the least-restrictive common type
// across operands, wrapping any operand whose declared type differs in a
// CAST. It returns the coerced operand list and the common type.
func Harmonize(operands []expression.Expr) ([]expression.Expr, *types.Type, error) {
	operandTypes := make([]*types.Type, len(operands))
	for i, o := range operands {
		operandTypes[i] = o.Type()
	}
	common, err := LeastRestrictiveType(operandTypes)
	if err != nil {
		return nil, nil, err
	}

	out := make([]expression.Expr, len(operands))
	for i, o := range operands {
		if sameType(o.Type(), common) {
			out[i] = o
		} else {
			out[i] = expression.MustNewCall(castOp(common), []expression.Expr{o})
		}
	}
	return out, common, nil
}

func sameType(a, b *types.Type) bool {
	return a.Family == b.Family && a.Precision == b.Precision && a.Scale == b.Scale && a.Nullable == b.Nullable
}
