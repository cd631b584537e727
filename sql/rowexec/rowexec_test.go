package rowexec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func boolLiteral(v interface{}) *expression.Literal {
	return expression.NewLiteral(v, &types.Type{Family: types.Boolean, Nullable: true})
}

func asBool(t *testing.T, e expression.Expr) interface{} {
	t.Helper()
	lit, ok := e.(*expression.Literal)
	require.True(t, ok, "expected a folded literal, got %T", e)
	return lit.Value
}

// TestTranslateAnd_AgreesWithEvalConstBool is the concrete AND scenario from
// spec §8: AND(TRUE, NULL) under NULL -> NULL; under FALSE -> FALSE; under
// TRUE -> TRUE.
func TestTranslateAnd_AgreesWithEvalConstBool(t *testing.T) {
	require := require.New(t)
	tr := New(expression.NewTable())

	and := expression.NewAnd(boolLiteral(true), boolLiteral(nil))

	got, err := tr.Translate(and, AsNull)
	require.NoError(err)
	require.Nil(asBool(t, got))

	got, err = tr.Translate(and, AsFalse)
	require.NoError(err)
	require.Equal(false, asBool(t, got))

	got, err = tr.Translate(and, AsTrue)
	require.NoError(err)
	require.Equal(true, asBool(t, got))
}

func TestTranslateAnd_FullTruthTable(t *testing.T) {
	tr := New(expression.NewTable())

	cases := []struct {
		left, right interface{}
		expected    interface{}
	}{
		{true, false, false},
		{true, nil, nil},
		{false, true, false},
		{nil, true, nil},
		{false, nil, false},
		{nil, false, false},
		{true, true, true},
		{false, false, false},
		{nil, nil, nil},
	}
	for _, c := range cases {
		and := expression.NewAnd(boolLiteral(c.left), boolLiteral(c.right))
		got, err := tr.Translate(and, AsNull)
		require.NoError(t, err)
		require.Equal(t, c.expected, asBool(t, got))
	}
}

func TestTranslateOr_FullTruthTable(t *testing.T) {
	tr := New(expression.NewTable())

	cases := []struct {
		left, right interface{}
		expected    interface{}
	}{
		{true, false, true},
		{nil, true, true},
		{nil, false, nil},
		{false, true, true},
		{true, nil, true},
		{false, nil, nil},
		{true, true, true},
		{false, false, false},
		{nil, nil, nil},
	}
	for _, c := range cases {
		or := expression.NewOr(boolLiteral(c.left), boolLiteral(c.right))
		got, err := tr.Translate(or, AsNull)
		require.NoError(t, err)
		require.Equal(t, c.expected, asBool(t, got))
	}
}

func TestTranslateAnd_IsNullIsNotNullCoercion(t *testing.T) {
	require := require.New(t)
	tr := New(expression.NewTable())

	and := expression.NewAnd(boolLiteral(true), boolLiteral(nil))

	isNull, err := tr.Translate(and, AsIsNull)
	require.NoError(err)
	require.Equal(true, asBool(t, isNull))

	isNotNull, err := tr.Translate(and, AsIsNotNull)
	require.NoError(err)
	require.Equal(false, asBool(t, isNotNull))
}

func TestTranslateNot_NullDelegatesToTernaryNegation(t *testing.T) {
	require := require.New(t)
	tr := New(expression.NewTable())

	got, err := tr.Translate(expression.NewNot(boolLiteral(true)), AsNull)
	require.NoError(err)
	require.Equal(false, asBool(t, got))

	got, err = tr.Translate(expression.NewNot(boolLiteral(nil)), AsNull)
	require.NoError(err)
	require.Nil(asBool(t, got))
}

func TestTranslateNot_PreservesNullnessUnderIsNull(t *testing.T) {
	require := require.New(t)
	tr := New(expression.NewTable())

	got, err := tr.Translate(expression.NewNot(boolLiteral(nil)), AsIsNull)
	require.NoError(err)
	require.Equal(true, asBool(t, got))

	got, err = tr.Translate(expression.NewNot(boolLiteral(false)), AsIsNull)
	require.NoError(err)
	require.Equal(false, asBool(t, got))
}

func TestTranslateStrict_IsNullFoldsOr(t *testing.T) {
	require := require.New(t)
	tr := New(expression.NewTable())

	left := expression.NewGetField(0, &types.Type{Family: types.Integer, Nullable: true}, "a", true)
	right := expression.NewLiteral(int64(1), &types.Type{Family: types.Integer})
	eq := expression.NewEquals(left, right)

	translated, err := tr.Translate(eq, AsIsNull)
	require.NoError(err)
	// left is nullable, right is not: translate(left, IS_NULL) OR translate(right, IS_NULL).
	call, ok := translated.(*expression.Call)
	require.True(ok)
	require.Equal("OR", call.Op.Name)
}

func TestHarmonize_WidensToCommonNumericType(t *testing.T) {
	require := require.New(t)

	a := expression.NewLiteral(int32(1), &types.Type{Family: types.Integer})
	b := expression.NewLiteral(int64(2), &types.Type{Family: types.BigInt})

	coerced, common, err := Harmonize([]expression.Expr{a, b})
	require.NoError(err)
	require.Equal(types.BigInt, common.Family)
	require.Equal(a, coerced[0].(*expression.Call).Operands()[0])
	require.Equal(b, coerced[1])
}

func TestHarmonize_NoCommonTypeErrors(t *testing.T) {
	require := require.New(t)

	a := expression.NewLiteral(int64(1), &types.Type{Family: types.BigInt})
	b := expression.NewLiteral("x", &types.Type{Family: types.VarChar})

	_, _, err := Harmonize([]expression.Expr{a, b})
	require.Error(err)
	require.True(ErrNoCommonType.Is(err))
}

func TestLeastRestrictiveType_NullablePropagates(t *testing.T) {
	require := require.New(t)

	a := &types.Type{Family: types.Integer, Nullable: false}
	b := &types.Type{Family: types.Integer, Nullable: true}

	common, err := LeastRestrictiveType([]*types.Type{a, b})
	require.NoError(err)
	require.True(common.Nullable)
}
