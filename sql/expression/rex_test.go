package expression

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/sql/types"
)

func TestDigest_RepeatedConstructionYieldsEqualDigests(t *testing.T) {
	require := require.New(t)

	intType := &types.Type{Family: types.Integer, Precision: types.UnspecifiedPrecision}

	build := func() Expr {
		return NewEquals(
			NewInputRef(0, intType, "a"),
			NewLiteral(int32(5), intType),
		)
	}

	require.Equal(build().Digest(), build().Digest())
}

func TestDigest_StructuralDifferenceChangesDigest(t *testing.T) {
	require := require.New(t)
	intType := &types.Type{Family: types.Integer, Precision: types.UnspecifiedPrecision}

	a := NewEquals(NewInputRef(0, intType, "a"), NewLiteral(int32(5), intType))
	b := NewEquals(NewInputRef(1, intType, "a"), NewLiteral(int32(5), intType))

	require.NotEqual(a.Digest(), b.Digest())
}

func TestCall_ArityValidation(t *testing.T) {
	require := require.New(t)
	intType := &types.Type{Family: types.Integer, Precision: types.UnspecifiedPrecision}

	_, err := NewCall(NotOp, []Expr{NewLiteral(true, intType), NewLiteral(false, intType)})
	require.Error(err)
}

func TestOperatorTable_RegisterLookup(t *testing.T) {
	require := require.New(t)

	tbl := NewTable()
	tbl.Register(AndOp)
	tbl.Register(OrOp)

	require.Equal(AndOp, tbl.Lookup("AND"))
	require.Nil(tbl.Lookup("XOR"))
	require.Len(tbl.All(), 2)

	op, err := tbl.LookupOrSuggest("AND")
	require.NoError(err)
	require.Equal(AndOp, op)

	_, err = tbl.LookupOrSuggest("AN")
	require.Error(err)
	require.Contains(err.Error(), "AND")
}
