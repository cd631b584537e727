package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func dayToSecond(fracPrecision int) *IntervalQualifier {
	end := Second
	return NewIntervalQualifier(Day, &end, UnspecifiedPrecision, fracPrecision, 0)
}

func yearQualifier(startPrecision int) *IntervalQualifier {
	return NewIntervalQualifier(Year, nil, startPrecision, UnspecifiedPrecision, 0)
}

func TestValidateIntervalLiteral_DayToSecondWithFraction(t *testing.T) {
	require := require.New(t)

	v, err := ValidateIntervalLiteral("1 2:3:4.567", dayToSecond(3))
	require.NoError(err)
	require.Equal(1, v.Sign)
	require.Equal([]int{1, 2, 3, 4, 567}, v.Fields)
}

func TestValidateIntervalLiteral_Sign(t *testing.T) {
	require := require.New(t)

	v, err := ValidateIntervalLiteral("-10", yearQualifier(2))
	require.NoError(err)
	require.Equal(-1, v.Sign)
	require.Equal([]int{10, 0}, v.Fields)
}

func TestValidateIntervalLiteral_RangeError(t *testing.T) {
	require := require.New(t)

	_, err := ValidateIntervalLiteral("100", yearQualifier(2))
	require.Error(err)
	require.True(ErrFieldExceedsPrecision.Is(err))
}

func TestValidateIntervalLiteral_EmptyIsUnsupported(t *testing.T) {
	require := require.New(t)

	_, err := ValidateIntervalLiteral("   ", yearQualifier(2))
	require.Error(err)
	require.True(ErrUnsupportedIntervalLiteral.Is(err))
}

func TestValidateIntervalLiteral_PatternMismatchIsUnsupported(t *testing.T) {
	require := require.New(t)

	_, err := ValidateIntervalLiteral("1x2", dayToSecond(3))
	require.Error(err)
	require.True(ErrUnsupportedIntervalLiteral.Is(err))
}

func TestValidateIntervalLiteral_MinuteToSecond(t *testing.T) {
	require := require.New(t)

	end := Second
	q := NewIntervalQualifier(Minute, &end, UnspecifiedPrecision, 0, 0)
	v, err := ValidateIntervalLiteral("59:59", q)
	require.NoError(err)
	require.Equal([]int{0, 0, 59, 59, 0}, v.Fields)
}

func TestValidateIntervalLiteral_SecondaryFieldOutOfRange(t *testing.T) {
	require := require.New(t)

	end := Minute
	q := NewIntervalQualifier(Hour, &end, UnspecifiedPrecision, UnspecifiedPrecision, 0)
	_, err := ValidateIntervalLiteral("1:60", q)
	require.Error(err)
	require.True(ErrFieldExceedsPrecision.Is(err))
}

func TestIntervalQualifier_CanonicalFormClearsEqualEndUnit(t *testing.T) {
	require := require.New(t)

	y := Year
	q := NewIntervalQualifier(Year, &y, UnspecifiedPrecision, UnspecifiedPrecision, 0)
	require.Nil(q.EndUnit)
}

func TestIntervalQualifier_ValidatePairRejectsUnenumeratedCombination(t *testing.T) {
	require := require.New(t)

	end := Hour
	q := NewIntervalQualifier(Year, &end, UnspecifiedPrecision, UnspecifiedPrecision, 0)
	require.False(q.ValidatePair())

	_, err := ValidateIntervalLiteral("1", q)
	require.True(ErrUnsupportedIntervalLiteral.Is(err))
}
