package traits

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_DefaultsVector(t *testing.T) {
	require := require.New(t)

	reg := DefaultRegistry()
	ts := reg.Defaults()

	require.Equal(NoneConvention, ts.GetByName("CONVENTION"))
	require.Equal(EmptyCollation, ts.GetByName("COLLATION"))
	require.Equal(AnyDistribution, ts.GetByName("DISTRIBUTION"))
}

func TestTraitSet_ReplaceIsFunctional(t *testing.T) {
	require := require.New(t)

	reg := DefaultRegistry()
	base := reg.Defaults()

	sql := NewConvention("SQL")
	next := base.ReplaceNamed("CONVENTION", sql)

	require.Equal(NoneConvention, base.GetByName("CONVENTION"))
	require.Equal(sql, next.GetByName("CONVENTION"))
}

func TestConvention_Satisfies(t *testing.T) {
	require := require.New(t)

	sql := NewConvention("SQL")
	require.True(sql.Satisfies(NoneConvention))
	require.True(sql.Satisfies(sql))
	require.False(sql.Satisfies(NewConvention("DOC")))
}

func TestConvention_JoinDiffers(t *testing.T) {
	require := require.New(t)

	sql := NewConvention("SQL")
	doc := NewConvention("DOC")
	require.Equal(NoneConvention, ConventionTraitDef.Join(sql, doc))
	require.Equal(sql, ConventionTraitDef.Join(sql, sql))
}

func TestCollation_SatisfiesPrefix(t *testing.T) {
	require := require.New(t)

	c := NewCollation(FieldCollation{0, Ascending}, FieldCollation{1, Descending})
	req := NewCollation(FieldCollation{0, Ascending})

	require.True(c.Satisfies(req))
	require.True(c.Satisfies(EmptyCollation))
	require.False(EmptyCollation.Satisfies(req))
}

func TestDistribution_Satisfies(t *testing.T) {
	require := require.New(t)

	h := NewHashDistribution(0, 1)
	require.True(h.Satisfies(AnyDistribution))
	require.True(h.Satisfies(NewHashDistribution(0, 1)))
	require.False(h.Satisfies(NewHashDistribution(1, 0)))
	require.False(h.Satisfies(SingletonDistribution))
}

func TestConverterRegistry_Find(t *testing.T) {
	require := require.New(t)

	reg := NewConverterRegistry()
	sql := NewConvention("SQL")

	conv := fakeConverter{def: ConventionTraitDef, from: NoneConvention, to: sql}
	reg.Register(conv)

	require.Equal(conv, reg.Find(ConventionTraitDef, NoneConvention, sql))
	require.Nil(reg.Find(ConventionTraitDef, NoneConvention, NewConvention("DOC")))
}

type fakeConverter struct {
	def      TraitDef
	from, to Trait
}

func (f fakeConverter) Def() TraitDef { return f.def }
func (f fakeConverter) CanConvert(from, to Trait) bool {
	return from == f.from && to == f.to
}
func (f fakeConverter) Convert(input Node, to Trait) (Node, bool) { return input, true }
