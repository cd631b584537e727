package plan_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func intType() *types.Type { return &types.Type{Family: types.Integer} }

func testRegistry() *traits.Registry { return traits.DefaultRegistry() }

func testTable(name string) *catalog.Table {
	return &catalog.Table{
		ID:     1,
		Schema: "public",
		Name:   name,
		Kind:   catalog.TableKindTable,
		Columns: []catalog.Column{
			{ID: 1, Name: "a", Type: intType(), PrimaryKey: true},
			{ID: 2, Name: "b", Type: intType()},
		},
	}
}

func TestScan_RowTypeFromTableColumns(t *testing.T) {
	require := require.New(t)

	tbl := testTable("T")
	s := plan.NewScan(tbl, testRegistry())

	require.Equal(plan.KindScan, s.Kind())
	require.Len(s.RowType().FieldList, 2)
	require.Equal("a", s.RowType().FieldList[0].Name)
	require.Empty(s.Inputs())
}

func TestScan_DigestStableAcrossConstruction(t *testing.T) {
	require := require.New(t)

	tbl := testTable("T")
	reg := testRegistry()
	s1 := plan.NewScan(tbl, reg)
	s2 := plan.NewScan(tbl, reg)

	require.Equal(s1.Digest(), s2.Digest())
}

func TestScan_DigestChangesWithTraits(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	s := plan.NewScan(testTable("T"), reg)
	mongo := traits.NewConvention("MONGO")
	retagged := s.WithTraits(s.Traits().ReplaceNamed(traits.ConventionTraitDef.Name(), mongo))

	require.NotEqual(s.Digest(), retagged.Digest())
}

func TestFilter_PreservesInputRowType(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("T"), testRegistry())
	cond := expression.NewIsNull(expression.NewGetField(0, intType(), "a", false))
	f := plan.NewFilter(cond, s)

	require.Equal(s.RowType(), f.RowType())
	require.Equal(plan.KindFilter, f.Kind())
}

func TestFilter_WithInputsRejectsWrongArity(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("T"), testRegistry())
	cond := expression.NewIsNull(expression.NewGetField(0, intType(), "a", false))
	f := plan.NewFilter(cond, s)

	require.Panics(func() { f.WithInputs(nil) })
}

func TestProject_IsIdentity(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("T"), testRegistry())
	child := s.RowType()

	identity := []expression.Expr{
		expression.NewGetField(0, child.FieldList[0].Type, "a", false),
		expression.NewGetField(1, child.FieldList[1].Type, "b", false),
	}
	p := plan.NewProject(identity, []string{"a", "b"}, s)
	require.True(p.IsIdentity())

	reordered := []expression.Expr{
		expression.NewGetField(1, child.FieldList[1].Type, "b", false),
		expression.NewGetField(0, child.FieldList[0].Type, "a", false),
	}
	p2 := plan.NewProject(reordered, []string{"b", "a"}, s)
	require.False(p2.IsIdentity())
}

func TestProject_RowTypeFromExpressions(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("T"), testRegistry())
	exprs := []expression.Expr{expression.NewGetField(0, intType(), "a", false)}
	p := plan.NewProject(exprs, []string{"renamed"}, s)

	require.Len(p.RowType().FieldList, 1)
	require.Equal("renamed", p.RowType().FieldList[0].Name)
}

func TestJoin_InnerRowTypeConcatenatesInputs(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	left := plan.NewScan(testTable("L"), reg)
	right := plan.NewScan(testTable("R"), reg)
	cond := expression.NewEquals(
		expression.NewGetField(0, intType(), "a", false),
		expression.NewGetField(2, intType(), "a", false),
	)
	j := plan.NewJoin(plan.InnerJoin, cond, left, right)

	require.Len(j.RowType().FieldList, 4)
	require.Equal(2, j.LeftFieldCount())
	require.False(j.RowType().FieldList[0].Type.Nullable)
}

func TestJoin_LeftOuterMakesRightSideNullable(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	left := plan.NewScan(testTable("L"), reg)
	right := plan.NewScan(testTable("R"), reg)
	j := plan.NewJoin(plan.LeftJoin, expression.NewLiteral(true, &types.Type{Family: types.Boolean}), left, right)

	right0 := j.RowType().FieldList[2]
	require.True(right0.Type.Nullable)
	left0 := j.RowType().FieldList[0]
	require.False(left0.Type.Nullable)
}

func TestNewCrossJoin_IsAlwaysTrueInnerJoin(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	left := plan.NewScan(testTable("L"), reg)
	right := plan.NewScan(testTable("R"), reg)
	j := plan.NewCrossJoin(left, right)

	require.Equal(plan.CrossJoin, j.Type)
	require.True(expression.AlwaysTrue(j.Condition))
}

func TestSemiJoin_RowTypeIsLeftOnly(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	left := plan.NewScan(testTable("L"), reg)
	right := plan.NewScan(testTable("R"), reg)
	cond := expression.NewEquals(
		expression.NewGetField(0, intType(), "a", false),
		expression.NewGetField(2, intType(), "a", false),
	)
	sj := plan.NewSemiJoin(cond, left, right, false)

	require.Equal(left.RowType(), sj.RowType())
	require.False(sj.Anti)
}

func TestCorrelate_RowTypeFollowsJoinType(t *testing.T) {
	require := require.New(t)

	reg := testRegistry()
	left := plan.NewScan(testTable("L"), reg)
	right := plan.NewScan(testTable("R"), reg)
	c := plan.NewCorrelate("$cor0", []int{0}, plan.LeftJoin, left, right)

	require.Len(c.RowType().FieldList, 4)
	require.True(c.RowType().FieldList[2].Type.Nullable)
}
