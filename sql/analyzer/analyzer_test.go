package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/analyzer"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func intType() *types.Type { return &types.Type{Family: types.Integer} }

func testTable(name string) *catalog.Table {
	return &catalog.Table{
		ID: 1, Schema: "public", Name: name, Kind: catalog.TableKindTable,
		Columns: []catalog.Column{
			{ID: 1, Name: "a", Type: intType(), PrimaryKey: true},
			{ID: 2, Name: "b", Type: intType()},
		},
	}
}

func TestOptimize_DropsIdentityProject(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	s := plan.NewScan(testTable("T"), reg)
	identity := []expression.Expr{
		expression.NewGetField(0, intType(), "a", false),
		expression.NewGetField(1, intType(), "b", false),
	}
	p := plan.NewProject(identity, []string{"a", "b"}, s)

	planner := analyzer.New(analyzer.NewRuleSet(analyzer.DropIdentityProject), 10)
	result, warnings, err := planner.Optimize(p)

	require.NoError(err)
	require.Empty(warnings)
	require.Equal(plan.KindScan, result.Kind())
	require.Equal(s.Digest(), result.Digest())
}

func TestOptimize_FoldsAlwaysTrueFilter(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	s := plan.NewScan(testTable("T"), reg)
	f := plan.NewFilter(expression.NewLiteral(true, &types.Type{Family: types.Boolean}), s)

	planner := analyzer.New(analyzer.DefaultRules(), 10)
	result, _, err := planner.Optimize(f)

	require.NoError(err)
	require.Equal(s.Digest(), result.Digest())
}

func TestOptimize_FoldsAlwaysFalseFilterToEmptyValues(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	s := plan.NewScan(testTable("T"), reg)
	f := plan.NewFilter(expression.NewLiteral(false, &types.Type{Family: types.Boolean}), s)

	planner := analyzer.New(analyzer.DefaultRules(), 10)
	result, _, err := planner.Optimize(f)

	require.NoError(err)
	require.Equal(plan.KindValues, result.Kind())
	require.Equal(s.RowType(), result.RowType())
}

func TestOptimize_PushesFilterIntoInnerJoin(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	l := plan.NewScan(testTable("L"), reg)
	r := plan.NewScan(testTable("R"), reg)
	j := plan.NewJoin(plan.InnerJoin, expression.NewLiteral(true, &types.Type{Family: types.Boolean}), l, r)
	pred := expression.NewEquals(
		expression.NewGetField(0, intType(), "a", false),
		expression.NewGetField(2, intType(), "a", false),
	)
	f := plan.NewFilter(pred, j)

	planner := analyzer.New(analyzer.NewRuleSet(analyzer.FilterIntoJoin), 10)
	result, _, err := planner.Optimize(f)

	require.NoError(err)
	require.Equal(plan.KindJoin, result.Kind())
	merged := result.(*plan.Join)
	call, ok := merged.Condition.(*expression.Call)
	require.True(ok)
	require.Equal("AND", call.Op.Name)
}

func TestOptimize_MergesSortLimit(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	s := plan.NewScan(testTable("T"), reg)
	inner := plan.NewSort(nil, nil, expression.NewLiteral(int64(100), &types.Type{Family: types.BigInt}), s)
	outer := plan.NewSort([]plan.FieldCollation{{Index: 0, Dir: plan.Ascending}}, nil, nil, inner)

	planner := analyzer.New(analyzer.NewRuleSet(analyzer.MergeSortLimit), 10)
	result, _, err := planner.Optimize(outer)

	require.NoError(err)
	require.Equal(plan.KindSort, result.Kind())
	merged := result.(*plan.Sort)
	require.Equal(s.Digest(), merged.Inputs()[0].Digest())
	require.NotNil(merged.Fetch)
}

func TestOptimize_AssignsScanConventionAndPropagatesItToAFilterAbove(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	tbl := testTable("T")
	tbl.Placements = []catalog.Placement{{StoreID: 7, TableID: tbl.ID, ColumnID: 1}}
	s := plan.NewScan(tbl, reg)
	f := plan.NewFilter(expression.NewIsNull(expression.NewGetField(0, intType(), "a", false)), s)

	mongo := traits.NewConvention("MONGO")
	planner := analyzer.New(analyzer.RulesForStores(map[int64]*traits.Convention{7: mongo}), 10)
	result, _, err := planner.Optimize(f)

	require.NoError(err)
	conv, ok := result.Traits().GetByName(traits.ConventionTraitDef.Name()).(*traits.Convention)
	require.True(ok)
	require.Equal("MONGO", conv.Name)
}

func TestOptimize_ReportsIterationBoundExceeded(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	s := plan.NewScan(testTable("T"), reg)

	// A rule that always "fires" by rebuilding an equal node never reaches a
	// fixed point under applyOnce's digest check... instead force exhaustion
	// with a rule whose Apply always returns a structurally different node by
	// wrapping with an ever-growing Project chain.
	growing := analyzer.Rule{
		Name:    "test/always-wrap",
		Pattern: func(n analyzer.Match) bool { return n.Kind() == plan.KindScan },
		Apply: func(n analyzer.Match) (plan.Node, error) {
			exprs := []expression.Expr{expression.NewGetField(0, intType(), "a", false)}
			return plan.NewProject(exprs, []string{"a"}, n), nil
		},
	}

	planner := analyzer.New(analyzer.NewRuleSet(growing), 3)
	_, warnings, err := planner.Optimize(s)

	require.NoError(err)
	require.NotEmpty(warnings)
}
