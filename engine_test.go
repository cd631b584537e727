package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	core "github.com/polypheny/polypheny-core-go"
	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/config"
	"github.com/polypheny/polypheny-core-go/sql/analyzer"
	"github.com/polypheny/polypheny-core-go/sql/docemit"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/sqlemit"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func engineTestTable() *catalog.Table {
	return &catalog.Table{
		ID: 1, Schema: "public", Name: "people",
		Columns: []catalog.Column{
			{ID: 1, Name: "a", Type: &types.Type{Family: types.Integer}},
			{ID: 2, Name: "b", Type: &types.Type{Family: types.Integer}},
		},
	}
}

func sqlAdapter() *core.Adapter {
	return &core.Adapter{Convention: traits.NoneConvention, SQL: sqlemit.New(sqlemit.ANSIDialect{})}
}

func docAdapter() *core.Adapter {
	return &core.Adapter{Convention: traits.NoneConvention, Document: docemit.New()}
}

// storeScan builds a single-column Scan over a table placed on storeID, so
// analyzer.RulesForStores has a placement to key a convention assignment
// off of.
func storeScan(reg *traits.Registry, storeID int64, name string) *plan.Scan {
	tbl := &catalog.Table{
		ID:      storeID,
		Schema:  "public",
		Name:    name,
		Columns: []catalog.Column{{ID: 1, Name: "a", Type: &types.Type{Family: types.Integer}}},
		Placements: []catalog.Placement{
			{StoreID: storeID, TableID: storeID, ColumnID: 1},
		},
	}
	return plan.NewScan(tbl, reg)
}

func TestPlan_EmitsSQLTextThroughTheRegisteredAdapter(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	scan := plan.NewScan(engineTestTable(), reg)
	identity := []expression.Expr{
		expression.NewGetField(0, &types.Type{Family: types.Integer}, "a", false),
		expression.NewGetField(1, &types.Type{Family: types.Integer}, "b", false),
	}
	root := plan.NewProject(identity, []string{"a", "b"}, scan)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.DefaultRules(), []*core.Adapter{sqlAdapter()}, config.Default())

	out, warnings, err := eng.Plan(1, root)
	require.NoError(err)
	require.Empty(warnings)
	sqlText, ok := out.(string)
	require.True(ok)
	require.Contains(sqlText, "SELECT")
	require.Contains(sqlText, "people")
}

func TestPlan_ReturnsStagesForADocumentAdapter(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	scan := plan.NewScan(engineTestTable(), reg)
	cond := expression.NewEquals(
		expression.NewGetField(0, &types.Type{Family: types.Integer}, "a", false),
		expression.NewLiteral(int64(1), &types.Type{Family: types.Integer}),
	)
	root := plan.NewFilter(cond, scan)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.DefaultRules(), []*core.Adapter{docAdapter()}, config.Default())

	out, _, err := eng.Plan(2, root)
	require.NoError(err)
	stages, ok := out.([]docemit.Stage)
	require.True(ok)
	require.Len(stages, 1)
	require.Equal("$match", stages[0][0].Key)
}

func TestPlan_UnreachableConventionReportsErrNoAdapter(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	scan := plan.NewScan(engineTestTable(), reg)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.DefaultRules(), nil, config.Default())

	_, _, err := eng.Plan(3, scan)
	require.Error(err)
	require.True(core.ErrNoAdapter.Is(err))
}

func TestPlan_RejectsAStalePlanAfterAVersionBump(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	scan := plan.NewScan(engineTestTable(), reg)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.NewRuleSet(), []*core.Adapter{sqlAdapter()}, config.Default())
	eng.BumpVersion()

	_, _, err := eng.Plan(4, scan)
	require.Error(err)
	require.True(core.ErrStalePlan.Is(err))
}

func TestPlanModify_EmitsAnInsertStatement(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	rowType := plan.NewRowType(plan.Field("a", &types.Type{Family: types.Integer}), plan.Field("b", &types.Type{Family: types.Integer}))
	tuples := [][]expression.Expr{
		{expression.NewLiteral(int64(1), &types.Type{Family: types.Integer}), expression.NewLiteral(int64(2), &types.Type{Family: types.Integer})},
	}
	values := plan.NewValues(rowType, tuples, reg)
	modify := plan.NewTableModify(engineTestTable(), plan.Insert, nil, nil, values)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.NewRuleSet(), []*core.Adapter{sqlAdapter()}, config.Default())

	out, _, err := eng.PlanModify(5, modify)
	require.NoError(err)
	stmt, ok := out.(string)
	require.True(ok)
	require.Contains(stmt, "INSERT")
}

func TestPlan_AssignsAScansConventionFromItsStorePlacement(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	relational := traits.NewConvention("RELATIONAL")
	scan := storeScan(reg, 10, "orders")

	eng := core.New(nil, expression.NewTable(), reg, analyzer.RulesForStores(map[int64]*traits.Convention{10: relational}),
		[]*core.Adapter{{Convention: relational, SQL: sqlemit.New(sqlemit.ANSIDialect{})}}, config.Default())

	out, _, err := eng.Plan(6, scan)
	require.NoError(err)
	sqlText, ok := out.(string)
	require.True(ok)
	require.Contains(sqlText, "orders")
}

// TestPlan_AJoinSpanningTwoStoreConventionsHasNoAdapterToClaimTheRoot plans
// a tree spanning two adapters: a Scan placed on a relational store joined
// to a Scan placed on a document store. AssignScanConvention tags each
// leaf correctly, but since this module doesn't split a tree into maximal
// per-convention sub-trees for independent emission, the join's convention
// joins to NONE (conventionTraitDef.Join) and no adapter claims it.
func TestPlan_AJoinSpanningTwoStoreConventionsHasNoAdapterToClaimTheRoot(t *testing.T) {
	require := require.New(t)

	reg := traits.DefaultRegistry()
	relational := traits.NewConvention("RELATIONAL")
	mongo := traits.NewConvention("MONGO")
	storeConventions := map[int64]*traits.Convention{10: relational, 20: mongo}

	left := storeScan(reg, 10, "orders")
	right := storeScan(reg, 20, "carts")
	root := plan.NewCrossJoin(left, right)

	eng := core.New(nil, expression.NewTable(), reg, analyzer.RulesForStores(storeConventions),
		[]*core.Adapter{
			{Convention: relational, SQL: sqlemit.New(sqlemit.ANSIDialect{})},
			{Convention: mongo, Document: docemit.New()},
		}, config.Default())

	_, _, err := eng.Plan(7, root)
	require.Error(err)
	require.True(core.ErrNoAdapter.Is(err))
}

func TestCancel_WithoutAnActiveSessionIsANoOp(t *testing.T) {
	require := require.New(t)

	eng := core.New(nil, expression.NewTable(), traits.DefaultRegistry(), analyzer.NewRuleSet(), nil, config.Default())
	eng.Cancel(99) // no active session: must be a harmless no-op
	require.True(true)
}
