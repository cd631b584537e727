package rowexec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

func treeTestTable() *catalog.Table {
	return &catalog.Table{
		ID: 1, Schema: "public", Name: "people",
		Columns: []catalog.Column{{ID: 1, Name: "a", Type: &types.Type{Family: types.Boolean}}},
	}
}

func TestTranslateTree_FoldsAFilterConditionUnderAsFalse(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(treeTestTable(), traits.DefaultRegistry())
	and := expression.NewAnd(boolLiteral(true), boolLiteral(nil))
	f := plan.NewFilter(and, scan)

	out, err := TranslateTree(f, New(expression.NewTable()))
	require.NoError(err)
	filtered := out.(*plan.Filter)
	require.Equal(false, asBool(t, filtered.Condition))
}

func TestTranslateTree_TranslatesProjectExpressionsUnderAsNull(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(treeTestTable(), traits.DefaultRegistry())
	and := expression.NewAnd(boolLiteral(true), boolLiteral(nil))
	p := plan.NewProject([]expression.Expr{and}, []string{"out"}, scan)

	out, err := TranslateTree(p, New(expression.NewTable()))
	require.NoError(err)
	projected := out.(*plan.Project)
	require.Nil(asBool(t, projected.Expressions[0]))
}

func TestTranslateTree_RecursesIntoChildrenBeforeRebuildingTheParent(t *testing.T) {
	require := require.New(t)

	scan := plan.NewScan(treeTestTable(), traits.DefaultRegistry())
	inner := plan.NewFilter(expression.NewAnd(boolLiteral(true), boolLiteral(nil)), scan)
	outer := plan.NewProject([]expression.Expr{expression.NewGetField(0, &types.Type{Family: types.Boolean}, "a", false)}, []string{"a"}, inner)

	out, err := TranslateTree(outer, New(expression.NewTable()))
	require.NoError(err)
	innerFilter := out.Inputs()[0].(*plan.Filter)
	require.Equal(false, asBool(t, innerFilter.Condition))
}
