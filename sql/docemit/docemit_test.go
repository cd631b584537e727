package docemit_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/sql/docemit"
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
			{ID: 1, Name: "a", Type: intType()},
			{ID: 2, Name: "b", Type: intType()},
		},
	}
}

var itemOp = &expression.Operator{Name: "ITEM", Syntax: expression.SyntaxFunction}

func TestEmit_FilterEmitsMatchStage(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	cond := expression.NewEquals(expression.NewGetField(0, intType(), "a", false), expression.NewLiteral(int64(1), intType()))
	f := plan.NewFilter(cond, s)

	stages, err := docemit.New().Emit(f)
	require.NoError(err)
	require.Len(stages, 1)
	require.Equal("$match", stages[0][0].Key)
}

func TestEmit_IdentityProjectionIsSuppressed(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	identity := []expression.Expr{
		expression.NewGetField(0, intType(), "a", false),
		expression.NewGetField(1, intType(), "b", false),
	}
	p := plan.NewProject(identity, []string{"a", "b"}, s)

	stages, err := docemit.New().Emit(p)
	require.NoError(err)
	require.Empty(stages)
}

func TestEmit_RenameProjectionEmitsProjectStage(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	exprs := []expression.Expr{expression.NewGetField(0, intType(), "a", false)}
	p := plan.NewProject(exprs, []string{"renamed"}, s)

	stages, err := docemit.New().Emit(p)
	require.NoError(err)
	require.Len(stages, 1)
	require.Equal("$project", stages[0][0].Key)
	fields := stages[0][0].Value.(bson.D)
	require.Equal("renamed", fields[0].Key)
	require.Equal("$a", fields[0].Value)
}

func TestEmit_ArrayItemLowersToArrayElemAtWithZeroBasedIndex(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	arrayRef := expression.NewGetField(0, intType(), "phys_a", false)
	item, err := expression.NewCall(itemOp, []expression.Expr{arrayRef, expression.NewLiteral(int64(2), intType())})
	require.NoError(err)
	p := plan.NewProject([]expression.Expr{item}, []string{"out"}, s)

	stages, err := docemit.New().Emit(p)
	require.NoError(err)
	fields := stages[0][0].Value.(bson.D)
	elemAt := fields[0].Value.(bson.M)["$arrayElemAt"].(bson.A)
	require.Equal("$phys_a", elemAt[0])
	require.Equal(1, elemAt[1]) // 2 (1-based) -> 1 (0-based)
}

func TestEmit_SortWithLimitAndSkipAppendsStagesInOrder(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	sort := plan.NewSort(
		[]plan.FieldCollation{{Index: 0, Dir: plan.Descending}},
		expression.NewLiteral(int64(5), &types.Type{Family: types.BigInt}),
		expression.NewLiteral(int64(10), &types.Type{Family: types.BigInt}),
		s,
	)

	stages, err := docemit.New().Emit(sort)
	require.NoError(err)
	require.Len(stages, 3)
	require.Equal("$sort", stages[0][0].Key)
	require.Equal("$skip", stages[1][0].Key)
	require.Equal("$limit", stages[2][0].Key)
}

func TestEmit_UnmappedOperatorRejected(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	weirdOp := &expression.Operator{Name: "~~~", Syntax: expression.SyntaxBinary, Arity: expression.Exactly(2)}
	call, err := expression.NewCall(weirdOp, []expression.Expr{
		expression.NewGetField(0, intType(), "a", false),
		expression.NewLiteral(int64(1), intType()),
	})
	require.NoError(err)
	f := plan.NewFilter(call, s)

	_, err = docemit.New().Emit(f)
	require.Error(err)
	require.True(docemit.ErrNoDocTranslation.Is(err))
}

func TestEmitModify_InsertTypesFieldsAndOmitsNulls(t *testing.T) {
	require := require.New(t)

	rowType := plan.NewRowType(
		plan.Field("a", intType()),
		plan.Field("name", &types.Type{Family: types.VarChar, Nullable: true}),
	)
	tuples := [][]expression.Expr{
		{expression.NewLiteral(int64(1), intType()), expression.NewLiteral(nil, &types.Type{Family: types.VarChar})},
	}
	values := plan.NewValues(rowType, tuples, traits.DefaultRegistry())
	modify := plan.NewTableModify(testTable("people"), plan.Insert, nil, nil, values)

	out, err := docemit.New().EmitModify(modify)
	require.NoError(err)
	req := out.(*docemit.InsertRequest)
	require.Len(req.Documents, 1)
	require.Len(req.Documents[0], 1) // the null "name" literal is omitted
	require.Equal("a", req.Documents[0][0].Key)
	require.Equal(int32(1), req.Documents[0][0].Value)
}

func TestEmit_AggregateEmitsGroupStage(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	countOp := &expression.Operator{Name: "COUNT", Syntax: expression.SyntaxFunction}
	agg := plan.NewAggregate([]int{0}, []plan.AggCall{{Function: countOp, Args: []int{1}, OutputName: "cnt", Typ: &types.Type{Family: types.BigInt}}}, s)

	stages, err := docemit.New().Emit(agg)
	require.NoError(err)
	require.Len(stages, 1)
	require.Equal("$group", stages[0][0].Key)
	group := stages[0][0].Value.(bson.D)
	require.Equal("_id", group[0].Key)
}

func TestEmitModify_DeleteBuildsFilterDocument(t *testing.T) {
	require := require.New(t)

	s := plan.NewScan(testTable("people"), traits.DefaultRegistry())
	cond := expression.NewEquals(expression.NewGetField(0, intType(), "a", false), expression.NewLiteral(int64(1), intType()))
	f := plan.NewFilter(cond, s)
	modify := plan.NewTableModify(testTable("people"), plan.Delete, nil, nil, f)

	out, err := docemit.New().EmitModify(modify)
	require.NoError(err)
	req := out.(*docemit.DeleteRequest)
	require.Contains(req.Filter, "$eq")
}
