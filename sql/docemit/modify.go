package docemit

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// InsertRequest is what an Insert (TableModify) lowers to: one BSON
// document per source Values tuple, ready for Collection.InsertMany.
type InsertRequest struct {
	Collection string
	Documents  []bson.D
}

// DeleteRequest is what a Delete (TableModify) lowers to: a single filter
// document for Collection.DeleteMany.
type DeleteRequest struct {
	Collection string
	Filter     bson.M
}

// EmitModify lowers an Insert or Delete TableModify to its document-store
// request shape (spec §4.5). It only builds the InsertRequest or
// DeleteRequest; nothing is executed here, so no row count is produced.
func (e *Emitter) EmitModify(t *plan.TableModify) (interface{}, error) {
	switch t.Operation {
	case plan.Insert:
		return e.emitInsert(t)
	case plan.Delete:
		return e.emitDelete(t)
	default:
		return nil, fmt.Errorf("docemit: table-modify operation %s has no document-pipeline emission", t.Operation)
	}
}

func (e *Emitter) emitInsert(t *plan.TableModify) (*InsertRequest, error) {
	values, ok := t.Inputs()[0].(*plan.Values)
	if !ok {
		return nil, fmt.Errorf("docemit: Insert requires a Values child, got %T", t.Inputs()[0])
	}
	fields := values.RowType().FieldList
	docs := make([]bson.D, len(values.Tuples))
	for i, tuple := range values.Tuples {
		doc := bson.D{}
		for j, expr := range tuple {
			lit, ok := expr.(*expression.Literal)
			if !ok {
				return nil, fmt.Errorf("docemit: Insert values must be literals, got %T", expr)
			}
			if lit.IsNull() {
				continue // null literals are omitted, per spec §4.5
			}
			v, err := typedDocValue(lit, fields[j].Type)
			if err != nil {
				return nil, err
			}
			doc = append(doc, bson.E{Key: fields[j].Name, Value: v})
		}
		docs[i] = doc
	}
	return &InsertRequest{Collection: t.Table.Name, Documents: docs}, nil
}

func (e *Emitter) emitDelete(t *plan.TableModify) (*DeleteRequest, error) {
	f, ok := t.Inputs()[0].(*plan.Filter)
	if !ok {
		return nil, fmt.Errorf("docemit: Delete requires a filter-only child, got %T", t.Inputs()[0])
	}
	doc, err := translateDocExpr(f.Condition)
	if err != nil {
		return nil, err
	}
	filter, ok := doc.(bson.M)
	if !ok {
		filter = bson.M{"$expr": doc}
	}
	return &DeleteRequest{Collection: t.Table.Name, Filter: filter}, nil
}

// typedDocValue converts a literal to its document-store representation per
// spec §4.5's field-by-field typing table: character → string, integer
// family → int32, fractional → double, date/time → int32, timestamp →
// int64, boolean → bool, binary → base64 string, other → string.
func typedDocValue(lit *expression.Literal, typ *types.Type) (interface{}, error) {
	switch typ.Family {
	case types.Char, types.VarChar, types.Text:
		return fmt.Sprintf("%v", lit.Value), nil
	case types.TinyInt, types.SmallInt, types.Integer, types.BigInt:
		return toInt32(lit.Value)
	case types.Decimal, types.Float, types.Double:
		return toFloat64(lit.Value)
	case types.Date, types.Time:
		return toInt32(lit.Value)
	case types.Timestamp:
		return toInt64(lit.Value)
	case types.Boolean:
		b, ok := lit.Value.(bool)
		if !ok {
			return nil, fmt.Errorf("docemit: expected a bool literal, got %T", lit.Value)
		}
		return b, nil
	case types.Binary, types.VarBinary, types.Blob:
		b, ok := lit.Value.([]byte)
		if !ok {
			return nil, fmt.Errorf("docemit: expected a []byte literal, got %T", lit.Value)
		}
		return base64.StdEncoding.EncodeToString(b), nil
	default:
		return fmt.Sprintf("%v", lit.Value), nil
	}
}

func toInt32(v interface{}) (int32, error) {
	n, err := cast.ToInt32E(v)
	if err != nil {
		return 0, fmt.Errorf("docemit: expected an integer literal, got %T", v)
	}
	return n, nil
}

func toInt64(v interface{}) (int64, error) {
	n, err := cast.ToInt64E(v)
	if err != nil {
		return 0, fmt.Errorf("docemit: expected an integer literal, got %T", v)
	}
	return n, nil
}

func toFloat64(v interface{}) (float64, error) {
	n, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("docemit: expected a numeric literal, got %T", v)
	}
	return n, nil
}
