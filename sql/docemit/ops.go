package docemit

import (
	"fmt"

	"gopkg.in/src-d/go-errors.v1"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/polypheny/polypheny-core-go/sql/expression"
)

// ErrNoDocTranslation is raised when the document-expression translator has
// no mapping for an operator, per spec §4.5 "rejects operators without a
// translation".
var ErrNoDocTranslation = errors.NewKind("operator %s has no document-pipeline translation")

// docOperators maps a SQL row-expression operator name to its MongoDB
// aggregation-expression equivalent (spec §4.5's "=→$eq, +→$add" example).
var docOperators = map[string]string{
	"=":    "$eq",
	"<>":   "$ne",
	"<":    "$lt",
	">":    "$gt",
	"<=":   "$lte",
	">=":   "$gte",
	"+":    "$add",
	"-":    "$subtract",
	"*":    "$multiply",
	"/":    "$divide",
	"AND":  "$and",
	"OR":   "$or",
	"NOT":  "$not",
}

// translateDocExpr renders a row expression as a MongoDB aggregation
// expression (a bson.M for a Call, "$field" for a column reference, or the
// literal value itself).
func translateDocExpr(e expression.Expr) (interface{}, error) {
	switch v := e.(type) {
	case *expression.Literal:
		if v.IsNull() {
			return nil, nil
		}
		return v.Value, nil
	case *expression.InputRef:
		return "$" + v.Name, nil
	case *expression.Call:
		return translateDocCall(v)
	default:
		return nil, ErrNoDocTranslation.New(fmt.Sprintf("%T", e))
	}
}

func translateDocCall(c *expression.Call) (interface{}, error) {
	if c.Op.Name == "CASE" || c.Op.Name == "CASE_WHEN" {
		return translateCase(c)
	}
	switch c.Op.Name {
	case "IS NULL", "IS NOT NULL", "IS TRUE", "IS NOT FALSE":
		operand, err := translateDocExpr(c.Operands_[0])
		if err != nil {
			return nil, err
		}
		switch c.Op.Name {
		case "IS NOT NULL":
			return bsonM("$ne", bsonA(operand, nil)), nil
		case "IS TRUE":
			return bsonM("$eq", bsonA(operand, true)), nil
		case "IS NOT FALSE":
			return bsonM("$ne", bsonA(operand, false)), nil
		}
		return bsonM("$eq", bsonA(operand, nil)), nil
	}

	mongoOp, ok := docOperators[c.Op.Name]
	if !ok {
		return nil, ErrNoDocTranslation.New(c.Op.Name)
	}
	operands := make([]interface{}, len(c.Operands_))
	for i, o := range c.Operands_ {
		v, err := translateDocExpr(o)
		if err != nil {
			return nil, err
		}
		operands[i] = v
	}
	return bsonM(mongoOp, operands), nil
}

// translateCase handles CASE WHEN cond1 THEN then1 ... ELSE els END via
// nested conditional documents, per spec §4.5: CASE(cond1, then1, cond2,
// then2, ..., els) folds right-to-left into {$cond:[cond,then,rest]}.
func translateCase(c *expression.Call) (interface{}, error) {
	ops := c.Operands_
	if len(ops)%2 == 0 || len(ops) < 3 {
		return nil, ErrNoDocTranslation.New("CASE with an even or too-short operand list")
	}
	els, err := translateDocExpr(ops[len(ops)-1])
	if err != nil {
		return nil, err
	}
	result := els
	for i := len(ops) - 3; i >= 0; i -= 2 {
		cond, err := translateDocExpr(ops[i])
		if err != nil {
			return nil, err
		}
		then, err := translateDocExpr(ops[i+1])
		if err != nil {
			return nil, err
		}
		result = bsonM("$cond", []interface{}{cond, then, result})
	}
	return result, nil
}

func bsonM(key string, value interface{}) bson.M {
	return bson.M{key: value}
}

func bsonA(items ...interface{}) []interface{} {
	return items
}
