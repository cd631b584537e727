// Package docemit implements the document-pipeline push-down emitter (spec
// §4.5): it lowers a relational sub-tree tagged with the document
// convention into an ordered MongoDB-style aggregation pipeline — match,
// project, group, sort, skip and limit stages built with
// go.mongodb.org/mongo-driver's bson.D/bson.M/bson.A document types, the
// same representation the driver itself expects for Aggregate/Find calls.
// No unwind stage is ever emitted.
package docemit

import (
	"fmt"

	"github.com/spf13/cast"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
)

// Stage is one pipeline stage, e.g. bson.D{{Key: "$match", Value: ...}}.
type Stage = bson.D

// Emitter lowers document-convention relational nodes to a pipeline.
type Emitter struct {
	// Cancel, if non-nil, is checked at each relation boundary, matching
	// sqlemit.Emitter.Cancel (spec §5).
	Cancel <-chan struct{}
}

// New builds a document-pipeline Emitter.
func New() *Emitter { return &Emitter{} }

// ErrCancelled is raised when Emit observes Cancel set (spec §5, §7).
var ErrCancelled = errors.NewKind("document-pipeline emission cancelled")

func (e *Emitter) cancelled() bool {
	if e.Cancel == nil {
		return false
	}
	select {
	case <-e.Cancel:
		return true
	default:
		return false
	}
}

// Emit walks n bottom-up and returns the ordered stage list a driver would
// pass to Collection.Aggregate.
func (e *Emitter) Emit(n plan.Node) ([]Stage, error) {
	if e.cancelled() {
		return nil, ErrCancelled.New()
	}
	switch v := n.(type) {
	case *plan.Scan:
		return nil, nil // a bare collection scan needs no stage of its own
	case *plan.Filter:
		return e.emitFilter(v)
	case *plan.Project:
		return e.emitProject(v)
	case *plan.Aggregate:
		return e.emitAggregate(v)
	case *plan.Sort:
		return e.emitSort(v)
	default:
		return nil, fmt.Errorf("docemit: node kind %s has no document-pipeline emission", n.Kind())
	}
}

func (e *Emitter) childStages(n plan.Node) ([]Stage, error) {
	if len(n.Inputs()) == 0 {
		return nil, nil
	}
	return e.Emit(n.Inputs()[0])
}

func (e *Emitter) emitFilter(f *plan.Filter) ([]Stage, error) {
	stages, err := e.childStages(f)
	if err != nil {
		return nil, err
	}
	doc, err := translateDocExpr(f.Condition)
	if err != nil {
		return nil, err
	}
	return append(stages, Stage{{Key: "$match", Value: doc}}), nil
}

// emitProject emits a `project` stage with each output field either a
// literal constant document, a physical-name rename, or a translated
// expression; identity projections (ref.Name == output name) are
// suppressed field-by-field, and the whole stage is dropped if every field
// turned out identity (spec §4.5).
func (e *Emitter) emitProject(p *plan.Project) ([]Stage, error) {
	stages, err := e.childStages(p)
	if err != nil {
		return nil, err
	}

	fields := bson.D{}
	for i, expr := range p.Expressions {
		outName := p.OutputNames[i]
		if ref, ok := expr.(*expression.InputRef); ok && ref.Name == outName {
			continue // identity: same field to same physical name
		}
		val, err := translateProjectField(expr)
		if err != nil {
			return nil, err
		}
		fields = append(fields, bson.E{Key: outName, Value: val})
	}
	if len(fields) == 0 {
		return stages, nil
	}
	return append(stages, Stage{{Key: "$project", Value: fields}}), nil
}

// translateProjectField renders one projection output: a rename
// (`name: "$physical"`) for a bare column reference, an array-element
// lowering for an ITEM(array, i) call, a distinct helper for a distance
// call, or the generic document-expression translation otherwise.
func translateProjectField(e expression.Expr) (interface{}, error) {
	switch v := e.(type) {
	case *expression.InputRef:
		return "$" + v.Name, nil
	case *expression.Literal:
		if v.IsNull() {
			return nil, nil
		}
		return v.Value, nil
	case *expression.Call:
		if v.Op.Name == "ITEM" {
			return translateArrayItem(v)
		}
		if v.Op.Name == "DISTANCE" {
			return translateDistance(v)
		}
		return translateDocExpr(v)
	default:
		return translateDocExpr(e)
	}
}

// translateArrayItem lowers `a[i]` into `{$arrayElemAt: ["$a", i-1]}`,
// converting the 1-based SQL index to MongoDB's 0-based array index (spec
// §4.5).
func translateArrayItem(call *expression.Call) (interface{}, error) {
	if len(call.Operands_) != 2 {
		return nil, fmt.Errorf("docemit: ITEM requires exactly 2 operands, got %d", len(call.Operands_))
	}
	arrayRef, ok := call.Operands_[0].(*expression.InputRef)
	if !ok {
		return nil, fmt.Errorf("docemit: ITEM's first operand must be a column reference")
	}
	idxLit, ok := call.Operands_[1].(*expression.Literal)
	if !ok {
		return nil, fmt.Errorf("docemit: ITEM's index operand must be a literal")
	}
	idx, err := toInt(idxLit.Value)
	if err != nil {
		return nil, err
	}
	return bson.M{"$arrayElemAt": bson.A{"$" + arrayRef.Name, idx - 1}}, nil
}

func toInt(v interface{}) (int, error) {
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("docemit: expected an integer literal, got %T", v)
	}
	return n, nil
}

// translateDistance serializes a vector-distance call as its own document
// shape, distinct from the generic operator mapping, since a distance
// metric carries a metric name alongside its two vector operands (spec
// §4.5 "a distance call is serialized via a distinct helper").
func translateDistance(call *expression.Call) (interface{}, error) {
	if len(call.Operands_) < 2 {
		return nil, fmt.Errorf("docemit: DISTANCE requires at least 2 operands, got %d", len(call.Operands_))
	}
	left, err := translateDocExpr(call.Operands_[0])
	if err != nil {
		return nil, err
	}
	right, err := translateDocExpr(call.Operands_[1])
	if err != nil {
		return nil, err
	}
	metric := "euclidean"
	if len(call.Operands_) == 3 {
		if lit, ok := call.Operands_[2].(*expression.Literal); ok {
			if s, ok := lit.Value.(string); ok {
				metric = s
			}
		}
	}
	return bson.M{"$vectorDistance": bson.M{"vector1": left, "vector2": right, "metric": metric}}, nil
}

func (e *Emitter) emitAggregate(a *plan.Aggregate) ([]Stage, error) {
	stages, err := e.childStages(a)
	if err != nil {
		return nil, err
	}

	id := interface{}(nil)
	if len(a.GroupSet) > 0 {
		idFields := bson.D{}
		for _, idx := range a.GroupSet {
			name := a.Inputs()[0].RowType().FieldList[idx].Name
			idFields = append(idFields, bson.E{Key: name, Value: "$" + name})
		}
		id = idFields
	}
	group := bson.D{{Key: "_id", Value: id}}
	for _, call := range a.Calls {
		acc, err := docAccumulator(call, a.Inputs()[0])
		if err != nil {
			return nil, err
		}
		group = append(group, bson.E{Key: call.OutputName, Value: acc})
	}
	return append(stages, Stage{{Key: "$group", Value: group}}), nil
}

func docAccumulator(call plan.AggCall, input plan.Node) (interface{}, error) {
	if call.Function.Name == "COUNT" {
		return bson.M{"$sum": 1}, nil
	}
	if len(call.Args) == 0 {
		return nil, fmt.Errorf("docemit: accumulator %s requires an argument", call.Function.Name)
	}
	name := input.RowType().FieldList[call.Args[0]].Name
	return bson.M{"$" + accumulatorName(call.Function.Name): "$" + name}, nil
}

func accumulatorName(name string) string {
	switch name {
	case "SUM":
		return "sum"
	case "AVG":
		return "avg"
	case "MIN":
		return "min"
	case "MAX":
		return "max"
	default:
		return name
	}
}

func (e *Emitter) emitSort(s *plan.Sort) ([]Stage, error) {
	stages, err := e.childStages(s)
	if err != nil {
		return nil, err
	}
	if len(s.Collation) > 0 {
		keys := bson.D{}
		for _, fc := range s.Collation {
			name := s.Inputs()[0].RowType().FieldList[fc.Index].Name
			dir := 1
			if fc.Dir == plan.Descending {
				dir = -1
			}
			keys = append(keys, bson.E{Key: name, Value: dir})
		}
		stages = append(stages, Stage{{Key: "$sort", Value: keys}})
	}
	if s.Offset != nil {
		n, err := literalInt(s.Offset)
		if err != nil {
			return nil, err
		}
		stages = append(stages, Stage{{Key: "$skip", Value: n}})
	}
	if s.Fetch != nil {
		n, err := literalInt(s.Fetch)
		if err != nil {
			return nil, err
		}
		stages = append(stages, Stage{{Key: "$limit", Value: n}})
	}
	return stages, nil
}

func literalInt(e expression.Expr) (int64, error) {
	lit, ok := e.(*expression.Literal)
	if !ok {
		return 0, fmt.Errorf("docemit: FETCH/OFFSET must be a literal, got %T", e)
	}
	n, err := cast.ToInt64E(lit.Value)
	if err != nil {
		return 0, fmt.Errorf("docemit: FETCH/OFFSET literal must be integral, got %T", lit.Value)
	}
	return n, nil
}
