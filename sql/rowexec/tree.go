package rowexec

import (
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
)

// TranslateTree walks a planned relational tree bottom-up and replaces the
// Filter, Join and SemiJoin conditions, Project expressions and Update
// source expressions with their Translate'd form (other nodes' expressions,
// such as Sort offset/fetch or Values rows, are left as they are) under the
// appropriate ambient null-as policy: a Filter/Join/SemiJoin predicate is
// interpreted AsFalse (the row is excluded unless the condition is
// provably true, SQL's WHERE/ON semantics), while a Project's output
// expressions are interpreted AsNull (they simply evaluate, and a null
// result is a null output). This is the "translate" stage between the rule
// engine and the push-down emitters: the emitters consume only expressions
// already lowered this way.
func TranslateTree(n plan.Node, t *Translator) (plan.Node, error) {
	children := n.Inputs()
	newChildren := make([]plan.Node, len(children))
	for i, c := range children {
		nc, err := TranslateTree(c, t)
		if err != nil {
			return nil, err
		}
		newChildren[i] = nc
	}
	current := n
	if len(children) > 0 {
		current = n.WithInputs(newChildren)
	}

	switch v := current.(type) {
	case *plan.Filter:
		cond, err := t.Translate(v.Condition, AsFalse)
		if err != nil {
			return nil, err
		}
		return plan.NewFilter(cond, v.Inputs()[0]), nil
	case *plan.Join:
		cond, err := t.Translate(v.Condition, AsFalse)
		if err != nil {
			return nil, err
		}
		return plan.NewJoin(v.Type, cond, v.Inputs()[0], v.Inputs()[1]), nil
	case *plan.SemiJoin:
		cond, err := t.Translate(v.Condition, AsFalse)
		if err != nil {
			return nil, err
		}
		return plan.NewSemiJoin(cond, v.Inputs()[0], v.Inputs()[1], v.Anti), nil
	case *plan.Project:
		newExprs := make([]expression.Expr, len(v.Expressions))
		for i, e := range v.Expressions {
			te, err := t.Translate(e, AsNull)
			if err != nil {
				return nil, err
			}
			newExprs[i] = te
		}
		return plan.NewProject(newExprs, v.OutputNames, v.Inputs()[0]), nil
	case *plan.TableModify:
		if v.Operation != plan.Update {
			return current, nil
		}
		newExprs := make([]expression.Expr, len(v.SourceExprs))
		for i, e := range v.SourceExprs {
			te, err := t.Translate(e, AsNull)
			if err != nil {
				return nil, err
			}
			newExprs[i] = te
		}
		return plan.NewTableModify(v.Table, v.Operation, v.UpdateColumns, newExprs, v.Inputs()[0]), nil
	default:
		return current, nil
	}
}
