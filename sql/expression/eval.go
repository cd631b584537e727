package expression

import "fmt"

// EvalConstBool is the reference three-valued evaluator for AND/OR/NOT over
// a tree of boolean Literal leaves. It exists purely as the "reference
// evaluator" of testable property #2: sql/rowexec's translate(e, IS_NULL)
// must agree with it on the full truth-table of input nullability. It does
// not (and need not) evaluate against a row — the core's row expressions are
// evaluated by the execution engine, which is out of scope.
func EvalConstBool(e Expr) (interface{}, error) {
	switch v := e.(type) {
	case *Literal:
		return v.Value, nil
	case *Call:
		switch v.Op.NullPolicy {
		case PolicyAnd:
			return evalAnd(v.Operands_)
		case PolicyOr:
			return evalOr(v.Operands_)
		case PolicyNot:
			return evalNot(v.Operands_[0])
		default:
			return nil, fmt.Errorf("EvalConstBool: unsupported operator %s", v.Op.Name)
		}
	default:
		return nil, fmt.Errorf("EvalConstBool: unsupported expression %T", e)
	}
}

func evalAnd(operands []Expr) (interface{}, error) {
	sawNull := false
	for _, o := range operands {
		v, err := EvalConstBool(o)
		if err != nil {
			return nil, err
		}
		if v == nil {
			sawNull = true
			continue
		}
		if v == false {
			return false, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return true, nil
}

func evalOr(operands []Expr) (interface{}, error) {
	sawNull := false
	for _, o := range operands {
		v, err := EvalConstBool(o)
		if err != nil {
			return nil, err
		}
		if v == nil {
			sawNull = true
			continue
		}
		if v == true {
			return true, nil
		}
	}
	if sawNull {
		return nil, nil
	}
	return false, nil
}

func evalNot(operand Expr) (interface{}, error) {
	v, err := EvalConstBool(operand)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	return !v.(bool), nil
}
