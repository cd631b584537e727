package sqlemit

import (
	"fmt"
	"strings"

	"github.com/polypheny/polypheny-core-go/sql/expression"
)

// translateExpr renders a row expression as SQL text against cols, the
// input relation's column identifiers in row-type order (spec §4.4's
// "re-qualify a column reference against the combined context").
func translateExpr(e expression.Expr, cols []string, d Dialect) (string, error) {
	switch v := e.(type) {
	case *expression.Literal:
		return literalSQL(v), nil
	case *expression.InputRef:
		if v.Index < 0 || v.Index >= len(cols) {
			return "", fmt.Errorf("sqlemit: input ref %d out of range of %d columns", v.Index, len(cols))
		}
		return cols[v.Index], nil
	case *expression.Call:
		return translateCall(v, cols, d)
	case *expression.FieldAccess:
		base, err := translateExpr(v.Struct, cols, d)
		if err != nil {
			return "", err
		}
		return base + "." + d.QuoteIdent(v.Field), nil
	default:
		return "", fmt.Errorf("sqlemit: cannot translate expression of type %T to SQL text", e)
	}
}

func literalSQL(l *expression.Literal) string {
	if l.IsNull() {
		return "NULL"
	}
	switch val := l.Value.(type) {
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprintf("%v", val)
	}
}

func translateCall(c *expression.Call, cols []string, d Dialect) (string, error) {
	operands := make([]string, len(c.Operands_))
	for i, o := range c.Operands_ {
		s, err := translateExpr(o, cols, d)
		if err != nil {
			return "", err
		}
		operands[i] = s
	}

	switch c.Op.Syntax {
	case expression.SyntaxBinary:
		return "(" + strings.Join(operands, " "+c.Op.Name+" ") + ")", nil
	case expression.SyntaxPrefix:
		return "(" + c.Op.Name + " " + operands[0] + ")", nil
	case expression.SyntaxPostfix:
		return "(" + operands[0] + " " + c.Op.Name + ")", nil
	default:
		return c.Op.Name + "(" + strings.Join(operands, ", ") + ")", nil
	}
}
