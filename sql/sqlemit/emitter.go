package sqlemit

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/src-d/go-errors.v1"

	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
)

// Emitter lowers a relational-SQL-convention sub-tree into SQL text, per
// spec §4.4. Each call to Emit is stateless except for the alias counter,
// which guarantees every wrapped sub-select and joined scan gets a distinct
// alias within one top-level Emit call.
type Emitter struct {
	Dialect Dialect

	// Cancel, if non-nil, is checked at each relation boundary (spec §5
	// "the orchestrator checks a per-query cancel flag ... at each
	// relation boundary in the emitters"); closing or signalling it aborts
	// the in-progress Emit with ErrCancelled.
	Cancel <-chan struct{}

	aliasN int
}

// New builds an Emitter for d.
func New(d Dialect) *Emitter { return &Emitter{Dialect: d} }

// ErrCancelled is raised when Emit observes Cancel set (spec §5, §7).
var ErrCancelled = errors.NewKind("relational-SQL emission cancelled")

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

func (e *Emitter) freshAlias() string {
	e.aliasN++
	return "t" + strconv.Itoa(e.aliasN)
}

// Emit lowers n to a Relation. n must be a node the relational-SQL
// convention can express: Scan, Filter, Project, Join, SemiJoin,
// Aggregate, Sort, SetOp, Values, or TableModify.
func (e *Emitter) Emit(n plan.Node) (*Relation, error) {
	if e.cancelled() {
		return nil, ErrCancelled.New()
	}
	switch v := n.(type) {
	case *plan.Scan:
		return e.emitScan(v)
	case *plan.Filter:
		return e.emitFilter(v)
	case *plan.Project:
		return e.emitProject(v)
	case *plan.Join:
		return e.emitJoin(v)
	case *plan.SemiJoin:
		return e.emitSemiJoin(v)
	case *plan.Aggregate:
		return e.emitAggregate(v)
	case *plan.Sort:
		return e.emitSort(v)
	case *plan.SetOp:
		return e.emitSetOp(v)
	case *plan.Values:
		return e.emitValues(v)
	case *plan.TableModify:
		return e.emitModify(v)
	default:
		return nil, fmt.Errorf("sqlemit: node kind %s has no relational-SQL emission", n.Kind())
	}
}

// EmitText is a convenience wrapping Emit + Relation.SQL for a pure query
// sub-tree (not a TableModify, whose SQL comes back fully formed already).
func (e *Emitter) EmitText(n plan.Node) (string, error) {
	rel, err := e.Emit(n)
	if err != nil {
		return "", err
	}
	return rel.SQL(), nil
}

func (e *Emitter) emitScan(s *plan.Scan) (*Relation, error) {
	alias := e.freshAlias()
	from := e.Dialect.QuoteIdent(s.Table.Schema) + "." + e.Dialect.QuoteIdent(s.Table.Name) + " " + alias
	names := make([]string, len(s.Table.Columns))
	cols := make([]string, len(s.Table.Columns))
	for i, c := range s.Table.Columns {
		names[i] = c.Name
		cols[i] = alias + "." + e.Dialect.QuoteIdent(c.Name)
	}
	return newRelation(from, cols, names), nil
}

// wrap nests r as a sub-select under a freshly aliased name, resetting its
// clause set; used whenever a node needs to append a clause that r already
// carries, per the "strictly monotonic clause list" invariant.
func (e *Emitter) wrap(r *Relation) *Relation {
	alias := e.freshAlias()
	from := "(" + r.SQL() + ") " + alias
	cols := make([]string, len(r.OutputNames))
	for i, name := range r.OutputNames {
		cols[i] = alias + "." + e.Dialect.QuoteIdent(name)
	}
	return newRelation(from, cols, r.OutputNames)
}

func (e *Emitter) emitFilter(f *plan.Filter) (*Relation, error) {
	child, err := e.Emit(f.Inputs()[0])
	if err != nil {
		return nil, err
	}
	if child.HasClause(ClauseWhere) || child.HasClause(ClauseGroupBy) ||
		child.HasClause(ClauseOrderBy) || child.HasClause(ClauseFetch) || child.HasClause(ClauseOffset) {
		child = e.wrap(child)
	}
	cond, err := translateExpr(f.Condition, child.Columns, e.Dialect)
	if err != nil {
		return nil, err
	}
	child.Where = cond
	child.markClause(ClauseWhere)
	return child, nil
}

func (e *Emitter) emitProject(p *plan.Project) (*Relation, error) {
	child, err := e.Emit(p.Inputs()[0])
	if err != nil {
		return nil, err
	}
	// "skip if identity": the relational-SQL emitter never emits a
	// redundant SELECT wrapping a pass-through projection (spec §4.4).
	if p.IsIdentity() {
		return child, nil
	}
	if child.HasClause(ClauseSelect) {
		child = e.wrap(child)
	}
	entries := make([]string, len(p.Expressions))
	for i, expr := range p.Expressions {
		sql, err := translateExpr(expr, child.Columns, e.Dialect)
		if err != nil {
			return nil, err
		}
		entries[i] = sql + " AS " + e.Dialect.QuoteIdent(p.OutputNames[i])
	}
	child.Select = entries
	child.markClause(ClauseSelect)
	child.OutputNames = p.OutputNames
	// A sibling clause on this same relation (e.g. a Filter directly above
	// this Project) addresses these columns by their own output alias,
	// unqualified; an ancestor needing a further clause instead wraps,
	// which re-derives qualified Columns from OutputNames against a fresh
	// alias.
	child.Columns = make([]string, len(p.OutputNames))
	for i, name := range p.OutputNames {
		child.Columns[i] = e.Dialect.QuoteIdent(name)
	}
	return child, nil
}

func (e *Emitter) emitJoin(j *plan.Join) (*Relation, error) {
	left, err := e.Emit(j.Inputs()[0])
	if err != nil {
		return nil, err
	}
	right, err := e.Emit(j.Inputs()[1])
	if err != nil {
		return nil, err
	}
	combinedCols := append(append([]string{}, left.Columns...), right.Columns...)
	combinedNames := append(append([]string{}, left.OutputNames...), right.OutputNames...)

	var from string
	if j.Type == plan.CrossJoin || (j.Type == plan.InnerJoin && expression.AlwaysTrue(j.Condition)) {
		// comma join for an always-true inner join, per spec §4.4.
		from = left.From + ", " + right.From
	} else {
		cond, err := translateExpr(j.Condition, combinedCols, e.Dialect)
		if err != nil {
			return nil, err
		}
		from = left.From + " " + joinKeyword(j.Type) + " " + right.From + " ON " + cond
	}
	return newRelation(from, combinedCols, combinedNames), nil
}

func joinKeyword(t plan.JoinType) string {
	switch t {
	case plan.LeftJoin:
		return "LEFT JOIN"
	case plan.RightJoin:
		return "RIGHT JOIN"
	case plan.FullJoin:
		return "FULL JOIN"
	default:
		return "JOIN"
	}
}

// emitSemiJoin lowers to a WHERE [NOT] EXISTS correlated sub-select, the
// conventional SQL rendering of a semijoin/antijoin that projects no
// right-side columns.
func (e *Emitter) emitSemiJoin(s *plan.SemiJoin) (*Relation, error) {
	left, err := e.Emit(s.Inputs()[0])
	if err != nil {
		return nil, err
	}
	right, err := e.Emit(s.Inputs()[1])
	if err != nil {
		return nil, err
	}
	combinedCols := append(append([]string{}, left.Columns...), right.Columns...)
	cond, err := translateExpr(s.Condition, combinedCols, e.Dialect)
	if err != nil {
		return nil, err
	}
	existsClause := fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s)", right.From, cond)
	if s.Anti {
		existsClause = "NOT " + existsClause
	}
	if left.HasClause(ClauseWhere) || left.HasClause(ClauseGroupBy) ||
		left.HasClause(ClauseOrderBy) || left.HasClause(ClauseFetch) || left.HasClause(ClauseOffset) {
		left = e.wrap(left)
	}
	left.Where = existsClause
	left.markClause(ClauseWhere)
	return left, nil
}

func (e *Emitter) emitAggregate(a *plan.Aggregate) (*Relation, error) {
	child, err := e.Emit(a.Inputs()[0])
	if err != nil {
		return nil, err
	}
	// child results must be addressable by column reference, and this node's
	// SELECT list replaces the child's: a child that already carries a
	// SELECT list (a Project) or a GROUP BY is wrapped into a sub-select;
	// any other child is grouped in place.
	if child.HasClause(ClauseGroupBy) || child.HasClause(ClauseSelect) {
		child = e.wrap(child)
	}

	entries := make([]string, 0, len(a.GroupSet)+len(a.Calls))
	names := make([]string, 0, len(a.GroupSet)+len(a.Calls))
	groupBy := make([]string, 0, len(a.GroupSet))
	for _, idx := range a.GroupSet {
		col := child.Columns[idx]
		entries = append(entries, col)
		groupBy = append(groupBy, col)
		names = append(names, child.OutputNames[idx])
	}
	for _, call := range a.Calls {
		args := make([]string, len(call.Args))
		for i, idx := range call.Args {
			args[i] = child.Columns[idx]
		}
		distinct := ""
		if call.Distinct {
			distinct = "DISTINCT "
		}
		entries = append(entries, fmt.Sprintf("%s(%s%s) AS %s", call.Function.Name, distinct, strings.Join(args, ", "), e.Dialect.QuoteIdent(call.OutputName)))
		names = append(names, call.OutputName)
	}

	child.Select = entries
	child.markClause(ClauseSelect)
	// group-set empty with aggregates: omit the GROUP BY clause entirely
	// (spec §4.4).
	if !a.IsGroupSetEmpty() {
		child.GroupBy = groupBy
		child.markClause(ClauseGroupBy)
	}
	child.OutputNames = names
	// Aggregate's own Columns (for a sibling clause reading it directly,
	// pre-wrap) are the bare select-list aliases; an ancestor that needs a
	// further clause wraps, which re-derives qualified Columns from
	// OutputNames against a fresh alias.
	child.Columns = make([]string, len(names))
	for i, n := range names {
		child.Columns[i] = e.Dialect.QuoteIdent(n)
	}
	return child, nil
}

func (e *Emitter) emitSort(s *plan.Sort) (*Relation, error) {
	child, err := e.Emit(s.Inputs()[0])
	if err != nil {
		return nil, err
	}
	if child.HasClause(ClauseOrderBy) || child.HasClause(ClauseFetch) || child.HasClause(ClauseOffset) {
		child = e.wrap(child)
	}
	if len(s.Collation) > 0 {
		orderBy := make([]string, len(s.Collation))
		for i, fc := range s.Collation {
			dir := "ASC"
			if fc.Dir == plan.Descending {
				dir = "DESC"
			}
			nulls := "NULLS LAST"
			if fc.Nulls == plan.NullsFirst {
				nulls = "NULLS FIRST"
			}
			orderBy[i] = fmt.Sprintf("%s %s %s", child.Columns[fc.Index], dir, nulls)
		}
		child.OrderBy = orderBy
		child.markClause(ClauseOrderBy)
	}
	if s.Offset != nil {
		sql, err := translateExpr(s.Offset, child.Columns, e.Dialect)
		if err != nil {
			return nil, err
		}
		child.Offset = sql
		child.markClause(ClauseOffset)
	}
	if s.Fetch != nil {
		sql, err := translateExpr(s.Fetch, child.Columns, e.Dialect)
		if err != nil {
			return nil, err
		}
		child.Fetch = sql
		child.markClause(ClauseFetch)
	}
	return child, nil
}

func (e *Emitter) emitSetOp(s *plan.SetOp) (*Relation, error) {
	parts := make([]string, len(s.Inputs()))
	var first *Relation
	for i, in := range s.Inputs() {
		rel, err := e.Emit(in)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			first = rel
		}
		parts[i] = rel.SQL()
	}
	keyword := s.Op.String()
	if s.All {
		keyword += " ALL"
	}
	joined := strings.Join(parts, " "+keyword+" ")
	alias := e.freshAlias()
	cols := make([]string, len(first.OutputNames))
	for i, n := range first.OutputNames {
		cols[i] = alias + "." + e.Dialect.QuoteIdent(n)
	}
	return newRelation("("+joined+") "+alias, cols, first.OutputNames), nil
}

// emitValues renders a Values leaf as an aliased VALUES list when the
// dialect supports it, or as a UNION ALL of one-row dummy selects
// otherwise, per spec §4.4.
func (e *Emitter) emitValues(v *plan.Values) (*Relation, error) {
	names := make([]string, len(v.RowType().FieldList))
	for i, f := range v.RowType().FieldList {
		names[i] = f.Name
	}
	alias := e.freshAlias()

	if e.Dialect.SupportsAliasedValues() {
		rows := make([]string, len(v.Tuples))
		for i, tuple := range v.Tuples {
			cells := make([]string, len(tuple))
			for j, expr := range tuple {
				sql, err := translateExpr(expr, nil, e.Dialect)
				if err != nil {
					return nil, err
				}
				cells[j] = sql
			}
			rows[i] = "(" + strings.Join(cells, ", ") + ")"
		}
		quotedNames := make([]string, len(names))
		for i, n := range names {
			quotedNames[i] = e.Dialect.QuoteIdent(n)
		}
		from := fmt.Sprintf("(VALUES %s) %s(%s)", strings.Join(rows, ", "), alias, strings.Join(quotedNames, ", "))
		cols := make([]string, len(names))
		for i, n := range names {
			cols[i] = alias + "." + e.Dialect.QuoteIdent(n)
		}
		return newRelation(from, cols, names), nil
	}

	selects := make([]string, len(v.Tuples))
	for i, tuple := range v.Tuples {
		cells := make([]string, len(tuple))
		for j, expr := range tuple {
			sql, err := translateExpr(expr, nil, e.Dialect)
			if err != nil {
				return nil, err
			}
			cells[j] = sql + " AS " + e.Dialect.QuoteIdent(names[j])
		}
		selects[i] = "SELECT " + strings.Join(cells, ", ") + " FROM " + e.Dialect.DummySource()
	}
	from := fmt.Sprintf("(%s) %s", strings.Join(selects, " UNION ALL "), alias)
	cols := make([]string, len(names))
	for i, n := range names {
		cols[i] = alias + "." + e.Dialect.QuoteIdent(n)
	}
	return newRelation(from, cols, names), nil
}

// emitModify renders an INSERT/UPDATE/DELETE statement. The returned
// Relation carries its statement text in From (there being no SELECT
// clause to speak of); callers should read it via Relation.Statement, not
// Relation.SQL.
func (e *Emitter) emitModify(t *plan.TableModify) (*Relation, error) {
	qualifiedTable := e.Dialect.QuoteIdent(t.Table.Schema) + "." + e.Dialect.QuoteIdent(t.Table.Name)

	switch t.Operation {
	case plan.Insert:
		source, err := e.Emit(t.Inputs()[0])
		if err != nil {
			return nil, err
		}
		colNames := make([]string, len(t.Inputs()[0].RowType().FieldList))
		for i, f := range t.Inputs()[0].RowType().FieldList {
			colNames[i] = e.Dialect.QuoteIdent(f.Name)
		}
		stmt := fmt.Sprintf("INSERT INTO %s (%s) %s", qualifiedTable, strings.Join(colNames, ", "), source.SQL())
		return &Relation{From: stmt, set: map[Clause]bool{}}, nil

	case plan.Update:
		child, err := e.Emit(t.Inputs()[0])
		if err != nil {
			return nil, err
		}
		sets := make([]string, len(t.UpdateColumns))
		for i, col := range t.UpdateColumns {
			sql, err := translateExpr(t.SourceExprs[i], child.Columns, e.Dialect)
			if err != nil {
				return nil, err
			}
			sets[i] = e.Dialect.QuoteIdent(col) + " = " + sql
		}
		stmt := fmt.Sprintf("UPDATE %s SET %s", qualifiedTable, strings.Join(sets, ", "))
		if child.Where != "" {
			stmt += " WHERE " + child.Where
		}
		return &Relation{From: stmt, set: map[Clause]bool{}}, nil

	case plan.Delete:
		child, err := e.Emit(t.Inputs()[0])
		if err != nil {
			return nil, err
		}
		stmt := fmt.Sprintf("DELETE FROM %s", qualifiedTable)
		if child.Where != "" {
			stmt += " WHERE " + child.Where
		}
		return &Relation{From: stmt, set: map[Clause]bool{}}, nil

	default:
		return nil, fmt.Errorf("sqlemit: unsupported table-modify operation %s", t.Operation)
	}
}

// Statement returns the statement text for a Relation built by emitModify.
func (r *Relation) Statement() string { return r.From }
