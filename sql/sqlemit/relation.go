package sqlemit

import (
	"strings"
)

// Clause names the SELECT clauses the emitter tracks for the "strictly
// monotonic clause list" invariant (spec §4.4): once a clause is set on a
// Relation, setting it again forces the caller to wrap into a nested
// sub-select instead.
type Clause int

const (
	ClauseSelect Clause = iota
	ClauseWhere
	ClauseGroupBy
	ClauseHaving
	ClauseOrderBy
	ClauseFetch
	ClauseOffset
)

// Relation is one SQL SELECT under construction. It is built bottom-up by
// Emitter and is immutable from the caller's perspective: Emitter always
// returns either the same Relation (clause appended) or a fresh one wrapping
// it as a sub-select.
type Relation struct {
	Select  []string // rendered "expr AS alias" entries; nil means "*"
	From    string   // fully rendered FROM clause, including nested sub-selects and joins
	Where   string
	GroupBy []string
	Having  string
	OrderBy []string
	Fetch   string
	Offset  string

	// Columns gives the SQL text a sibling clause uses to reference output
	// column i, qualified however is valid in r.From's current scope (e.g.
	// "t1"."a" for a scan aliased t1).
	Columns []string
	// OutputNames are the same columns' short, unqualified names — what a
	// wrapping sub-select would expose them as once r.From's own aliases go
	// out of scope.
	OutputNames []string

	set map[Clause]bool
}

func newRelation(from string, columns, outputNames []string) *Relation {
	return &Relation{From: from, Columns: columns, OutputNames: outputNames, set: map[Clause]bool{}}
}

// HasClause reports whether c has already been set on r.
func (r *Relation) HasClause(c Clause) bool { return r.set[c] }

func (r *Relation) markClause(c Clause) { r.set[c] = true }

// SQL renders this relation's full SELECT text in canonical clause order.
func (r *Relation) SQL() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if len(r.Select) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(r.Select, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(r.From)
	if r.Where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(r.Where)
	}
	if len(r.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(strings.Join(r.GroupBy, ", "))
	}
	if r.Having != "" {
		b.WriteString(" HAVING ")
		b.WriteString(r.Having)
	}
	if len(r.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(r.OrderBy, ", "))
	}
	if r.Offset != "" {
		b.WriteString(" OFFSET ")
		b.WriteString(r.Offset)
		b.WriteString(" ROWS")
	}
	if r.Fetch != "" {
		b.WriteString(" FETCH NEXT ")
		b.WriteString(r.Fetch)
		b.WriteString(" ROWS ONLY")
	}
	return b.String()
}
