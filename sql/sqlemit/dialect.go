// Package sqlemit implements the relational-SQL push-down emitter (spec
// §4.4): it lowers a relational sub-tree tagged with a SQL convention into
// SQL text, visiting bottom-up and enforcing the "a clause list is
// strictly monotonic" invariant — appending an already-present clause
// forces wrapping the current relation into a nested sub-select.
package sqlemit

import "fmt"

// Dialect supplies the handful of backend-specific decisions the emitter
// needs (spec §6 "Adapter interface... emitter plug-in"): identifier
// quoting, whether VALUES accepts an alias list, and a one-row dummy
// source to union over when it doesn't.
type Dialect interface {
	QuoteIdent(name string) string
	SupportsAliasedValues() bool
	DummySource() string
}

// ANSIDialect is the baseline dialect: double-quoted identifiers, no
// aliased VALUES support (forcing the UNION ALL fallback), and the
// standard single-row dummy table name.
type ANSIDialect struct{}

func (ANSIDialect) QuoteIdent(name string) string     { return fmt.Sprintf("%q", name) }
func (ANSIDialect) SupportsAliasedValues() bool       { return false }
func (ANSIDialect) DummySource() string               { return "DUAL" }

// AliasedValuesDialect is a dialect variant (e.g. PostgreSQL, MySQL) that
// accepts `VALUES (...) AS t(c1,...)` directly.
type AliasedValuesDialect struct{ ANSIDialect }

func (AliasedValuesDialect) SupportsAliasedValues() bool { return true }
