// Package placement implements the placement-aware DDL/modify planner
// (spec §4.6): it validates DDL against a table's kind and column-placement
// invariants and routes accepted changes to the backends holding the
// affected placements. It never performs I/O or mutates the catalog itself
// — that remains the executor's responsibility, consistent with the rest
// of this module (catalog.Reader is read-only, spec §6).
package placement

import "gopkg.in/src-d/go-errors.v1"

// ErrSourceTableDDL is returned when DDL targets a SOURCE table, which the
// planner never allows (spec §4.6 "validates that the table is of type
// TABLE (not SOURCE)").
var ErrSourceTableDDL = errors.NewKind("table %q is a SOURCE table; DDL is not permitted")

// ErrSoleColumn is returned when a DROP COLUMN would leave a table with no
// columns (spec §4.6 "cannot drop the sole column of a table").
var ErrSoleColumn = errors.NewKind("cannot drop column %q: it is the sole column of table %q")

// ErrColumnReferenced is returned when a DROP COLUMN targets a column that
// is part of a primary key, foreign key, or referenced index/constraint
// (spec §4.6); the message names the offending constraint.
var ErrColumnReferenced = errors.NewKind("cannot drop column %q: referenced by %s %q")

// ErrLastPlacement is returned when a DROP PLACEMENT would leave a column
// with zero placements (spec §4.6 "dropping a placement requires at least
// one other placement of every column").
var ErrLastPlacement = errors.NewKind("cannot drop placement of column %d on store %d: it is the last placement")
