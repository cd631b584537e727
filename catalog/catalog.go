// Package catalog declares the external collaborators the planning core
// consumes but never owns: the catalog reader (spec §6 "Catalog reader") and
// the operator table is declared in sql/expression. Nothing here persists
// state; these are read-only interfaces implemented outside this module
// (DDL execution, catalog persistence are explicitly out of scope, spec §1).
package catalog

import (
	"sort"

	"github.com/polypheny/polypheny-core-go/sql/types"
)

// PlacementKind classifies a column placement, per the data model.
type PlacementKind int

const (
	PlacementStatic PlacementKind = iota
	PlacementManual
	PlacementAutomatic
)

// Placement is the column-placement tuple from the data model §3.
type Placement struct {
	StoreID             int64
	TableID             int64
	ColumnID            int64
	Kind                PlacementKind
	PhysicalSchemaName  string
	PhysicalTableName   string
	PhysicalColumnName  string
	PhysicalPosition    int
}

// Column describes one column of a catalog table.
type Column struct {
	ID         int64
	Name       string
	Type       *types.Type
	PrimaryKey bool
}

// TableKind distinguishes ordinary tables (which the placement planner may
// modify) from source tables (spec §4.6: "validates that the table is of
// type TABLE (not SOURCE)").
type TableKind int

const (
	TableKindTable TableKind = iota
	TableKindSource
	TableKindView
)

// ForeignKey is a named foreign-key constraint over a subset of a table's
// columns.
type ForeignKey struct {
	Name    string
	Columns []string
}

// Index is a named index or uniqueness constraint over a subset of a
// table's columns.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table is the table descriptor the catalog reader resolves qualified names
// to: row type, placements, primary-key columns, and monotonicity hints.
type Table struct {
	ID          int64
	Schema      string
	Name        string
	Kind        TableKind
	Columns     []Column
	Placements  []Placement
	ForeignKeys []ForeignKey
	Indexes     []Index
	Monotonic   map[string]bool // column name -> monotonically increasing
}

// ColumnByName returns the column named name, if any.
func (t *Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// PrimaryKeyColumns returns the subset of t.Columns marked PrimaryKey, in
// column order.
func (t *Table) PrimaryKeyColumns() []Column {
	var out []Column
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c)
		}
	}
	return out
}

// PlacementsOfColumn returns every placement of the column with id columnID.
func (t *Table) PlacementsOfColumn(columnID int64) []Placement {
	var out []Placement
	for _, p := range t.Placements {
		if p.ColumnID == columnID {
			out = append(out, p)
		}
	}
	return out
}

// StoresHoldingTable returns the distinct set of store ids holding any
// placement of t.
func (t *Table) StoresHoldingTable() []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, p := range t.Placements {
		if !seen[p.StoreID] {
			seen[p.StoreID] = true
			out = append(out, p.StoreID)
		}
	}
	return out
}

// StoresHoldingColumns returns the store ids that hold a placement of
// every one of cols (the intersection of each column's placement set).
func (t *Table) StoresHoldingColumns(cols []Column) []int64 {
	if len(cols) == 0 {
		return nil
	}
	counts := make(map[int64]int)
	for _, col := range cols {
		seen := make(map[int64]bool)
		for _, p := range t.PlacementsOfColumn(col.ID) {
			if !seen[p.StoreID] {
				seen[p.StoreID] = true
				counts[p.StoreID]++
			}
		}
	}
	var out []int64
	for store, n := range counts {
		if n == len(cols) {
			out = append(out, store)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reader resolves qualified names to table descriptors. The core depends
// only on these read-only methods and never mutates catalog state (spec
// §6).
type Reader interface {
	Table(schema, name string) (*Table, bool)
	Tables(schema string) []string
}
