package placement

import (
	"fmt"

	"github.com/polypheny/polypheny-core-go/catalog"
	"github.com/polypheny/polypheny-core-go/internal/text_distance"
	"github.com/polypheny/polypheny-core-go/sql/expression"
	"github.com/polypheny/polypheny-core-go/sql/plan"
	"github.com/polypheny/polypheny-core-go/sql/traits"
	"github.com/polypheny/polypheny-core-go/sql/types"
)

// ValidateDDL rejects DDL against a SOURCE table; every other planner
// entry point below assumes this has already been checked.
func ValidateDDL(table *catalog.Table) error {
	if table.Kind == catalog.TableKindSource {
		return ErrSourceTableDDL.New(table.Name)
	}
	return nil
}

// ValidateDropColumn enforces the column-drop invariants: the sole column
// of a table may never be dropped, nor may a column that is part of a
// primary key, a foreign key, or a referenced index (spec §4.6).
func ValidateDropColumn(table *catalog.Table, column string) error {
	if err := ValidateDDL(table); err != nil {
		return err
	}
	if len(table.Columns) == 1 {
		return ErrSoleColumn.New(column, table.Name)
	}
	col, ok := table.ColumnByName(column)
	if !ok {
		names := make([]string, len(table.Columns))
		for i, c := range table.Columns {
			names[i] = c.Name
		}
		suggestion := text_distance.FindSimilarName(names, column)
		return fmt.Errorf("placement: no such column %q on table %q, did you mean %q?", column, table.Name, suggestion)
	}
	if col.PrimaryKey {
		return ErrColumnReferenced.New(column, "primary key", table.Name)
	}
	for _, fk := range table.ForeignKeys {
		if containsName(fk.Columns, column) {
			return ErrColumnReferenced.New(column, "foreign key", fk.Name)
		}
	}
	for _, idx := range table.Indexes {
		if containsName(idx.Columns, column) {
			return ErrColumnReferenced.New(column, "index", idx.Name)
		}
	}
	return nil
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// RouteColumnChange returns the distinct store ids holding a placement of
// column, i.e. the backends a column add/drop/modify must be routed to
// (spec §4.6 "routes the change to each backend that holds a placement of
// affected columns").
func RouteColumnChange(table *catalog.Table, columnID int64) []int64 {
	seen := make(map[int64]bool)
	var out []int64
	for _, p := range table.Placements {
		if p.ColumnID != columnID {
			continue
		}
		if !seen[p.StoreID] {
			seen[p.StoreID] = true
			out = append(out, p.StoreID)
		}
	}
	return out
}

// MigrationStep describes one placement-add copy: columnID's data must be
// copied from FromStore, which already holds it, onto ToStore. PlanAddPlacement
// never performs the copy itself; the migrator named in spec §4.6 is an
// executor-side concern the core only describes (spec §5: "the core does
// not perform I/O").
type MigrationStep struct {
	ColumnID  int64
	FromStore int64
	ToStore   int64
}

// PlanAddPlacement returns the migration steps needed to populate a new
// placement of columnIDs on toStore, one step per column that already has
// a placement elsewhere to copy from. A column with no existing placement
// is skipped: there is no source to migrate from.
func PlanAddPlacement(table *catalog.Table, toStore int64, columnIDs []int64) []MigrationStep {
	var steps []MigrationStep
	for _, colID := range columnIDs {
		existing := table.PlacementsOfColumn(colID)
		if len(existing) == 0 {
			continue
		}
		steps = append(steps, MigrationStep{ColumnID: colID, FromStore: existing[0].StoreID, ToStore: toStore})
	}
	return steps
}

// AutoPlacementsForNewPrimaryKey implements "adding a primary key
// auto-creates placements of new PK columns on every store that already
// held the previous PK column" (spec §4.6). It compares the stores holding
// every column in previousPK against newPK and returns the placements that
// must be created, skipping any (store, column) pair already placed.
func AutoPlacementsForNewPrimaryKey(table *catalog.Table, previousPK, newPK []catalog.Column) []catalog.Placement {
	if len(previousPK) == 0 {
		return nil
	}
	stores := table.StoresHoldingColumns(previousPK)
	already := make(map[[2]int64]bool)
	for _, p := range table.Placements {
		already[[2]int64{p.StoreID, p.ColumnID}] = true
	}
	var out []catalog.Placement
	for _, store := range stores {
		for _, col := range newPK {
			if already[[2]int64{store, col.ID}] {
				continue
			}
			out = append(out, catalog.Placement{
				StoreID:   store,
				TableID:   table.ID,
				ColumnID:  col.ID,
				Kind:      catalog.PlacementAutomatic,
			})
		}
	}
	return out
}

// PlanDropPlacement builds the guarded plan for DROP PLACEMENT: a
// ConditionalExecute whose Check reports the count of the column's
// placements other than storeID's, and which raises ErrLastPlacement
// through its ExceptionMessage when that count is zero (spec §4.6,
// expressed as a plan node per plan.ConditionalExecute's doc comment
// rather than as an imperative check, so the guard can be re-evaluated at
// execution time against a possibly newer catalog snapshot, spec §5).
func PlanDropPlacement(table *catalog.Table, storeID, columnID int64, action plan.Node) plan.Node {
	remaining := int64(0)
	for _, p := range table.PlacementsOfColumn(columnID) {
		if p.StoreID != storeID {
			remaining++
		}
	}
	check := countLiteral(remaining)
	msg := ErrLastPlacement.New(columnID, storeID).Error()
	return plan.NewConditionalExecute(check, action, plan.GreaterZero, msg)
}

func countLiteral(n int64) plan.Node {
	rowType := plan.NewRowType(plan.Field("COUNT", &types.Type{Family: types.BigInt}))
	tuples := [][]expression.Expr{{expression.NewLiteral(n, &types.Type{Family: types.BigInt})}}
	return plan.NewValues(rowType, tuples, traits.DefaultRegistry())
}
