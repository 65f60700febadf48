// Package output renders plans and apply results as plain,
// human-readable text. No color, no structured logging - matching
// §1's decision to scope colorized progress output out of the core.
package output

import (
	"fmt"
	"io"

	"aquaform/internal/diff"
	"aquaform/internal/planner"
	"aquaform/internal/reconciler"
)

// Plan writes a summary of changes to w, one block per table, in the
// order changes were produced.
func Plan(w io.Writer, changes []planner.PlannedChange) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "[INFO] no changes detected")
		return
	}

	for _, c := range changes {
		switch c.Kind {
		case planner.Create:
			fmt.Fprintf(w, "[PLAN] table %s:\n", c.Table.Name)
			fmt.Fprintln(w, "  + create new table")
		case planner.Update:
			fmt.Fprintf(w, "[PLAN] table %s:\n", c.Table.Name)
			writeDelta(w, *c.Delta)
		case planner.Delete:
			fmt.Fprintf(w, "[PLAN] table %s:\n", c.TableName)
			fmt.Fprintln(w, "  - remove table")
		}
	}
}

func writeDelta(w io.Writer, d diff.Delta) {
	for _, col := range d.AddColumns {
		nullability := "NOT NULL"
		if col.Nullable {
			nullability = "NULL"
		}
		fmt.Fprintf(w, "  + add column %q (%s, %s)\n", col.Name, col.Type, nullability)
	}
	for _, change := range d.ModifyColumns {
		fmt.Fprintf(w, "  ~ modify column %q (%s -> %s)\n", change.New.Name, change.Old.Type, change.New.Type)
	}
	for _, col := range d.RemoveColumns {
		fmt.Fprintf(w, "  - remove column %q\n", col.Name)
	}
	if d.ModifyPrimaryKey != nil {
		fmt.Fprintf(w, "  ~ modify primary key (%v -> %v)\n", d.ModifyPrimaryKey.Old, d.ModifyPrimaryKey.New)
	}
	for _, fk := range d.AddForeignKeys {
		fmt.Fprintf(w, "  + add foreign key %v -> %s.%v\n", fk.Columns, fk.ReferenceTable, fk.ReferenceColumns)
	}
	for _, fk := range d.RemoveForeignKeys {
		fmt.Fprintf(w, "  - remove foreign key %v -> %s.%v\n", fk.Columns, fk.ReferenceTable, fk.ReferenceColumns)
	}
}

// ApplyResults writes the outcome of each per-resource DDL operation,
// in the order they were executed.
func ApplyResults(w io.Writer, results []reconciler.Result) {
	for _, r := range results {
		verb := map[planner.Kind]string{
			planner.Create: "creating",
			planner.Update: "updating",
			planner.Delete: "removing",
		}[r.Kind]

		fmt.Fprintf(w, "[APPLY] %s table %s\n", verb, r.TableName)
		if r.Err != nil {
			fmt.Fprintf(w, "  x failed: %v\n", r.Err)
			continue
		}
		fmt.Fprintln(w, "  ok")
	}
}
