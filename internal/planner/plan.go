// Package planner combines the state snapshot and the diff engine to
// produce an ordered set of typed change records: one per resource that
// needs to be created, updated, or deleted to bring the live database
// in line with the desired configuration.
package planner

import (
	"sort"

	"aquaform/internal/core"
	"aquaform/internal/diff"
)

// Kind discriminates a PlannedChange's variant.
type Kind int

const (
	Create Kind = iota
	Update
	Delete
)

func (k Kind) String() string {
	switch k {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// PlannedChange is a tagged variant: Create carries Table, Update
// carries Table and Delta, Delete carries TableName and RecordedConn.
// Only the fields relevant to Kind are populated; this is the sum type
// the source's string-discriminated `action` field is replaced with.
type PlannedChange struct {
	Kind       Kind
	ResourceID string

	// Create, Update
	Table *core.Table

	// Update only
	Delta *diff.Delta

	// Delete only
	TableName    string
	RecordedConn core.Connection
}

// Plan compares desired against recorded and returns the set of changes
// needed to reconcile them, per §4.6. Iteration over desired and
// recorded is sorted by resource ID so the result is deterministic.
func Plan(desired map[string]*core.Table, recorded map[string]core.Table) []PlannedChange {
	var changes []PlannedChange

	for _, resourceID := range sortedKeysTables(desired) {
		table := desired[resourceID]
		rec, ok := recorded[resourceID]
		if !ok {
			changes = append(changes, PlannedChange{
				Kind:       Create,
				ResourceID: resourceID,
				Table:      table,
			})
			continue
		}
		d := diff.Diff(&rec, table)
		if !d.IsEmpty() {
			changes = append(changes, PlannedChange{
				Kind:       Update,
				ResourceID: resourceID,
				Table:      table,
				Delta:      &d,
			})
		}
	}

	for _, resourceID := range sortedKeysRecorded(recorded) {
		if _, ok := desired[resourceID]; ok {
			continue
		}
		rec := recorded[resourceID]
		changes = append(changes, PlannedChange{
			Kind:         Delete,
			ResourceID:   resourceID,
			TableName:    rec.Name,
			RecordedConn: rec.Conn,
		})
	}

	return changes
}

// Partition splits changes into phase buckets keyed by table name, per
// §4.8 step 2. A Delete's key is TableName; Create/Update key on
// Table.Name.
func Partition(changes []PlannedChange) (creates, updates, deletes map[string]PlannedChange) {
	creates = make(map[string]PlannedChange)
	updates = make(map[string]PlannedChange)
	deletes = make(map[string]PlannedChange)
	for _, c := range changes {
		switch c.Kind {
		case Create:
			creates[c.Table.Name] = c
		case Update:
			updates[c.Table.Name] = c
		case Delete:
			deletes[c.TableName] = c
		}
	}
	return creates, updates, deletes
}

func sortedKeysTables(m map[string]*core.Table) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeysRecorded(m map[string]core.Table) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
