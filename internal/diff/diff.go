// Package diff computes the structural delta between two table
// descriptors sharing a resource ID: which columns to add, modify, or
// drop; whether the primary key changed; which foreign keys to add or
// drop. It is pure data comparison - no I/O, no logging.
package diff

import "aquaform/internal/core"

// ColumnChange pairs a column's old and new definitions; Old and New
// always share the same Name.
type ColumnChange struct {
	Old core.Column
	New core.Column
}

// PrimaryKeyChange carries both primary key orderings when they differ.
type PrimaryKeyChange struct {
	Old []string
	New []string
}

// Delta is the structural difference between a recorded table and its
// desired counterpart. Any field may be empty/nil. A foreign key whose
// owning-column tuple appears in both Old and New but whose other fields
// differ is emitted as both a removal and an addition (treat as
// drop-recreate, §4.4).
type Delta struct {
	AddColumns    []core.Column
	RemoveColumns []core.Column
	ModifyColumns []ColumnChange

	ModifyPrimaryKey *PrimaryKeyChange

	AddForeignKeys    []core.ForeignKey
	RemoveForeignKeys []core.ForeignKey
}

// IsEmpty reports whether the delta contains no changes at all.
func (d Delta) IsEmpty() bool {
	return len(d.AddColumns) == 0 &&
		len(d.RemoveColumns) == 0 &&
		len(d.ModifyColumns) == 0 &&
		d.ModifyPrimaryKey == nil &&
		len(d.AddForeignKeys) == 0 &&
		len(d.RemoveForeignKeys) == 0
}

// Diff compares old and new (same resource, same name) and returns their
// delta. Output order is deterministic: additions/modifications follow
// the order of appearance in new, removals follow the order of appearance
// in old (§4.4). Diff(t, t) is always empty (§8 property 2).
func Diff(old, new *core.Table) Delta {
	var d Delta

	oldCols := indexColumns(old.Columns)
	newCols := indexColumns(new.Columns)

	for _, nc := range new.Columns {
		oc, ok := oldCols[nc.Name]
		if !ok {
			d.AddColumns = append(d.AddColumns, nc)
			continue
		}
		if !nc.Equal(oc) {
			d.ModifyColumns = append(d.ModifyColumns, ColumnChange{Old: oc, New: nc})
		}
	}
	for _, oc := range old.Columns {
		if _, ok := newCols[oc.Name]; !ok {
			d.RemoveColumns = append(d.RemoveColumns, oc)
		}
	}

	if !stringSliceEqual(old.PrimaryKey, new.PrimaryKey) {
		d.ModifyPrimaryKey = &PrimaryKeyChange{Old: old.PrimaryKey, New: new.PrimaryKey}
	}

	oldFKs := indexForeignKeys(old.ForeignKeys)
	newFKs := indexForeignKeys(new.ForeignKeys)

	for _, nfk := range new.ForeignKeys {
		key := fkKey(nfk.Columns)
		ofk, ok := oldFKs[key]
		switch {
		case !ok:
			d.AddForeignKeys = append(d.AddForeignKeys, nfk)
		case !nfk.Equal(ofk):
			d.RemoveForeignKeys = append(d.RemoveForeignKeys, ofk)
			d.AddForeignKeys = append(d.AddForeignKeys, nfk)
		}
	}
	for _, ofk := range old.ForeignKeys {
		if _, ok := newFKs[fkKey(ofk.Columns)]; !ok {
			d.RemoveForeignKeys = append(d.RemoveForeignKeys, ofk)
		}
	}

	return d
}

func indexColumns(cols []core.Column) map[string]core.Column {
	m := make(map[string]core.Column, len(cols))
	for _, c := range cols {
		m[c.Name] = c
	}
	return m
}

func indexForeignKeys(fks []core.ForeignKey) map[string]core.ForeignKey {
	m := make(map[string]core.ForeignKey, len(fks))
	for _, fk := range fks {
		m[fkKey(fk.Columns)] = fk
	}
	return m
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// fkKey identifies a foreign key by its owning columns, per §4.4.
func fkKey(columns []string) string {
	key := ""
	for i, c := range columns {
		if i > 0 {
			key += "\x00"
		}
		key += c
	}
	return key
}
