package core

import "fmt"

// Validate enforces the §3 invariants that must hold after loading: unique
// column names, a primary key drawn from existing columns, and foreign
// keys whose owning columns exist and whose reference list is the same
// length as the owning column list. It returns every violation found
// rather than stopping at the first one, so a caller can report them all
// at once.
func (t *Table) Validate() []error {
	var errs []error

	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			errs = append(errs, fmt.Errorf("duplicate column %q", c.Name))
			continue
		}
		seen[c.Name] = true
	}

	if len(t.PrimaryKey) == 0 {
		errs = append(errs, fmt.Errorf("primary_key must name at least one column"))
	}
	for _, name := range t.PrimaryKey {
		if !seen[name] {
			errs = append(errs, fmt.Errorf("primary_key references unknown column %q", name))
		}
	}

	for _, fk := range t.ForeignKeys {
		if len(fk.Columns) == 0 {
			errs = append(errs, fmt.Errorf("foreign key on %q has no columns", fk.ReferenceTable))
			continue
		}
		if len(fk.Columns) != len(fk.ReferenceColumns) {
			errs = append(errs, fmt.Errorf(
				"foreign key on %v has %d columns but %d reference_columns",
				fk.Columns, len(fk.Columns), len(fk.ReferenceColumns)))
		}
		for _, name := range fk.Columns {
			if !seen[name] {
				errs = append(errs, fmt.Errorf("foreign key references unknown column %q", name))
			}
		}
	}

	return errs
}
