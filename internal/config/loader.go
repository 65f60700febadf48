// Package config loads YAML table descriptors into core.Table values,
// validating each against the §3 invariants. A malformed file or a
// malformed resource within an otherwise-good file is reported and
// skipped rather than aborting the whole load (§4.1).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aquaform/internal/core"
)

// LoadError records one skipped file or resource. It never aborts
// Load - the caller decides whether any LoadErrors are fatal.
type LoadError struct {
	File       string
	ResourceID string
	Err        error
}

func (e *LoadError) Error() string {
	if e.ResourceID != "" {
		return fmt.Sprintf("%s: resource %q: %v", e.File, e.ResourceID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Result is the aggregated outcome of loading one or more files.
type Result struct {
	Tables map[string]*core.Table
	Errors []*LoadError
}

// resourceTypeFor returns the YAML "type" discriminator accepted for
// backend.
func resourceTypeFor(backend core.Backend) string {
	switch backend {
	case core.BackendPostgresREST:
		return string(core.ResourceSupabaseTable)
	case core.BackendMySQL:
		return string(core.ResourceMySQLTable)
	default:
		return ""
	}
}

// Load parses each file in paths and merges their resources into one
// map keyed by resource ID. Descriptors whose type does not match
// backend are ignored. Duplicate resource IDs across files: last file
// wins (§4.1's documented open question, resolved as last-wins to match
// the source's plain dict-assignment semantics in `_load_config`).
func Load(paths []string, backend core.Backend) Result {
	result := Result{Tables: map[string]*core.Table{}}
	wantType := resourceTypeFor(backend)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			result.Errors = append(result.Errors, &LoadError{File: path, Err: err})
			continue
		}

		var doc yamlFile
		if err := yaml.Unmarshal(data, &doc); err != nil {
			result.Errors = append(result.Errors, &LoadError{File: path, Err: err})
			continue
		}
		if doc.Resources == nil {
			result.Errors = append(result.Errors, &LoadError{File: path, Err: fmt.Errorf("missing top-level 'resources' mapping")})
			continue
		}

		for resourceID, resource := range doc.Resources {
			if resource.Type != wantType {
				continue
			}
			table, err := convert(resourceID, resource, backend)
			if err != nil {
				result.Errors = append(result.Errors, &LoadError{File: path, ResourceID: resourceID, Err: err})
				continue
			}
			if violations := table.Validate(); len(violations) > 0 {
				result.Errors = append(result.Errors, &LoadError{File: path, ResourceID: resourceID, Err: fmt.Errorf("%v", violations)})
				continue
			}
			result.Tables[resourceID] = table
		}
	}

	return result
}

func convert(resourceID string, r yamlResource, backend core.Backend) (*core.Table, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("missing required key: name")
	}
	if len(r.Columns) == 0 {
		return nil, fmt.Errorf("missing required key: columns")
	}
	if len(r.PrimaryKey) == 0 {
		return nil, fmt.Errorf("missing required key: primary_key")
	}

	columns := make([]core.Column, 0, len(r.Columns))
	for _, c := range r.Columns {
		if c.Name == "" || c.Type == "" {
			return nil, fmt.Errorf("column missing required key: name or type")
		}
		columns = append(columns, core.Column{
			Name: c.Name, Type: c.Type, Nullable: c.Nullable, Default: c.Default,
		})
	}

	var fks []core.ForeignKey
	for _, fk := range r.ForeignKeys {
		if fk.ReferenceTable == "" {
			return nil, fmt.Errorf("foreign key missing required key: reference_table")
		}
		converted := core.ForeignKey{
			Columns:          []string(fk.Columns),
			ReferenceTable:   fk.ReferenceTable,
			ReferenceColumns: []string(fk.ReferenceColumns),
			OnDelete:         fk.OnDelete,
			OnUpdate:         fk.OnUpdate,
		}
		converted.NormalizeActions()
		fks = append(fks, converted)
	}

	table := &core.Table{
		ResourceID:  resourceID,
		Name:        r.Name,
		Backend:     backend,
		Columns:     columns,
		PrimaryKey:  []string(r.PrimaryKey),
		ForeignKeys: fks,
	}
	switch backend {
	case core.BackendPostgresREST:
		if r.URL == "" || r.Key == "" {
			return nil, fmt.Errorf("missing required key: url or key")
		}
		table.Conn = core.Connection{URL: r.URL, Key: r.Key}
	case core.BackendMySQL:
		if r.Host == "" || r.User == "" || r.Database == "" {
			return nil, fmt.Errorf("missing required key: host, user, or database")
		}
		table.Conn = core.Connection{Host: r.Host, User: r.User, Password: r.Password, Database: r.Database}
	}

	return table, nil
}
