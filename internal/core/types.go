// Package core contains the single source of truth for aquaform's data
// model: columns, foreign keys, tables, and the backend they target.
// These are value objects compared structurally; nothing here does I/O.
package core

// Backend identifies a supported reconciliation target.
type Backend string

const (
	BackendPostgresREST Backend = "postgres_rest"
	BackendMySQL        Backend = "mysql"
)

// ResourceType is the `type:` discriminator used in authored YAML.
type ResourceType string

const (
	ResourceSupabaseTable ResourceType = "supabase_table"
	ResourceMySQLTable    ResourceType = "mysql_table"
)

// BackendForResourceType maps a YAML `type:` discriminator to the backend
// that accepts it, or false if the type is not recognized.
func BackendForResourceType(t ResourceType) (Backend, bool) {
	switch t {
	case ResourceSupabaseTable:
		return BackendPostgresREST, true
	case ResourceMySQLTable:
		return BackendMySQL, true
	default:
		return "", false
	}
}

// defaultAction is the implicit ON DELETE / ON UPDATE action when none is
// given; it passes through to DDL verbatim, never interpreted.
const defaultAction = "NO ACTION"

// Column is a single table column. Equality is field-wise over all four
// attributes; the zero value of Default ("no default") is distinct from a
// default that happens to be the empty string, hence the pointer.
type Column struct {
	Name     string
	Type     string
	Nullable bool
	Default  *string
}

// Equal reports whether two columns are identical in every attribute.
func (c Column) Equal(other Column) bool {
	if c.Name != other.Name || c.Type != other.Type || c.Nullable != other.Nullable {
		return false
	}
	return stringPtrEqual(c.Default, other.Default)
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ForeignKey describes one FOREIGN KEY constraint on the owning table.
// Columns and ReferenceColumns are ordered and equal length.
type ForeignKey struct {
	Columns          []string
	ReferenceTable   string
	ReferenceColumns []string
	OnDelete         string
	OnUpdate         string
}

// NormalizeActions fills OnDelete/OnUpdate with the default action when
// either was left empty by the loader.
func (fk *ForeignKey) NormalizeActions() {
	if fk.OnDelete == "" {
		fk.OnDelete = defaultAction
	}
	if fk.OnUpdate == "" {
		fk.OnUpdate = defaultAction
	}
}

// Equal reports whether two foreign keys are identical, including the
// order of their column lists.
func (fk ForeignKey) Equal(other ForeignKey) bool {
	if fk.ReferenceTable != other.ReferenceTable {
		return false
	}
	if fk.OnDelete != other.OnDelete || fk.OnUpdate != other.OnUpdate {
		return false
	}
	return stringSliceEqual(fk.Columns, other.Columns) &&
		stringSliceEqual(fk.ReferenceColumns, other.ReferenceColumns)
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

// Connection holds the backend-specific connection fields for a table.
// Only the fields relevant to the table's backend are populated; the
// others stay zero. Any field may carry a literal "${NAME}" placeholder
// to be resolved at apply time (see internal/vars).
type Connection struct {
	// Postgres-REST.
	URL string `yaml:"url,omitempty" json:"url,omitempty"`
	Key string `yaml:"key,omitempty" json:"key,omitempty"`

	// MySQL.
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
	User     string `yaml:"user,omitempty" json:"user,omitempty"`
	Password string `yaml:"password,omitempty" json:"password,omitempty"`
	Database string `yaml:"database,omitempty" json:"database,omitempty"`
}

// Table is a single desired or recorded table descriptor.
type Table struct {
	ResourceID  string
	Name        string
	Backend     Backend
	Conn        Connection
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// Clone returns a deep copy of the table, so callers may mutate the copy
// (e.g. to resolve variables) without affecting the owner's copy.
func (t *Table) Clone() *Table {
	clone := *t
	clone.Columns = append([]Column(nil), t.Columns...)
	clone.PrimaryKey = append([]string(nil), t.PrimaryKey...)
	clone.ForeignKeys = make([]ForeignKey, len(t.ForeignKeys))
	for i, fk := range t.ForeignKeys {
		fkCopy := fk
		fkCopy.Columns = append([]string(nil), fk.Columns...)
		fkCopy.ReferenceColumns = append([]string(nil), fk.ReferenceColumns...)
		clone.ForeignKeys[i] = fkCopy
	}
	return &clone
}

// ColumnByName returns the column with the given name, if any.
func (t *Table) ColumnByName(name string) (Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
