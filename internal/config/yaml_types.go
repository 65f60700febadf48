package config

// yamlFile is the top-level shape of one aqua.*.yaml / aquamy.*.yaml
// document: a mapping from resource ID to resource descriptor.
type yamlFile struct {
	Resources map[string]yamlResource `yaml:"resources"`
}

// yamlResource mirrors aquaform.py's Table.from_dict field set across
// both backends. Fields irrelevant to the active backend's Type are
// simply left zero.
type yamlResource struct {
	Type string `yaml:"type"`
	Name string `yaml:"name"`

	// Postgres-REST connection fields.
	URL string `yaml:"url"`
	Key string `yaml:"key"`

	// MySQL connection fields.
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	Columns     []yamlColumn     `yaml:"columns"`
	PrimaryKey  oneOrMany        `yaml:"primary_key"`
	ForeignKeys []yamlForeignKey `yaml:"foreign_keys"`
}

type yamlColumn struct {
	Name     string  `yaml:"name"`
	Type     string  `yaml:"type"`
	Nullable bool    `yaml:"nullable"`
	Default  *string `yaml:"default"`
}

type yamlForeignKey struct {
	Columns          oneOrMany `yaml:"columns"`
	ReferenceTable   string    `yaml:"reference_table"`
	ReferenceColumns oneOrMany `yaml:"reference_columns"`
	OnDelete         string    `yaml:"on_delete"`
	OnUpdate         string    `yaml:"on_update"`
}
