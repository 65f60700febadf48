package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaform/internal/core"
	"aquaform/internal/diff"
)

func TestIdentQuotesPostgresAndMySQLDifferently(t *testing.T) {
	assert.Equal(t, `"users"`, Postgres().Ident("users"))
	assert.Equal(t, "`users`", MySQL().Ident("users"))
}

func TestIdentEscapesEmbeddedQuoteChar(t *testing.T) {
	assert.Equal(t, `"weird""name"`, Postgres().Ident(`weird"name`))
	assert.Equal(t, "`weird``name`", MySQL().Ident("weird`name"))
}

func TestForeignKeyNameConvention(t *testing.T) {
	fk := core.ForeignKey{Columns: []string{"user_id"}}
	assert.Equal(t, "posts_user_id_fkey", ForeignKeyName("posts", fk))
}

func TestCreateTableIncludesColumnsPKAndForeignKeys(t *testing.T) {
	def := "CURRENT_TIMESTAMP"
	table := &core.Table{
		Name: "posts",
		Columns: []core.Column{
			{Name: "id", Type: "UUID"},
			{Name: "user_id", Type: "UUID"},
			{Name: "created_at", Type: "TIMESTAMPTZ", Default: &def},
		},
		PrimaryKey: []string{"id"},
		ForeignKeys: []core.ForeignKey{
			{Columns: []string{"user_id"}, ReferenceTable: "users", ReferenceColumns: []string{"id"}, OnDelete: "CASCADE", OnUpdate: "NO ACTION"},
		},
	}

	stmt := CreateTable(table, Postgres())
	assert.Contains(t, stmt, `CREATE TABLE IF NOT EXISTS "posts"`)
	assert.Contains(t, stmt, `"id" UUID NOT NULL`)
	assert.Contains(t, stmt, `"created_at" TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP`)
	assert.Contains(t, stmt, `PRIMARY KEY ("id")`)
	assert.Contains(t, stmt, `FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`)
	assert.NotContains(t, stmt, "ON UPDATE")
}

func TestCreateTableOmitsDefaultActionsOnForeignKey(t *testing.T) {
	table := &core.Table{
		Name: "posts",
		ForeignKeys: []core.ForeignKey{
			{Columns: []string{"user_id"}, ReferenceTable: "users", ReferenceColumns: []string{"id"}, OnDelete: "NO ACTION", OnUpdate: "NO ACTION"},
		},
	}
	stmt := CreateTable(table, Postgres())
	assert.NotContains(t, stmt, "ON DELETE")
	assert.NotContains(t, stmt, "ON UPDATE")
}

func TestDropTableCascadeOnlyWhenRequested(t *testing.T) {
	assert.Equal(t, `DROP TABLE IF EXISTS "users" CASCADE`, DropTable("users", Postgres(), true))
	assert.Equal(t, "DROP TABLE IF EXISTS `users`", DropTable("users", MySQL(), false))
}

func TestAlterStatementsOrderAndContent(t *testing.T) {
	def := "active"
	table := &core.Table{Name: "users"}
	delta := diff.Delta{
		AddColumns:    []core.Column{{Name: "created_at", Type: "TIMESTAMPTZ"}},
		RemoveColumns: []core.Column{{Name: "legacy_flag", Type: "BOOLEAN"}},
		ModifyColumns: []diff.ColumnChange{
			{Old: core.Column{Name: "status", Type: "VARCHAR(20)", Nullable: false},
				New: core.Column{Name: "status", Type: "VARCHAR(20)", Nullable: true, Default: &def}},
		},
		ModifyPrimaryKey: &diff.PrimaryKeyChange{Old: []string{"id"}, New: []string{"id", "tenant_id"}},
		AddForeignKeys: []core.ForeignKey{
			{Columns: []string{"tenant_id"}, ReferenceTable: "tenants", ReferenceColumns: []string{"id"}, OnDelete: "NO ACTION", OnUpdate: "NO ACTION"},
		},
		RemoveForeignKeys: []core.ForeignKey{
			{Columns: []string{"org_id"}, ReferenceTable: "orgs", ReferenceColumns: []string{"id"}},
		},
	}

	stmts := AlterStatements(table, delta, Postgres())
	require.Len(t, stmts, 8)

	assert.Contains(t, stmts[0], `ADD COLUMN "created_at"`)
	assert.Contains(t, stmts[1], `DROP NOT NULL`)
	assert.Contains(t, stmts[2], `SET DEFAULT active`)
	assert.Contains(t, stmts[3], `DROP COLUMN "legacy_flag"`)
	assert.Contains(t, stmts[4], `DROP CONSTRAINT "users_pkey"`)
	assert.Contains(t, stmts[5], `ADD PRIMARY KEY ("id", "tenant_id")`)
	assert.Contains(t, stmts[6], `ADD CONSTRAINT "users_tenant_id_fkey"`)
	assert.Contains(t, stmts[7], `DROP CONSTRAINT "users_org_id_fkey"`)
}

func TestAlterStatementsModifyColumnOnlyEmitsDifferingSubChanges(t *testing.T) {
	table := &core.Table{Name: "users"}
	delta := diff.Delta{
		ModifyColumns: []diff.ColumnChange{
			{Old: core.Column{Name: "email", Type: "VARCHAR(255)"}, New: core.Column{Name: "email", Type: "VARCHAR(320)"}},
		},
	}
	stmts := AlterStatements(table, delta, Postgres())
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "TYPE VARCHAR(320)")
}

func TestAlterStatementsDropDefaultWhenRemoved(t *testing.T) {
	def := "active"
	table := &core.Table{Name: "users"}
	delta := diff.Delta{
		ModifyColumns: []diff.ColumnChange{
			{Old: core.Column{Name: "status", Type: "VARCHAR(20)", Default: &def}, New: core.Column{Name: "status", Type: "VARCHAR(20)"}},
		},
	}
	stmts := AlterStatements(table, delta, Postgres())
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "DROP DEFAULT")
}

func TestAlterStatementsEmptyDeltaYieldsNoStatements(t *testing.T) {
	table := &core.Table{Name: "users"}
	stmts := AlterStatements(table, diff.Delta{}, Postgres())
	assert.Empty(t, stmts)
}

func TestAlterStatementsMySQLUsesModifyDropPrimaryKeyDropForeignKey(t *testing.T) {
	table := &core.Table{Name: "users"}
	delta := diff.Delta{
		ModifyColumns: []diff.ColumnChange{
			{Old: core.Column{Name: "status", Type: "VARCHAR(20)", Nullable: false},
				New: core.Column{Name: "status", Type: "VARCHAR(30)", Nullable: true}},
		},
		ModifyPrimaryKey: &diff.PrimaryKeyChange{Old: []string{"id"}, New: []string{"id", "tenant_id"}},
		RemoveForeignKeys: []core.ForeignKey{
			{Columns: []string{"org_id"}, ReferenceTable: "orgs", ReferenceColumns: []string{"id"}},
		},
	}

	stmts := AlterStatements(table, delta, MySQL())
	require.Len(t, stmts, 4)

	assert.Equal(t, "ALTER TABLE `users` MODIFY COLUMN `status` VARCHAR(30)", stmts[0])
	assert.Equal(t, "ALTER TABLE `users` DROP PRIMARY KEY", stmts[1])
	assert.Equal(t, "ALTER TABLE `users` ADD PRIMARY KEY (`id`, `tenant_id`)", stmts[2])
	assert.Equal(t, "ALTER TABLE `users` DROP FOREIGN KEY `users_org_id_fkey`", stmts[3])
}

func TestAlterStatementsMySQLModifyColumnRestatesNotNullAndDefault(t *testing.T) {
	def := "active"
	table := &core.Table{Name: "users"}
	delta := diff.Delta{
		ModifyColumns: []diff.ColumnChange{
			{Old: core.Column{Name: "status", Type: "VARCHAR(20)", Nullable: true},
				New: core.Column{Name: "status", Type: "VARCHAR(20)", Nullable: false, Default: &def}},
		},
	}
	stmts := AlterStatements(table, delta, MySQL())
	require.Len(t, stmts, 1)
	assert.Equal(t, "ALTER TABLE `users` MODIFY COLUMN `status` VARCHAR(20) NOT NULL DEFAULT active", stmts[0])
}
