// Package ddl renders core.Table and diff.Delta values into the DDL
// statement text a backend adapter issues. CREATE TABLE, DROP TABLE,
// and adding a foreign key are identical in shape across both shipped
// backends (only identifier quoting and DROP TABLE's CASCADE vary), so
// one builder serves them both. Column modification, primary key
// replacement, and foreign key removal use different statement forms
// in MySQL (MODIFY COLUMN, DROP PRIMARY KEY, DROP FOREIGN KEY) than in
// Postgres (ALTER COLUMN, DROP CONSTRAINT) - see aquaformmy.py's
// alter_table - so those branch on the Quoter's dialect.
package ddl

import (
	"fmt"
	"strings"

	"aquaform/internal/core"
	"aquaform/internal/diff"
)

// Quoter supplies the identifier-quoting and ALTER-statement dialect
// that varies between backends.
type Quoter struct {
	open, close string
	mysql       bool
}

// Postgres quotes identifiers with double quotes.
func Postgres() Quoter { return Quoter{open: `"`, close: `"`} }

// MySQL quotes identifiers with backticks.
func MySQL() Quoter { return Quoter{open: "`", close: "`", mysql: true} }

// Ident quotes name, doubling any embedded quote character.
func (q Quoter) Ident(name string) string {
	escaped := strings.ReplaceAll(name, q.close, q.close+q.close)
	return q.open + escaped + q.close
}

// ForeignKeyName returns the constraint name both backends use for fk,
// per §4.7: "<table>_<first_column>_fkey". Two foreign keys sharing a
// first column collide under this convention; that is a documented
// limitation, not a bug in this function.
func ForeignKeyName(tableName string, fk core.ForeignKey) string {
	first := ""
	if len(fk.Columns) > 0 {
		first = fk.Columns[0]
	}
	return fmt.Sprintf("%s_%s_fkey", tableName, first)
}

// CreateTable renders an idempotent "create if not exists" statement
// for table, with columns in declared order, a single PK constraint if
// primary_key is non-empty, and each foreign key expressed inline.
func CreateTable(table *core.Table, q Quoter) string {
	var parts []string
	for _, c := range table.Columns {
		parts = append(parts, columnDefinition(c, q))
	}
	if len(table.PrimaryKey) > 0 {
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", quoteIdentList(table.PrimaryKey, q)))
	}
	for _, fk := range table.ForeignKeys {
		parts = append(parts, inlineForeignKey(fk, q))
	}

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)",
		q.Ident(table.Name), strings.Join(parts, ",\n  "))
}

func columnDefinition(c core.Column, q Quoter) string {
	def := fmt.Sprintf("%s %s", q.Ident(c.Name), c.Type)
	if !c.Nullable {
		def += " NOT NULL"
	}
	if c.Default != nil {
		def += " DEFAULT " + *c.Default
	}
	return def
}

func inlineForeignKey(fk core.ForeignKey, q Quoter) string {
	stmt := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
		quoteIdentList(fk.Columns, q), q.Ident(fk.ReferenceTable), quoteIdentList(fk.ReferenceColumns, q))
	if fk.OnDelete != "" && fk.OnDelete != "NO ACTION" {
		stmt += " ON DELETE " + fk.OnDelete
	}
	if fk.OnUpdate != "" && fk.OnUpdate != "NO ACTION" {
		stmt += " ON UPDATE " + fk.OnUpdate
	}
	return stmt
}

func quoteIdentList(names []string, q Quoter) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = q.Ident(n)
	}
	return strings.Join(quoted, ", ")
}

// DropTable renders an idempotent drop. cascade SHOULD be true for
// Postgres and false for MySQL (§4.7).
func DropTable(tableName string, q Quoter, cascade bool) string {
	stmt := fmt.Sprintf("DROP TABLE IF EXISTS %s", q.Ident(tableName))
	if cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// AlterStatements renders delta as an ordered sequence of independent
// DDL statements: add columns, modify columns, drop columns, replace
// primary key, add foreign keys, drop foreign keys (§4.7). On Postgres,
// column modification emits only the sub-changes that actually differ;
// on MySQL it restates the whole column in one MODIFY COLUMN.
func AlterStatements(table *core.Table, delta diff.Delta, q Quoter) []string {
	var stmts []string
	ident := q.Ident(table.Name)

	for _, c := range delta.AddColumns {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", ident, columnDefinition(c, q)))
	}

	for _, change := range delta.ModifyColumns {
		stmts = append(stmts, modifyColumnStatements(ident, change, q)...)
	}

	for _, c := range delta.RemoveColumns {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", ident, q.Ident(c.Name)))
	}

	if delta.ModifyPrimaryKey != nil {
		if q.mysql {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP PRIMARY KEY", ident))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", ident, q.Ident(table.Name+"_pkey")))
		}
		if len(delta.ModifyPrimaryKey.New) > 0 {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD PRIMARY KEY (%s)", ident, quoteIdentList(delta.ModifyPrimaryKey.New, q)))
		}
	}

	for _, fk := range delta.AddForeignKeys {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s",
			ident, q.Ident(ForeignKeyName(table.Name, fk)), inlineForeignKey(fk, q)))
	}

	for _, fk := range delta.RemoveForeignKeys {
		if q.mysql {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s", ident, q.Ident(ForeignKeyName(table.Name, fk))))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", ident, q.Ident(ForeignKeyName(table.Name, fk))))
		}
	}

	return stmts
}

// modifyColumnStatements renders one diff.ColumnChange as the
// dialect-appropriate ALTER statement(s). MySQL restates the whole
// column in a single MODIFY COLUMN; Postgres issues one ALTER COLUMN
// per differing sub-change (type, nullability, default).
func modifyColumnStatements(tableIdent string, change diff.ColumnChange, q Quoter) []string {
	if q.mysql {
		return []string{fmt.Sprintf("ALTER TABLE %s MODIFY COLUMN %s", tableIdent, columnDefinition(change.New, q))}
	}

	var stmts []string
	colIdent := q.Ident(change.New.Name)

	if change.Old.Type != change.New.Type {
		stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", tableIdent, colIdent, change.New.Type))
	}
	if change.Old.Nullable != change.New.Nullable {
		if change.New.Nullable {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", tableIdent, colIdent))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", tableIdent, colIdent))
		}
	}
	if !stringPtrEqual(change.Old.Default, change.New.Default) {
		if change.New.Default == nil {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", tableIdent, colIdent))
		} else {
			stmts = append(stmts, fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", tableIdent, colIdent, *change.New.Default))
		}
	}
	return stmts
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
