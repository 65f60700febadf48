// Package mysqlb implements the backend.Adapter contract against MySQL
// using database/sql and the go-sql-driver/mysql driver, opening and
// closing a connection per call (§5's scoped-acquisition model - there
// is no connection pooling across reconciler operations).
package mysqlb

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"aquaform/internal/backend"
	"aquaform/internal/core"
	"aquaform/internal/ddl"
	"aquaform/internal/diff"
)

func init() {
	backend.Register(core.BackendMySQL, func(conn core.Connection) (backend.Adapter, error) {
		return New(conn), nil
	})
}

// Adapter executes DDL against a MySQL database via a per-call
// connection.
type Adapter struct {
	conn core.Connection
}

// New builds an Adapter bound to conn. Connection fields are expected
// to already be resolved (§4.3 happens before the adapter is invoked).
func New(conn core.Connection) *Adapter {
	return &Adapter{conn: conn}
}

func (a *Adapter) open(ctx context.Context) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&timeout=5s",
		a.conn.User, a.conn.Password, a.conn.Host, a.conn.Database)
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mysql not reachable: %w", err)
	}
	return db, nil
}

// Exists reports whether tableName exists via SHOW TABLES LIKE.
func (a *Adapter) Exists(ctx context.Context, tableName string) (bool, error) {
	db, err := a.open(ctx)
	if err != nil {
		return false, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SHOW TABLES LIKE ?", tableName)
	if err != nil {
		return false, fmt.Errorf("show tables: %w", err)
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// Create issues a CREATE TABLE IF NOT EXISTS for table.
func (a *Adapter) Create(ctx context.Context, table *core.Table) error {
	db, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, ddl.CreateTable(table, ddl.MySQL()))
	return err
}

// Alter issues delta's statements sequentially over one connection,
// stopping at the first failure.
func (a *Adapter) Alter(ctx context.Context, table *core.Table, delta diff.Delta) error {
	db, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range ddl.AlterStatements(table, delta, ddl.MySQL()) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("alter %s: %w", table.Name, err)
		}
	}
	return nil
}

// Drop issues DROP TABLE IF EXISTS without CASCADE - MySQL has no such
// clause; prior foreign-key teardown is the caller's responsibility
// (§4.7).
func (a *Adapter) Drop(ctx context.Context, tableName string) error {
	db, err := a.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, ddl.DropTable(tableName, ddl.MySQL(), false))
	return err
}
