// Package postgrest implements the backend.Adapter contract against a
// Postgres instance fronted by a PostgREST-compatible RPC endpoint,
// executing raw SQL through an "execute_sql" remote procedure - the
// same mechanism the Postgres-REST original relies on.
package postgrest

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"

	"aquaform/internal/backend"
	"aquaform/internal/core"
	"aquaform/internal/ddl"
	"aquaform/internal/diff"
)

func init() {
	backend.Register(core.BackendPostgresREST, func(conn core.Connection) (backend.Adapter, error) {
		return New(conn), nil
	})
}

// Adapter executes DDL against a Supabase-style Postgres-REST endpoint.
type Adapter struct {
	conn   core.Connection
	client *resty.Client
}

// New builds an Adapter bound to conn. Connection fields are expected
// to already be resolved (§4.3 happens before the adapter is invoked).
func New(conn core.Connection) *Adapter {
	client := resty.New().
		SetBaseURL(conn.URL).
		SetHeader("apikey", conn.Key).
		SetHeader("Authorization", "Bearer "+conn.Key).
		SetHeader("Content-Type", "application/json")
	return &Adapter{conn: conn, client: client}
}

type rpcResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (a *Adapter) execute(ctx context.Context, sql string) error {
	var result rpcResult
	resp, err := a.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"command": sql}).
		SetResult(&result).
		Post("/rest/v1/rpc/execute_sql")
	if err != nil {
		return fmt.Errorf("execute_sql request: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("execute_sql returned %s: %s", resp.Status(), resp.String())
	}
	if result.Error != "" || (!result.Success && result.Error != "") {
		return fmt.Errorf("execute_sql: %s", result.Error)
	}
	return nil
}

// Exists is unsupported: PostgREST's execute_sql RPC has no structured
// way to report "relation does not exist" short of parsing the error
// text, and the reconciler never relies on it.
func (a *Adapter) Exists(ctx context.Context, tableName string) (bool, error) {
	return false, fmt.Errorf("postgrest: Exists is not supported")
}

// Create issues a CREATE TABLE IF NOT EXISTS for table.
func (a *Adapter) Create(ctx context.Context, table *core.Table) error {
	return a.execute(ctx, ddl.CreateTable(table, ddl.Postgres()))
}

// Alter issues delta's statements sequentially, stopping at the first
// failure.
func (a *Adapter) Alter(ctx context.Context, table *core.Table, delta diff.Delta) error {
	for _, stmt := range ddl.AlterStatements(table, delta, ddl.Postgres()) {
		if err := a.execute(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Drop issues DROP TABLE IF EXISTS ... CASCADE, per §4.7.
func (a *Adapter) Drop(ctx context.Context, tableName string) error {
	return a.execute(ctx, ddl.DropTable(tableName, ddl.Postgres(), true))
}
