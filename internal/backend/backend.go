// Package backend defines the adapter contract a concrete database
// client implements to execute planned changes, plus a registry so the
// reconciler can look one up by core.Backend without importing the
// concrete packages directly.
package backend

import (
	"context"
	"fmt"
	"sync"

	"aquaform/internal/core"
	"aquaform/internal/diff"
)

// Adapter executes DDL against one live database. Exists is optional -
// the reconciler never requires it, since the state file is the source
// of truth for whether a resource was already created.
type Adapter interface {
	Exists(ctx context.Context, tableName string) (bool, error)
	Create(ctx context.Context, table *core.Table) error
	Alter(ctx context.Context, table *core.Table, delta diff.Delta) error
	Drop(ctx context.Context, tableName string) error
}

// Factory builds an Adapter bound to a single table's connection
// descriptor.
type Factory func(conn core.Connection) (Adapter, error)

var (
	registryMu sync.RWMutex
	registry   = map[core.Backend]Factory{}
)

// Register installs factory under name. Intended to run from an init
// function in the concrete backend package.
func Register(name core.Backend, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Get looks up the factory registered for name and builds an Adapter
// for conn.
func Get(name core.Backend, conn core.Connection) (Adapter, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("backend %q is not registered", name)
	}
	return factory(conn)
}
