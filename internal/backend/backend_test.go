package backend

import (
	"context"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaform/internal/core"
	"aquaform/internal/diff"
)

type mockAdapter struct {
	conn core.Connection
}

func (m *mockAdapter) Exists(ctx context.Context, tableName string) (bool, error) { return false, nil }
func (m *mockAdapter) Create(ctx context.Context, table *core.Table) error        { return nil }
func (m *mockAdapter) Alter(ctx context.Context, table *core.Table, delta diff.Delta) error {
	return nil
}
func (m *mockAdapter) Drop(ctx context.Context, tableName string) error { return nil }

func withCleanRegistry(t *testing.T) {
	t.Helper()
	original := make(map[core.Backend]Factory)
	maps.Copy(original, registry)
	t.Cleanup(func() {
		registryMu.Lock()
		registry = original
		registryMu.Unlock()
	})
	registryMu.Lock()
	registry = make(map[core.Backend]Factory)
	registryMu.Unlock()
}

func TestRegisterAndGet(t *testing.T) {
	withCleanRegistry(t)

	testBackend := core.Backend("test_backend")
	Register(testBackend, func(conn core.Connection) (Adapter, error) {
		return &mockAdapter{conn: conn}, nil
	})

	adapter, err := Get(testBackend, core.Connection{Host: "db.internal"})
	require.NoError(t, err)
	require.NotNil(t, adapter)
	assert.Equal(t, "db.internal", adapter.(*mockAdapter).conn.Host)
}

func TestGetUnregisteredBackendReturnsError(t *testing.T) {
	withCleanRegistry(t)

	_, err := Get(core.Backend("nonexistent"), core.Connection{})
	assert.Error(t, err)
}

func TestRegisterOverwritesExistingFactory(t *testing.T) {
	withCleanRegistry(t)

	testBackend := core.Backend("test_backend")
	Register(testBackend, func(conn core.Connection) (Adapter, error) {
		return &mockAdapter{conn: core.Connection{Host: "first"}}, nil
	})
	Register(testBackend, func(conn core.Connection) (Adapter, error) {
		return &mockAdapter{conn: core.Connection{Host: "second"}}, nil
	})

	adapter, err := Get(testBackend, core.Connection{})
	require.NoError(t, err)
	assert.Equal(t, "second", adapter.(*mockAdapter).conn.Host)
}
