package modelgen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aquaform/internal/config"
	"aquaform/internal/core"
)

func TestGeneratePostgresTemplateParsesAndValidates(t *testing.T) {
	content, name, err := Generate("postgres_rest")
	require.NoError(t, err)
	assert.Equal(t, "aqua.model.yaml", name)

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	result := config.Load([]string{path}, core.BackendPostgresREST)
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Tables, "users_table")
	assert.Contains(t, result.Tables, "posts_table")
	assert.Contains(t, result.Tables, "comments_table")
}

func TestGenerateMySQLTemplateParsesAndValidates(t *testing.T) {
	content, name, err := Generate("mysql")
	require.NoError(t, err)
	assert.Equal(t, "aquamy.model.yaml", name)

	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	result := config.Load([]string{path}, core.BackendMySQL)
	require.Empty(t, result.Errors)
	assert.Contains(t, result.Tables, "users_table")
	assert.Contains(t, result.Tables, "posts_table")
}

func TestGenerateUnknownBackendErrors(t *testing.T) {
	_, _, err := Generate("sqlite")
	assert.Error(t, err)
}
