package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create_products", "create_products"},
		{"Add Rating Column", "add_rating_column"},
		{"add--index", "add_index"},
		{"drop table!", "drop_table"},
		{"  trailing ", "trailing"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestEmbeddedMigrations(t *testing.T) {
	migrations, err := ListMigrations(Source())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_create_products",
		"000002_create_users",
		"000003_create_orders",
		"000004_create_session_entries",
	}, migrations)
}

func TestCreateMigration_Sequential(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "migrations")

	first, err := CreateMigration(dir, "create products", "Products table")
	require.NoError(t, err)
	assert.Equal(t, "000001", first.Version)
	assert.FileExists(t, first.UpPath)
	assert.FileExists(t, first.DownPath)

	content, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "-- Products table")

	second, err := CreateMigration(dir, "add-index", "")
	require.NoError(t, err)
	assert.Equal(t, "000002", second.Version)
	assert.Equal(t, filepath.Join(dir, "000002_add_index.up.sql"), second.UpPath)

	migrations, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_create_products", "000002_add_index"}, migrations)
}

func TestListMigrations_IgnoresOtherEntries(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "000001_a.down.sql"), []byte(""), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "000002_b.up.sql"), 0o755))

	migrations, err := ListMigrations(os.DirFS(dir))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestListMigrations_MissingDirectory(t *testing.T) {
	migrations, err := ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "nope")))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}
