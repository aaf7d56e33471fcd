package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"add clients table":  "add_clients_table",
		"Add-Clients-Table":  "add_clients_table",
		"ADD__CLIENTS":       "add_clients",
		"tenants v2":         "tenants_v2",
		"  padded  ":         "padded",
		"diacritice!@#şţ":    "diacritice",
		"trailing_":          "trailing",
		"_leading":           "leading",
		"":                   "",
	}
	for input, expected := range cases {
		assert.Equal(t, expected, sanitizeName(input), "input %q", input)
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()

	mf, err := CreateMigration(dir, "add clients table", "clients with tenant scoping")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14, "version is a sortable timestamp")
	assert.Equal(t, "add clients table", mf.Name)

	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase, "up and down share the base name")
	assert.Equal(t, mf.Version+"_add_clients_table", upBase)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "add clients table")
	assert.Contains(t, string(up), "clients with tenant scoping")
	assert.Contains(t, string(up), "tenant_id")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "rollback")

	t.Run("missing directory is created", func(t *testing.T) {
		nested := filepath.Join(dir, "nested", "migrations")
		_, err := CreateMigration(nested, "init", "")
		require.NoError(t, err)

		info, err := os.Stat(nested)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("empty description falls back to the name", func(t *testing.T) {
		mf, err := CreateMigration(t.TempDir(), "seed plans", "")
		require.NoError(t, err)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "seed plans")
	})
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()

	pairs := []string{
		"000002_add_clients",
		"000001_init_schema",
		"000003_add_invoices",
	}
	for _, base := range pairs {
		require.NoError(t, os.WriteFile(filepath.Join(dir, base+".up.sql"), []byte("-- up"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, base+".down.sql"), []byte("-- down"), 0o644))
	}
	// Noise that must not show up in the listing.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitkeep"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"000001_init_schema",
		"000002_add_clients",
		"000003_add_invoices",
	}, migrations, "sorted by version, one entry per pair")

	t.Run("empty directory", func(t *testing.T) {
		migrations, err := ListMigrations(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})

	t.Run("missing directory", func(t *testing.T) {
		migrations, err := ListMigrations(filepath.Join(dir, "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, migrations)
	})
}
