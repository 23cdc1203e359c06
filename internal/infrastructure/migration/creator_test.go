package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/pulosarok/desa/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add letter index", "add_letter_index"},
		{"Add-Letter-Index", "add_letter_index"},
		{"add__letter__index", "add_letter_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading and trailing_", "leading_and_trailing"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 3, 9, 10, 30, 0, 0, time.UTC)

	mf, err := createMigrationAt(dir, "Add letter index", "speed up public code lookups", at)
	require.NoError(t, err)
	assert.Equal(t, "20260309103000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20260309103000_add_letter_index.up.sql"), mf.UpPath)
	assert.Equal(t, filepath.Join(dir, "20260309103000_add_letter_index.down.sql"), mf.DownPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_letter_index")
	assert.Contains(t, string(up), "speed up public code lookups")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	_, err = createMigrationAt(dir, "Add letter index", "", at)
	assert.Error(t, err, "existing files are never overwritten")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"20260302000000_b.up.sql":     {},
		"20260302000000_b.down.sql":   {},
		"20260301000000_a.up.sql":     {},
		"20260301000000_a.down.sql":   {},
		"README.md":                   {},
		"sub/20260303000000_c.up.sql": {},
	}
	names, err := ListMigrations(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260301000000_a", "20260302000000_b"}, names)

	names, err = ListMigrations(os.DirFS(filepath.Join(t.TempDir(), "missing")))
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	names, err := ListMigrations(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, names)
	for _, name := range names {
		_, err := migrations.FS.Open(name + downSuffix)
		assert.NoError(t, err, "missing rollback for %s", name)
	}
}
