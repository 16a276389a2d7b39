package migration

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/Patrickscodegit/Beconnect-sub010/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"add tariff notes":        "add_tariff_notes",
		"Add-Port-Regions":        "add_port_regions",
		"ADD__SCHEDULE__INDEX":    "add_schedule_index",
		"  spaced  ":              "spaced",
		"special!@#$chars":        "specialchars",
		"trailing_":               "trailing",
		"_leading":                "leading",
		"quotation 2 attachments": "quotation_2_attachments",
		"":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slugify(in), in)
	}
}

func TestParseFileName(t *testing.T) {
	v, name, dir, ok := parseFileName("000012_add_vat_codes.down.sql")
	require.True(t, ok)
	assert.Equal(t, uint(12), v)
	assert.Equal(t, "add_vat_codes", name)
	assert.Equal(t, "down", dir)

	for _, bad := range []string{"README.md", "000001_init.sql", "init_schema.up.sql", "0001.up.sql"} {
		_, _, _, ok := parseFileName(bad)
		assert.False(t, ok, bad)
	}
}

func TestList(t *testing.T) {
	fsys := fstest.MapFS{
		"000002_ports.up.sql":   {},
		"000001_init.up.sql":    {},
		"000001_init.down.sql":  {},
		"000010_quotes.up.sql":  {},
		"embed.go":              {},
		"notes/000003_x.up.sql": {},
	}
	entries, err := List(fsys)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, Entry{Version: 1, Name: "init", HasDown: true}, entries[0])
	assert.Equal(t, Entry{Version: 2, Name: "ports"}, entries[1])
	assert.Equal(t, uint(10), entries[2].Version)
}

func TestList_EmbeddedSchemaIsPaired(t *testing.T) {
	entries, err := List(migrations.FS)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, uint(1), entries[0].Version)
	for _, e := range entries {
		assert.True(t, e.HasDown, "migration %06d_%s has no down file", e.Version, e.Name)
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()

	first, err := Create(dir, "add tariff notes", "Free text on carrier tariffs")
	require.NoError(t, err)
	assert.Equal(t, uint(1), first.Version)
	assert.Equal(t, filepath.Join(dir, "000001_add_tariff_notes.up.sql"), first.UpPath)

	up, err := os.ReadFile(first.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_tariff_notes")
	assert.Contains(t, string(up), "-- Description: Free text on carrier tariffs")

	down, err := os.ReadFile(first.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	second, err := Create(dir, "Index Schedules", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), second.Version)
	up, err = os.ReadFile(second.UpPath)
	require.NoError(t, err)
	assert.NotContains(t, string(up), "Description")

	entries, err := List(os.DirFS(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	_, err := Create(t.TempDir(), "!!!", "")
	assert.Error(t, err)
}

func TestList_MissingDirectory(t *testing.T) {
	entries, err := List(os.DirFS(filepath.Join(t.TempDir(), "absent")))
	require.NoError(t, err)
	assert.Empty(t, entries)
}
