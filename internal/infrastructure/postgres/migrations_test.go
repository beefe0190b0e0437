package postgres

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Embebidas(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, MigrationsDir)
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{
		"00001_create_stock_entries.sql",
		"00002_create_withdrawals.sql",
		"00003_create_status_changes.sql",
		"00004_create_notifications.sql",
		"00005_create_stock_changed_trigger.sql",
	}, names)
}

func TestMigrations_TienenUpYDown(t *testing.T) {
	files, err := fs.ReadDir(migrationsFS, MigrationsDir)
	require.NoError(t, err)

	for _, f := range files {
		content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/"+f.Name())
		require.NoError(t, err)
		s := string(content)
		for _, directive := range []string{"-- +goose Up", "-- +goose Down", "-- +goose StatementBegin", "-- +goose StatementEnd"} {
			assert.Contains(t, s, directive, f.Name())
		}
		assert.Equal(t, strings.Count(s, "StatementBegin"), strings.Count(s, "StatementEnd"), f.Name())
	}
}

func TestMigrations_RestriccionesDeStock(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, MigrationsDir+"/00001_create_stock_entries.sql")
	require.NoError(t, err)
	assert.Contains(t, string(content), "CHECK (quantity >= 0)")
	assert.Contains(t, string(content), "UNIQUE (sku)")
}

func TestPgCodes(t *testing.T) {
	assert.False(t, isUniqueViolation(assert.AnError))
	assert.False(t, isCheckViolation(assert.AnError))
	assert.True(t, isUUID("6f1c1a6e-3c55-4b7a-9d0c-2f1f0f1e8a11"))
	assert.False(t, isUUID("LUV-01"))
}
