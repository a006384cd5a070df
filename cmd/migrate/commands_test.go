package main

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	assert.Contains(t, names, "000001_create_assets.up.sql")
	assert.Contains(t, names, "000001_create_assets.down.sql")

	up, err := fs.ReadFile(migrations, "migrations/000001_create_assets.up.sql")
	require.NoError(t, err)
	for _, col := range []string{"id", "filename", "content_type", "location", "size", "published_at", "status", "updated_at"} {
		assert.Contains(t, string(up), col)
	}
}

func TestResolveDSN(t *testing.T) {
	t.Run("explicit", func(t *testing.T) {
		dsn, err := resolveDSN("postgres://u:p@db:5432/x")
		require.NoError(t, err)
		assert.Equal(t, "postgres://u:p@db:5432/x", dsn)
	})

	t.Run("from environment", func(t *testing.T) {
		t.Setenv("ASSETS_DB_HOST", "db.internal")
		t.Setenv("ASSETS_DB_NAME", "assets")
		t.Setenv("ASSETS_DB_USER", "svc")
		t.Setenv("ASSETS_DB_PASSWORD", "pw")

		dsn, err := resolveDSN("")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(dsn, "postgres://svc:pw@db.internal:5432/assets"), dsn)
	})

	t.Run("incomplete environment", func(t *testing.T) {
		t.Setenv("ASSETS_DB_NAME", "")
		t.Setenv("ASSETS_DB_USER", "")
		_, err := resolveDSN("")
		assert.Error(t, err)
	})
}

func TestIgnoreNoChange(t *testing.T) {
	assert.NoError(t, ignoreNoChange(nil))
	assert.NoError(t, ignoreNoChange(migrate.ErrNoChange))

	err := ignoreNoChange(migrate.ErrDirty{Version: 3})
	assert.ErrorIs(t, err, errDirty)
	assert.Equal(t, 2, exitCode(err))

	other := errors.New("connection refused")
	assert.Equal(t, other, ignoreNoChange(other))
	assert.Equal(t, 1, exitCode(other))
}

func TestCommandTree(t *testing.T) {
	root := cmd()
	names := make([]string, len(root.Commands))
	for i, c := range root.Commands {
		names[i] = c.Name
	}
	assert.ElementsMatch(t, []string{"up", "down", "steps", "version", "force"}, names)
}
