package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_SortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_messages.sql", "001_users.sql", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("-- noop"), 0o600))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o700))

	files, err := migrationFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_users.sql", "002_messages.sql"}, files)
}

func TestMigrationFiles_MissingDir(t *testing.T) {
	_, err := migrationFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestMigrationFiles_RepositorySchema(t *testing.T) {
	files, err := migrationFiles(filepath.Join("..", "..", migrationsDir))
	require.NoError(t, err)
	assert.Contains(t, files, "001_users_messages.sql")
}
