package db

import (
	"path"
	"testing"

	"github.com/lambdaclass/merkle-tree-service/db/types"
	"github.com/stretchr/testify/require"
)

const sampleMigration = `-- +migrate Down
DROP TABLE IF EXISTS /*dbprefix*/item;

-- +migrate Up
CREATE TABLE /*dbprefix*/item (
	id INTEGER PRIMARY KEY AUTOINCREMENT
);
`

func TestRunMigrations(t *testing.T) {
	dbPath := path.Join(t.TempDir(), "test.sqlite")
	migrations := []types.Migration{
		{ID: "sample0001", SQL: sampleMigration},
		{ID: "sample0001", SQL: sampleMigration, Prefix: "foo_"},
	}
	require.NoError(t, RunMigrations(dbPath, migrations))

	database, err := NewSQLiteDB(dbPath)
	require.NoError(t, err)
	defer database.Close()

	// both the plain and the prefixed instantiation exist
	_, err = database.Exec(`INSERT INTO item DEFAULT VALUES;`)
	require.NoError(t, err)
	_, err = database.Exec(`INSERT INTO foo_item DEFAULT VALUES;`)
	require.NoError(t, err)

	// running them again is a no-op
	require.NoError(t, RunMigrations(dbPath, migrations))
}
