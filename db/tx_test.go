package db

import (
	"context"
	"path"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTxCommitCallbacks(t *testing.T) {
	ctx := context.Background()
	database, err := NewSQLiteDB(path.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	defer database.Close()

	fired := 0
	tx, err := NewTx(ctx, database)
	require.NoError(t, err)
	tx.AddCommitCallback(func() { fired++ })
	tx.AddCommitCallback(func() { fired++ })
	require.NoError(t, tx.Commit())
	require.Equal(t, 2, fired)

	// callbacks of a rolled back tx never run
	tx, err = NewTx(ctx, database)
	require.NoError(t, err)
	tx.AddCommitCallback(func() { fired++ })
	require.NoError(t, tx.Rollback())
	require.Equal(t, 2, fired)
}
