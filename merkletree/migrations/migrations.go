package migrations

import (
	_ "embed"

	"github.com/lambdaclass/merkle-tree-service/db"
	"github.com/lambdaclass/merkle-tree-service/db/types"
)

//go:embed merkletree0001.sql
var mig001 string

// Migrations of the merkle tree service, exported so they can be instantiated
// with a prefix on a shared DB
var Migrations = []types.Migration{
	{
		ID:  "merkletree0001",
		SQL: mig001,
	},
}

func RunMigrations(dbPath string) error {
	return db.RunMigrations(dbPath, Migrations)
}
