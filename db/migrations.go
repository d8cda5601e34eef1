package db

import (
	"fmt"
	"strings"

	"github.com/lambdaclass/merkle-tree-service/db/types"
	"github.com/lambdaclass/merkle-tree-service/log"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/valyala/fasttemplate"
)

const (
	upDownSeparator = "-- +migrate Up"
	dbPrefixTag     = "dbprefix"
	startTag        = "/*"
	endTag          = "*/"
)

// RunMigrations applies the given migrations to the SQLite DB at dbPath.
// Each migration SQL is expected to hold its Down section first, then the
// Up section introduced by the "-- +migrate Up" separator.
func RunMigrations(dbPath string, migrations []types.Migration) error {
	db, err := NewSQLiteDB(dbPath)
	if err != nil {
		return fmt.Errorf("error creating DB %w", err)
	}
	defer db.Close()

	migs := &migrate.MemoryMigrationSource{Migrations: []*migrate.Migration{}}
	for _, m := range migrations {
		prefixed := fasttemplate.ExecuteString(m.SQL, startTag, endTag, map[string]interface{}{
			dbPrefixTag: m.Prefix,
		})
		splitted := strings.Split(prefixed, upDownSeparator)
		if len(splitted) != 2 { //nolint:mnd
			return fmt.Errorf("migration %s should have exactly one %q separator", m.ID, upDownSeparator)
		}
		migs.Migrations = append(migs.Migrations, &migrate.Migration{
			Id:   m.Prefix + m.ID,
			Down: []string{splitted[0]},
			Up:   []string{splitted[1]},
		})
	}

	log.Debugf("running migrations for %s", dbPath)
	nMigrations, err := migrate.Exec(db, "sqlite3", migs, migrate.Up)
	if err != nil {
		return fmt.Errorf("error executing migration %w", err)
	}

	log.Infof("successfully ran %d migrations", nMigrations)
	return nil
}
