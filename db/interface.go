package db

import (
	"database/sql"
)

// Querier is the read surface shared by *sql.DB, *sql.Tx and Tx, so tree
// lookups can run against either
type Querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
