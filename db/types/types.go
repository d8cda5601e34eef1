package types

// Migration is a database migration to be applied by db.RunMigrations.
// Prefix, if set, is prepended to the table names of the migration SQL,
// so the same migration can be instantiated more than once on a single DB.
type Migration struct {
	ID     string
	SQL    string
	Prefix string
}
