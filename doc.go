// Package migrator applies versioned schema migrations and repeatable data seeds to a SQL
// database.
//
// A unit is either a migration or a seed. Its identifier carries the version:
// M<digits>_<description> for migrations and S<digits>_<description> for seeds. Units run in
// ascending numeric version order. Migrations are recorded in a ledger table and run at most
// once; seeds are never recorded and run on every invocation.
//
// Units come from two places. Go units are registered with [AddMigration] and [AddSeed] (or an
// explicit [Registry]); SQL units are .sql files in the namespace directories of an fs.FS:
//
//	migrations/M20190823000001_create_users.sql
//	seeds/S1001_users.sql
//
// A Runner ties discovery, the ledger and the database together:
//
//	r, err := migrator.NewRunner(database.DialectPostgres, db, os.DirFS("db"))
//	if err != nil {
//		return err
//	}
//	results, err := r.RunAll(ctx)
package migrator
