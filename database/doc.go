// Package database provides the Ledger interface used by the migrator to record which migration
// versions have been applied, along with an implementation for each supported database dialect.
//
// The ledger is a single table (default name "migrations") with one column, version, holding the
// canonical decimal version token of every applied migration. Seeds are never recorded.
//
// It's possible to implement a custom Ledger for a database the migrator does not support. To do
// so, implement the [Ledger] interface and pass it to [migrator.WithLedger].
package database
