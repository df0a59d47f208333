// Package dialectquery holds the SQL text used to maintain the ledger table for each supported
// database dialect.
package dialectquery

// Querier is the interface that wraps the basic methods to create a dialect specific query.
//
// The ledger table has a single column, version, holding the canonical decimal version token of
// an applied migration.
type Querier interface {
	// CreateTable returns the SQL query string to create the ledger table. The statement must be a
	// no-op when the table already exists.
	CreateTable(tableName string) string

	// InsertVersion returns the SQL query string to insert a single version into the ledger
	// table. The query takes exactly one argument, the version token.
	InsertVersion(tableName string) string

	// ListVersions returns the SQL query string to list every recorded version. The query must
	// return the version column only.
	ListVersions(tableName string) string
}
