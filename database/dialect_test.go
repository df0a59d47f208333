package database_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whitedoc/migrator/database"
)

func TestParseDialect(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		alias       string
		wantDialect database.Dialect
	}{
		{alias: "postgres", wantDialect: database.DialectPostgres},
		{alias: "pgx", wantDialect: database.DialectPostgres},
		{alias: "redshift", wantDialect: database.DialectRedshift},
		{alias: "mysql", wantDialect: database.DialectMySQL},
		{alias: "mymysql", wantDialect: database.DialectMySQL},
		{alias: "tidb", wantDialect: database.DialectTiDB},
		{alias: "sqlite", wantDialect: database.DialectSQLite3},
		{alias: "SQLite3", wantDialect: database.DialectSQLite3},
		{alias: "libsql", wantDialect: database.DialectTurso},
		{alias: "sqlserver", wantDialect: database.DialectMSSQL},
		{alias: "clickhouse", wantDialect: database.DialectClickHouse},
		{alias: "vertica", wantDialect: database.DialectVertica},
		{alias: "ydb", wantDialect: database.DialectYdB},
		{alias: "spanner", wantDialect: database.DialectSpanner},
	} {
		d, err := database.ParseDialect(tc.alias)
		require.NoError(t, err, tc.alias)
		require.Equal(t, tc.wantDialect, d, tc.alias)
	}
	_, err := database.ParseDialect("bad")
	require.ErrorIs(t, err, database.ErrUnknownDialect)
}

func TestNewLedgerEveryDialect(t *testing.T) {
	t.Parallel()
	for _, d := range []database.Dialect{
		database.DialectClickHouse,
		database.DialectMSSQL,
		database.DialectMySQL,
		database.DialectPostgres,
		database.DialectRedshift,
		database.DialectSpanner,
		database.DialectSQLite3,
		database.DialectTiDB,
		database.DialectTurso,
		database.DialectVertica,
		database.DialectYdB,
	} {
		l, err := database.NewLedger(d, "migrations")
		require.NoError(t, err, d)
		require.Equal(t, "migrations", l.Tablename())
	}
}
