package cfg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("MIGRATOR_DRIVER", "sqlite3")
	t.Setenv("MIGRATOR_DBSTRING", "file:test.db")
	t.Setenv("MIGRATOR_DIR", "")
	t.Setenv("MIGRATOR_TABLE", "schema_ledger")
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(func() {
		MIGRATORDRIVER, MIGRATORDBSTRING = "", ""
		MIGRATORDIR, MIGRATORTABLE, MIGRATORNOCOLOR = DefaultDir, DefaultTable, "false"
	})

	Load()
	require.Equal(t, []EnvVar{
		{Name: "MIGRATOR_DRIVER", Value: "sqlite3"},
		{Name: "MIGRATOR_DBSTRING", Value: "file:test.db"},
		{Name: "MIGRATOR_DIR", Value: DefaultDir},
		{Name: "MIGRATOR_TABLE", Value: "schema_ledger"},
		{Name: "NO_COLOR", Value: "1"},
	}, List())
}
