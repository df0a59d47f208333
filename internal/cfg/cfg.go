package cfg

import "os"

var (
	MIGRATORDRIVER   = ""
	MIGRATORDBSTRING = ""
	MIGRATORDIR      = DefaultDir
	MIGRATORTABLE    = DefaultTable
	// https://no-color.org/
	MIGRATORNOCOLOR = "false"
)

var (
	DefaultDir   = "."
	DefaultTable = "migrations"
)

// Load reads the config values from environment, allowing them to be loaded first from the file
// pointed to by the `-env-file` flag.
func Load() {
	MIGRATORDRIVER = envOr("MIGRATOR_DRIVER", MIGRATORDRIVER)
	MIGRATORDBSTRING = envOr("MIGRATOR_DBSTRING", MIGRATORDBSTRING)
	MIGRATORDIR = envOr("MIGRATOR_DIR", MIGRATORDIR)
	MIGRATORTABLE = envOr("MIGRATOR_TABLE", MIGRATORTABLE)
	// https://no-color.org/
	MIGRATORNOCOLOR = envOr("NO_COLOR", MIGRATORNOCOLOR)
}

// An EnvVar is an environment variable Name=Value.
type EnvVar struct {
	Name  string
	Value string
}

func List() []EnvVar {
	return []EnvVar{
		{Name: "MIGRATOR_DRIVER", Value: MIGRATORDRIVER},
		{Name: "MIGRATOR_DBSTRING", Value: MIGRATORDBSTRING},
		{Name: "MIGRATOR_DIR", Value: MIGRATORDIR},
		{Name: "MIGRATOR_TABLE", Value: MIGRATORTABLE},
		{Name: "NO_COLOR", Value: MIGRATORNOCOLOR},
	}
}

// envOr returns os.Getenv(key) if set, or else default.
func envOr(key, def string) string {
	val := os.Getenv(key)
	if val == "" {
		val = def
	}
	return val
}
