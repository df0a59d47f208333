package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"text/template"
	"time"

	"github.com/joho/godotenv"
	"github.com/mfridman/xflag"
	"github.com/sethvargo/go-retry"

	"github.com/whitedoc/migrator"
	"github.com/whitedoc/migrator/database"
	"github.com/whitedoc/migrator/internal/cfg"
	"github.com/whitedoc/migrator/internal/dbconf"
)

// version is set with -ldflags "-X main.version=..." at build time.
var version string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "migrator: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	dir        string
	table      string
	migrations string
	seeds      string
	config     string
	env        string
	envFile    string
	verbose    bool
	wait       time.Duration
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var opt options
	flags := flag.NewFlagSet("migrator", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opt.dir, "dir", "", "directory with the migrations and seeds namespace directories (default $MIGRATOR_DIR or \".\")")
	flags.StringVar(&opt.table, "table", "", "ledger table name (default $MIGRATOR_TABLE or \"migrations\")")
	flags.StringVar(&opt.migrations, "migrations", "", "migrations namespace (default \"migrations\")")
	flags.StringVar(&opt.seeds, "seeds", "", "seeds namespace (default \"seeds\")")
	flags.StringVar(&opt.config, "config", "", "YAML file with database environments")
	flags.StringVar(&opt.env, "env", "development", "environment to read from the -config file")
	flags.StringVar(&opt.envFile, "env-file", ".env", "load environment variables from file, \"none\" disables loading")
	flags.BoolVar(&opt.verbose, "v", false, "enable verbose mode")
	flags.DurationVar(&opt.wait, "wait", 0, "wait up to this long for the database to accept connections")
	flags.Usage = func() { printUsage(flags, stderr) }

	// Flags may be given after the positional arguments.
	if err := xflag.ParseToEnd(flags, args); err != nil {
		return err
	}
	if err := loadEnvFile(opt.envFile); err != nil {
		return err
	}
	cfg.Load()

	args = flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return errors.New("missing command")
	}
	// Commands that do not need a database.
	if len(args) == 1 {
		switch args[0] {
		case "version":
			// Without a configured database, print the binary version instead.
			if cfg.MIGRATORDRIVER == "" && opt.config == "" {
				fmt.Fprintf(stdout, "migrator version: %s\n", buildVersion())
				return nil
			}
		case "env":
			return envRun(ctx, nil, stdout)
		}
	}

	conn, command, err := resolveConnection(opt, args)
	if err != nil {
		flags.Usage()
		return err
	}
	db, dialect, err := openDB(ctx, conn.driver, conn.dbstring)
	if err != nil {
		return err
	}
	defer db.Close()

	if opt.wait > 0 {
		if err := waitForDB(ctx, db, opt.wait); err != nil {
			return err
		}
	}
	runnerOpts := []migrator.RunnerOption{
		migrator.WithTableName(conn.table),
		migrator.WithVerbose(opt.verbose),
	}
	if conn.migrations != "" {
		runnerOpts = append(runnerOpts, migrator.WithMigrationsNamespace(conn.migrations))
	}
	if conn.seeds != "" {
		runnerOpts = append(runnerOpts, migrator.WithSeedsNamespace(conn.seeds))
	}
	var fsys fs.FS
	if conn.dir != "" {
		fsys = os.DirFS(conn.dir)
	}
	r, err := migrator.NewRunner(dialect, db, fsys, runnerOpts...)
	if err != nil {
		return err
	}
	return runCommand(ctx, r, command, stdout)
}

type connection struct {
	driver     string
	dbstring   string
	dir        string
	table      string
	migrations string
	seeds      string
}

// resolveConnection decides the driver and connection string from, in order of precedence, the
// positional arguments, the -config file and the MIGRATOR_* environment variables.
func resolveConnection(opt options, args []string) (*connection, string, error) {
	conn := new(connection)
	var command string
	switch {
	case len(args) == 3:
		conn.driver, conn.dbstring, command = args[0], args[1], args[2]
	case len(args) == 1 && opt.config != "":
		conf, err := dbconf.FromFile(opt.config, opt.env)
		if err != nil {
			return nil, "", err
		}
		conn.driver, conn.dbstring, command = conf.Driver, conf.OpenStr, args[0]
		conn.dir, conn.table = conf.Dir, conf.Table
		conn.migrations, conn.seeds = conf.Migrations, conf.Seeds
	case len(args) == 1:
		conn.driver, conn.dbstring, command = cfg.MIGRATORDRIVER, cfg.MIGRATORDBSTRING, args[0]
	default:
		return nil, "", fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	if conn.driver == "" {
		return nil, "", errors.New("driver must be set with a positional argument, -config or $MIGRATOR_DRIVER")
	}
	if conn.dbstring == "" {
		return nil, "", fmt.Errorf("-dbstring=%q not supported", conn.dbstring)
	}
	conn.dir = firstNonEmpty(opt.dir, conn.dir, cfg.MIGRATORDIR)
	conn.table = firstNonEmpty(opt.table, conn.table, cfg.MIGRATORTABLE)
	conn.migrations = firstNonEmpty(opt.migrations, conn.migrations)
	conn.seeds = firstNonEmpty(opt.seeds, conn.seeds)
	return conn, command, nil
}

// openDB maps a driver alias to its database/sql driver name and ledger dialect and opens the
// database.
func openDB(ctx context.Context, driver, dbstring string) (*sql.DB, database.Dialect, error) {
	dialect, err := database.ParseDialect(driver)
	if err != nil {
		return nil, "", fmt.Errorf("%q driver not supported: %w", driver, err)
	}
	driver = strings.ToLower(driver)
	var sqlDriver string
	switch driver {
	case "postgres":
		// lib/pq
		sqlDriver = "postgres"
	case "pgx", "postgresql", "pg", "redshift":
		sqlDriver = "pgx"
	case "mysql", "tidb", "mariadb":
		sqlDriver = "mysql"
	case "mymysql":
		sqlDriver = "mymysql"
	case "sqlite", "sqlite3":
		sqlDriver = "sqlite"
	case "mssql", "sqlserver", "azuresql":
		sqlDriver = "sqlserver"
	case "turso", "libsql":
		sqlDriver = "libsql"
	case "ydb":
		db, err := openYDB(ctx, dbstring)
		return db, dialect, err
	default:
		sqlDriver = driver
	}
	dbstring, err = normalizeDBString(sqlDriver, dbstring)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open(sqlDriver, dbstring)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	return db, dialect, nil
}

// waitForDB pings the database until it answers or maxWait elapses. Only this startup check is
// retried.
func waitForDB(ctx context.Context, db *sql.DB, maxWait time.Duration) error {
	backoff := retry.WithMaxDuration(maxWait, retry.NewConstant(time.Second))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("database not reachable after %s: %w", maxWait, err)
	}
	return nil
}

func loadEnvFile(name string) error {
	if name == "" || name == "none" {
		return nil
	}
	if err := godotenv.Load(name); err != nil {
		// The default file is optional.
		if errors.Is(err, fs.ErrNotExist) && name == ".env" {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", filepath.Clean(name), err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func buildVersion() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func printUsage(flags *flag.FlagSet, w io.Writer) {
	fmt.Fprint(w, usagePrefix)
	flags.SetOutput(w)
	flags.PrintDefaults()
	_ = usageTmpl.Execute(w, commands)
}

var usageTmpl = template.Must(template.New("usage").Parse(`
Commands:
{{- range .}}
    {{printf "%-8s" .Name}} {{.Summary}}
{{- end}}
`))

var usagePrefix = `Usage: migrator [OPTIONS] DRIVER DBSTRING COMMAND

or

Set environment key
MIGRATOR_DRIVER=DRIVER
MIGRATOR_DBSTRING=DBSTRING

Usage: migrator [OPTIONS] COMMAND

or

Usage: migrator -config dbconf.yml -env production COMMAND

Drivers:
    postgres (lib/pq), pgx, redshift
    mysql, tidb, mymysql
    sqlite3
    mssql
    clickhouse
    vertica
    ydb
    spanner
    turso

Examples:
    migrator sqlite3 ./foo.db status
    migrator sqlite3 ./foo.db migrate
    migrator -dir db postgres "user=postgres dbname=postgres sslmode=disable" all
    migrator mysql "user:password@/dbname" seed
    migrator -wait 30s pgx "postgres://postgres@localhost:5432/app" migrate

    MIGRATOR_DRIVER=sqlite3 MIGRATOR_DBSTRING=./foo.db migrator status

Options:
`
