package database

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/whitedoc/migrator/internal/dialect/dialectquery"
)

// Dialect is the type of database dialect.
type Dialect string

const (
	DialectClickHouse Dialect = "clickhouse"
	DialectMSSQL      Dialect = "mssql"
	DialectMySQL      Dialect = "mysql"
	DialectPostgres   Dialect = "postgres"
	DialectRedshift   Dialect = "redshift"
	DialectSpanner    Dialect = "spanner"
	DialectSQLite3    Dialect = "sqlite3"
	DialectTiDB       Dialect = "tidb"
	DialectTurso      Dialect = "turso"
	DialectVertica    Dialect = "vertica"
	DialectYdB        Dialect = "ydb"

	// DialectCustom is a special dialect that allows users to provide their own [Ledger]
	// implementation when constructing a [migrator.Runner].
	DialectCustom Dialect = "custom"
)

// ErrUnknownDialect is returned by [ParseDialect] when the alias matches no known dialect.
var ErrUnknownDialect = errors.New("unknown dialect")

// ParseDialect resolves a dialect name or a common alias, such as a database/sql driver name, to a
// Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(s) {
	case "postgres", "pgx", "postgresql", "pg":
		return DialectPostgres, nil
	case "redshift":
		return DialectRedshift, nil
	case "mysql", "mymysql", "mariadb":
		return DialectMySQL, nil
	case "tidb":
		return DialectTiDB, nil
	case "sqlite", "sqlite3":
		return DialectSQLite3, nil
	case "turso", "libsql":
		return DialectTurso, nil
	case "mssql", "sqlserver", "azuresql":
		return DialectMSSQL, nil
	case "clickhouse":
		return DialectClickHouse, nil
	case "vertica":
		return DialectVertica, nil
	case "ydb":
		return DialectYdB, nil
	case "spanner":
		return DialectSpanner, nil
	}
	return "", ErrUnknownDialect
}

// NewLedger returns a new [Ledger] backed by the given dialect.
func NewLedger(dialect Dialect, tablename string) (Ledger, error) {
	if tablename == "" {
		return nil, errors.New("tablename must not be empty")
	}
	if dialect == "" {
		return nil, errors.New("dialect must not be empty")
	}
	if dialect == DialectCustom {
		return nil, errors.New("dialect must not be custom")
	}
	lookup := map[Dialect]dialectquery.Querier{
		DialectClickHouse: &dialectquery.Clickhouse{},
		DialectMSSQL:      &dialectquery.Sqlserver{},
		DialectMySQL:      &dialectquery.Mysql{},
		DialectPostgres:   &dialectquery.Postgres{},
		DialectRedshift:   &dialectquery.Redshift{},
		DialectSpanner:    &dialectquery.Spanner{},
		DialectSQLite3:    &dialectquery.Sqlite3{},
		DialectTiDB:       &dialectquery.Tidb{},
		DialectTurso:      &dialectquery.Turso{},
		DialectVertica:    &dialectquery.Vertica{},
		DialectYdB:        &dialectquery.Ydb{},
	}
	querier, ok := lookup[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, dialect)
	}
	return &ledger{
		tablename: tablename,
		querier:   querier,
	}, nil
}

type ledger struct {
	tablename string
	querier   dialectquery.Querier
}

var _ Ledger = (*ledger)(nil)

func (l *ledger) Tablename() string {
	return l.tablename
}

func (l *ledger) EnsureSchema(ctx context.Context, db DBTxConn) error {
	q := l.querier.CreateTable(l.tablename)
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("failed to create ledger table %q: %w", l.tablename, err)
	}
	return nil
}

func (l *ledger) LoadAppliedVersions(ctx context.Context, db DBTxConn) ([]int64, error) {
	q := l.querier.ListVersions(l.tablename)
	rows, err := db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list applied versions: %w", err)
	}
	defer rows.Close()

	versions := make([]int64, 0)
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, fmt.Errorf("failed to scan applied version: %w", err)
		}
		v, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w in %q: %q", ErrCorruptLedger, l.tablename, token)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return versions, nil
}

func (l *ledger) RecordApplied(ctx context.Context, db DBTxConn, version int64) error {
	token := strconv.FormatInt(version, 10)
	if version < 0 || len(token) > MaxVersionWidth {
		return fmt.Errorf("version %d does not fit the ledger column", version)
	}
	q := l.querier.InsertVersion(l.tablename)
	if _, err := db.ExecContext(ctx, q, token); err != nil {
		return fmt.Errorf("failed to record version %d: %w", version, err)
	}
	return nil
}
