package migrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/whitedoc/migrator/internal/sqlparser"
)

// FSDiscoverer discovers SQL units in a filesystem. The namespace is a directory relative to the
// root of FS and every *.sql file directly inside it is a unit. The unit identifier is the file
// name without its extension, for example migrations/M20190823000001_create_users.sql has the
// identifier M20190823000001_create_users.
//
// Files are parsed during discovery, so a file with invalid annotations fails the run before any
// unit is applied.
type FSDiscoverer struct {
	FS fs.FS
	// Debug prints the parser's state transitions to stdout.
	Debug bool
}

var _ Discoverer = (*FSDiscoverer)(nil)

// Discover implements Discoverer. A missing namespace directory yields no units.
func (d *FSDiscoverer) Discover(ctx context.Context, namespace string, kind Kind) ([]Descriptor, error) {
	if d == nil || d.FS == nil {
		return nil, nil
	}
	pattern := "*.sql"
	if namespace != "" && namespace != "." {
		pattern = path.Join(namespace, pattern)
	}
	files, err := fs.Glob(d.FS, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to glob pattern %q: %w", pattern, err)
	}
	sort.Strings(files)
	descriptors := make([]Descriptor, 0, len(files))
	for _, fullpath := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := sqlparser.ParseFromFS(d.FS, fullpath, d.Debug)
		if err != nil {
			return nil, fmt.Errorf("failed to parse SQL %s %q: %w", kind, fullpath, err)
		}
		descriptors = append(descriptors, Descriptor{
			Kind: kind,
			Type: TypeSQL,
			ID:   strings.TrimSuffix(path.Base(fullpath), path.Ext(fullpath)),
			Path: fullpath,
			New: func() Unit {
				return &sqlUnit{
					statements: parsed.Statements,
					useTx:      parsed.UseTx,
				}
			},
		})
	}
	return descriptors, nil
}

// sqlUnit executes the statements of a parsed .sql file. Statements run in a single transaction
// unless the file opted out with a NO TRANSACTION annotation, in which case they run one by one
// on a dedicated connection.
type sqlUnit struct {
	Base
	statements []string
	useTx      bool
}

func (u *sqlUnit) Apply(ctx context.Context) error {
	db := u.DB()
	if db == nil {
		return errors.New("no connection provider set")
	}
	if u.useTx {
		return u.applyTx(ctx, db)
	}
	return u.applyConn(ctx, db)
}

func (u *sqlUnit) applyTx(ctx context.Context, db ConnectionProvider) (retErr error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if retErr != nil {
			retErr = multierr.Append(retErr, tx.Rollback())
		}
	}()
	for _, query := range u.statements {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute SQL query %q: %w", clearStatement(query), err)
		}
	}
	return tx.Commit()
}

func (u *sqlUnit) applyConn(ctx context.Context, db ConnectionProvider) (retErr error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() {
		retErr = multierr.Append(retErr, conn.Close())
	}()
	for _, query := range u.statements {
		if _, err := conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute SQL query %q: %w", clearStatement(query), err)
		}
	}
	return nil
}

var (
	matchSQLComments = regexp.MustCompile(`(?m)^--.*$[\r\n]*`)
	matchEmptyLines  = regexp.MustCompile(`(?m)^$[\r\n]*`)
)

func clearStatement(s string) string {
	s = matchSQLComments.ReplaceAllString(s, ``)
	return strings.TrimSpace(matchEmptyLines.ReplaceAllString(s, ``))
}
