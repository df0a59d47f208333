package migrator

import (
	"context"
	"database/sql"
)

// ConnectionProvider supplies database connections on demand. It is satisfied by *sql.DB.
//
// The runner hands the same provider to every unit. Units must not close it.
type ConnectionProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ ConnectionProvider = (*sql.DB)(nil)

// Unit is a single migration or seed. A fresh Unit is constructed for every run, receives the
// connection provider, is applied once and then discarded.
type Unit interface {
	// SetConnectionProvider injects the database handle before Apply is called.
	SetConnectionProvider(p ConnectionProvider)
	// Apply performs the unit's change. A returned error aborts the run.
	Apply(ctx context.Context) error
}

// Base can be embedded in a unit to satisfy SetConnectionProvider.
//
//	type M20190823000001_CreateUsers struct{ migrator.Base }
//
//	func (m *M20190823000001_CreateUsers) Apply(ctx context.Context) error {
//		_, err := m.DB().ExecContext(ctx, `CREATE TABLE users (id int)`)
//		return err
//	}
type Base struct {
	db ConnectionProvider
}

// SetConnectionProvider implements Unit.
func (b *Base) SetConnectionProvider(p ConnectionProvider) {
	b.db = p
}

// DB returns the injected connection provider. It is nil until the runner injects it.
func (b *Base) DB() ConnectionProvider {
	return b.db
}

// UnitFunc returns a factory for a unit whose Apply calls fn with the injected provider.
func UnitFunc(fn func(ctx context.Context, db ConnectionProvider) error) func() Unit {
	return func() Unit {
		return &funcUnit{fn: fn}
	}
}

type funcUnit struct {
	Base
	fn func(ctx context.Context, db ConnectionProvider) error
}

func (u *funcUnit) Apply(ctx context.Context) error {
	if u.fn == nil {
		return nil
	}
	return u.fn(ctx, u.DB())
}
