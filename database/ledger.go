package database

import (
	"context"
	"errors"
)

const (
	// MaxVersionWidth is the width of the ledger's version column. Version tokens longer than this
	// cannot be recorded.
	MaxVersionWidth = 14
)

var (
	// ErrCorruptLedger is returned by [Ledger.LoadAppliedVersions] when a recorded row does not
	// hold a valid version token.
	ErrCorruptLedger = errors.New("corrupt ledger row")
)

// Ledger is the persisted record of applied migration versions. By defining a Ledger interface, we
// can support multiple databases with consistent functionality.
//
// Each method receives the connection it must use. The caller owns that connection and is
// responsible for releasing it.
type Ledger interface {
	// Tablename is the ledger table used to record applied migrations. Must not be empty.
	Tablename() string

	// EnsureSchema creates the ledger table if it does not exist. It must be safe to call on
	// every run.
	EnsureSchema(ctx context.Context, db DBTxConn) error

	// LoadAppliedVersions returns every recorded version, in no particular order. If nothing has
	// been recorded, it returns an empty slice and no error.
	LoadAppliedVersions(ctx context.Context, db DBTxConn) ([]int64, error)

	// RecordApplied appends one row for the given version.
	RecordApplied(ctx context.Context, db DBTxConn, version int64) error
}
