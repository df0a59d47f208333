package migrator

import (
	"fmt"
	"time"
)

// SourceType is the type of unit source.
type SourceType string

const (
	// TypeGo is a unit constructed by a Go factory, usually registered with [AddMigration] or
	// [AddSeed].
	TypeGo SourceType = "go"
	// TypeSQL is a unit read from a .sql file.
	TypeSQL SourceType = "sql"
)

func (t SourceType) String() string {
	// This should never happen.
	if t == "" {
		return "unknown source type"
	}
	return string(t)
}

// Source represents a single discovered unit.
type Source struct {
	Kind Kind
	Type SourceType
	// ID is the unit identifier, for example M20190823000001_CreateUsersTable.
	ID string
	// Path is the file the unit was read from. Empty for Go units registered without one.
	Path string
	// Version is the version extracted from ID.
	Version int64
}

func (s Source) String() string {
	return s.ID
}

// UnitResult is the result of applying a single unit.
type UnitResult struct {
	Source   Source
	Duration time.Duration
	// Error is any error that occurred while running the unit.
	Error error
}

func (r *UnitResult) String() string {
	state := "OK"
	if r.Error != nil {
		state = "FAILED"
	}
	return fmt.Sprintf("%-6s %-8s %s (%s)", state, r.Source.Kind, r.Source.ID, truncateDuration(r.Duration))
}

// State represents the state of a migration.
type State string

const (
	// StatePending represents a migration that is discovered, but not recorded in the ledger.
	StatePending State = "pending"
	// StateApplied represents a migration that is discovered and recorded in the ledger.
	StateApplied State = "applied"
	// StateUntracked represents a version recorded in the ledger with no discovered unit.
	StateUntracked State = "untracked"
)

// UnitStatus represents the status of a single migration.
type UnitStatus struct {
	State State
	// Source is the discovered unit. For [StateUntracked] only Kind and Version are set.
	Source Source
}

func truncateDuration(d time.Duration) time.Duration {
	for _, v := range []time.Duration{
		time.Second,
		time.Millisecond,
		time.Microsecond,
	} {
		if d > v {
			return d.Round(v / time.Duration(100))
		}
	}
	return d
}
