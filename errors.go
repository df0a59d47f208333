package migrator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedIdentifier is returned when a unit identifier does not carry a valid version
	// token.
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrWrongKind is returned when a unit identifier carries the prefix of the other kind, for
	// example a seed registered in the migrations namespace.
	ErrWrongKind = errors.New("identifier belongs to another kind")

	// ErrDuplicateVersion is returned when two units of the same namespace share a version.
	ErrDuplicateVersion = errors.New("duplicate version")

	// ErrDuplicateIdentifier is returned by [Registry.Register] when the identifier is already
	// registered in the namespace.
	ErrDuplicateIdentifier = errors.New("duplicate identifier")

	// ErrNilFactory is returned by [Registry.Register] when no constructor is supplied.
	ErrNilFactory = errors.New("nil unit factory")
)

// IdentifierError is a configuration error tied to a single unit identifier.
type IdentifierError struct {
	Kind Kind
	ID   string
	Err  error
}

func identifierError(kind Kind, id string, err error) error {
	return &IdentifierError{Kind: kind, ID: id, Err: err}
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *IdentifierError) Unwrap() error {
	return e.Err
}

// PartialError is returned when a unit fails, but some units of the same run were already applied.
// Migrations in Applied are recorded in the ledger; the failed unit is not.
type PartialError struct {
	// Applied are units that were applied successfully before the error occurred. May be empty.
	Applied []*UnitResult
	// Failed contains the result of the unit that failed. Cannot be nil.
	Failed *UnitResult
	// Err is the error that occurred while running the unit and caused the failure.
	Err error
}

func (e *PartialError) Error() string {
	var applied []string
	for _, r := range e.Applied {
		applied = append(applied, r.Source.ID)
	}
	return fmt.Sprintf(
		"partial %s error (id:%s,version:%d,applied:[%s]): %v",
		e.Failed.Source.Kind, e.Failed.Source.ID, e.Failed.Source.Version, strings.Join(applied, ","), e.Err,
	)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}
