package migrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whitedoc/migrator/database"
)

// ParseVersion extracts the version token from a unit identifier. Migration identifiers have the
// form M<digits>_<description> and seed identifiers S<digits>_<description>.
//
//	M20190823000001_CreateUsersTable -> 20190823000001
//	S1001_CreateUsers                -> 1001
//
// The digits must fit the ledger's version column. Any other shape is a configuration error
// wrapping [ErrMalformedIdentifier], or [ErrWrongKind] when the prefix belongs to another kind.
func ParseVersion(kind Kind, id string) (int64, error) {
	if !kind.valid() {
		return 0, fmt.Errorf("invalid kind: %v", kind)
	}
	if id == "" {
		return 0, identifierError(kind, id, fmt.Errorf("%w: empty identifier", ErrMalformedIdentifier))
	}
	if id[0] != kind.Prefix() {
		if other := otherKind(kind); id[0] == other.Prefix() {
			return 0, identifierError(kind, id, fmt.Errorf("%w: %s prefix %q", ErrWrongKind, other, other.Prefix()))
		}
		return 0, identifierError(kind, id, fmt.Errorf("%w: must start with %q", ErrMalformedIdentifier, kind.Prefix()))
	}
	idx := strings.IndexByte(id, '_')
	if idx < 0 {
		return 0, identifierError(kind, id, fmt.Errorf("%w: no separator '_' found", ErrMalformedIdentifier))
	}
	token := id[1:idx]
	if token == "" {
		return 0, identifierError(kind, id, fmt.Errorf("%w: missing version digits", ErrMalformedIdentifier))
	}
	if len(token) > database.MaxVersionWidth {
		return 0, identifierError(kind, id, fmt.Errorf("%w: version wider than %d digits", ErrMalformedIdentifier, database.MaxVersionWidth))
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, identifierError(kind, id, fmt.Errorf("%w: version %q is not a number", ErrMalformedIdentifier, token))
		}
	}
	v, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, identifierError(kind, id, fmt.Errorf("%w: %v", ErrMalformedIdentifier, err))
	}
	return v, nil
}

// FormatVersion renders the canonical decimal token stored in the ledger.
func FormatVersion(v int64) string {
	return strconv.FormatInt(v, 10)
}

func otherKind(k Kind) Kind {
	if k == KindMigration {
		return KindSeed
	}
	return KindMigration
}
