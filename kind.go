package migrator

import "fmt"

// Kind is the kind of a unit. The kind decides the identifier prefix and whether completion is
// recorded in the ledger.
type Kind int

const (
	// KindMigration is a one-time schema change, tracked in the ledger so it runs at most once.
	KindMigration Kind = iota + 1
	// KindSeed is a data-population unit that runs on every invocation and is never tracked.
	KindSeed
)

// Prefix returns the identifier prefix character of the kind.
func (k Kind) Prefix() byte {
	switch k {
	case KindMigration:
		return 'M'
	case KindSeed:
		return 'S'
	default:
		return 0
	}
}

func (k Kind) String() string {
	switch k {
	case KindMigration:
		return "migration"
	case KindSeed:
		return "seed"
	default:
		// This should never happen.
		return fmt.Sprintf("unknown (%d)", int(k))
	}
}

func (k Kind) valid() bool {
	return k == KindMigration || k == KindSeed
}
