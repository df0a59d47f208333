package migrator

import (
	"errors"
	"fmt"

	"github.com/whitedoc/migrator/database"
)

const (
	// DefaultTablename is the ledger table used unless WithTableName is given.
	DefaultTablename = "migrations"
)

// RunnerOption is a configuration option for a Runner.
type RunnerOption interface {
	apply(*config) error
}

// WithTableName sets the name of the database table used to record applied migrations.
//
// If WithTableName is not called, the default value is "migrations".
func WithTableName(name string) RunnerOption {
	return configFunc(func(c *config) error {
		if c.tableName != "" {
			return fmt.Errorf("table already set to %q", c.tableName)
		}
		if name == "" {
			return errors.New("table must not be empty")
		}
		c.tableName = name
		return nil
	})
}

// WithMigrationsNamespace sets the namespace migrations are discovered in. For the filesystem this
// is a directory; for a Registry it is the namespace units were registered under.
//
// If WithMigrationsNamespace is not called, the default value is "migrations".
func WithMigrationsNamespace(namespace string) RunnerOption {
	return configFunc(func(c *config) error {
		if c.migrationsNamespace != "" {
			return fmt.Errorf("migrations namespace already set to %q", c.migrationsNamespace)
		}
		if namespace == "" {
			return errors.New("migrations namespace must not be empty")
		}
		c.migrationsNamespace = namespace
		return nil
	})
}

// WithSeedsNamespace sets the namespace seeds are discovered in.
//
// If WithSeedsNamespace is not called, the default value is "seeds".
func WithSeedsNamespace(namespace string) RunnerOption {
	return configFunc(func(c *config) error {
		if c.seedsNamespace != "" {
			return fmt.Errorf("seeds namespace already set to %q", c.seedsNamespace)
		}
		if namespace == "" {
			return errors.New("seeds namespace must not be empty")
		}
		c.seedsNamespace = namespace
		return nil
	})
}

// WithRegistry replaces the global registry with r. Units added with [AddMigration] and [AddSeed]
// are ignored by a Runner configured with a registry.
func WithRegistry(r *Registry) RunnerOption {
	return configFunc(func(c *config) error {
		if c.registry != nil {
			return errors.New("registry already set")
		}
		if r == nil {
			return errors.New("registry must not be nil")
		}
		c.registry = r
		return nil
	})
}

// WithDiscoverer adds a discoverer consulted after the registry and the filesystem. May be called
// multiple times.
func WithDiscoverer(d Discoverer) RunnerOption {
	return configFunc(func(c *config) error {
		if d == nil {
			return errors.New("discoverer must not be nil")
		}
		c.discoverers = append(c.discoverers, d)
		return nil
	})
}

// WithLedger sets a custom ledger. The dialect passed to [NewRunner] must be
// [database.DialectCustom].
func WithLedger(l database.Ledger) RunnerOption {
	return configFunc(func(c *config) error {
		if c.ledger != nil {
			return errors.New("ledger already set")
		}
		if l == nil {
			return errors.New("ledger must not be nil")
		}
		if l.Tablename() == "" {
			return errors.New("ledger tablename must not be empty")
		}
		c.ledger = l
		return nil
	})
}

// WithLogger sets the logger used for unit start and end lines. The default writes to the
// standard library's default logger.
func WithLogger(l Logger) RunnerOption {
	return configFunc(func(c *config) error {
		if c.logger != nil {
			return errors.New("logger already set")
		}
		if l == nil {
			return errors.New("logger must not be nil")
		}
		c.logger = l
		return nil
	})
}

// WithVerbose enables verbose logging of discovery and ledger activity.
func WithVerbose(b bool) RunnerOption {
	return configFunc(func(c *config) error {
		c.verbose = b
		return nil
	})
}

// WithDebug enables printing of the SQL parser's state transitions for filesystem units.
func WithDebug(b bool) RunnerOption {
	return configFunc(func(c *config) error {
		c.debug = b
		return nil
	})
}

type config struct {
	tableName           string
	migrationsNamespace string
	seedsNamespace      string

	registry    *Registry
	discoverers []Discoverer
	ledger      database.Ledger
	logger      Logger

	verbose bool
	debug   bool
}

type configFunc func(*config) error

func (f configFunc) apply(cfg *config) error {
	return f(cfg)
}
