package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"

	"github.com/whitedoc/migrator/database"
)

// Runner discovers migrations and seeds and applies them to a database.
//
// Migrations are applied at most once: every successful migration is recorded in a ledger table
// and skipped by later runs. Seeds are applied on every run and never recorded.
//
// All methods are safe for concurrent use. Calls on the same Runner are serialized; concurrent
// runners in different processes are not coordinated.
type Runner struct {
	// mu protects all accesses to the runner and must be held when calling operations on the
	// database.
	mu sync.Mutex

	db          *sql.DB
	ledger      database.Ledger
	discoverers []Discoverer
	cfg         config
}

// NewRunner returns a new Runner.
//
// The caller is responsible for matching the database dialect with the database/sql driver. For
// example, if the database dialect is "postgres", the database/sql driver could be
// github.com/lib/pq or github.com/jackc/pgx.
//
// fsys is the filesystem SQL units are read from and may be nil. Within fsys, migrations are read
// from the migrations namespace directory and seeds from the seeds namespace directory. Units
// registered with [AddMigration] and [AddSeed] are discovered as well, unless [WithRegistry] is
// given.
//
// Discovery happens on every run, so NewRunner does not touch the database or the filesystem.
func NewRunner(dialect database.Dialect, db *sql.DB, fsys fs.FS, opts ...RunnerOption) (*Runner, error) {
	if db == nil {
		return nil, errors.New("db must not be nil")
	}
	var cfg config
	for _, opt := range opts {
		if opt == nil {
			return nil, errors.New("option must not be nil")
		}
		if err := opt.apply(&cfg); err != nil {
			return nil, err
		}
	}
	// Set defaults after applying user-supplied options so option funcs can check for empty values.
	if cfg.tableName == "" {
		cfg.tableName = DefaultTablename
	}
	if cfg.migrationsNamespace == "" {
		cfg.migrationsNamespace = DefaultMigrationsNamespace
	}
	if cfg.seedsNamespace == "" {
		cfg.seedsNamespace = DefaultSeedsNamespace
	}
	if cfg.migrationsNamespace == cfg.seedsNamespace {
		return nil, fmt.Errorf("migrations and seeds must use different namespaces: %q", cfg.seedsNamespace)
	}
	if cfg.registry == nil {
		cfg.registry = globalRegistry
	}
	if cfg.logger == nil {
		cfg.logger = &stdLogger{}
	}
	var ledger database.Ledger
	switch {
	case dialect == "" && cfg.ledger == nil:
		return nil, errors.New("dialect must not be empty")
	case dialect == database.DialectCustom && cfg.ledger == nil:
		return nil, errors.New("custom dialect requires a ledger, see WithLedger")
	case dialect != database.DialectCustom && cfg.ledger != nil:
		return nil, fmt.Errorf("dialect must be %q when using a custom ledger", database.DialectCustom)
	case cfg.ledger != nil:
		ledger = cfg.ledger
	default:
		var err error
		ledger, err = database.NewLedger(dialect, cfg.tableName)
		if err != nil {
			return nil, err
		}
	}
	discoverers := []Discoverer{cfg.registry}
	if fsys != nil {
		discoverers = append(discoverers, &FSDiscoverer{FS: fsys, Debug: cfg.debug})
	}
	discoverers = append(discoverers, cfg.discoverers...)
	return &Runner{
		db:          db,
		ledger:      ledger,
		discoverers: discoverers,
		cfg:         cfg,
	}, nil
}

// Tablename returns the name of the ledger table.
func (r *Runner) Tablename() string {
	return r.ledger.Tablename()
}

// Status returns the status of every discovered migration merged with the versions recorded in
// the ledger. The returned items are ordered by version, in ascending order. Recorded versions
// with no discovered migration are reported as [StateUntracked].
//
// Status creates the ledger table if it does not exist.
func (r *Runner) Status(ctx context.Context) ([]*UnitStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	units, err := r.collect(ctx, r.cfg.migrationsNamespace, KindMigration)
	if err != nil {
		return nil, err
	}
	applied, err := r.loadApplied(ctx)
	if err != nil {
		return nil, err
	}
	recorded := make(map[int64]bool, len(applied))
	for _, v := range applied {
		recorded[v] = true
	}
	status := make([]*UnitStatus, 0, len(units))
	known := make(map[int64]bool, len(units))
	for _, u := range units {
		known[u.Version] = true
		st := &UnitStatus{State: StatePending, Source: u.Source}
		if recorded[u.Version] {
			st.State = StateApplied
		}
		status = append(status, st)
	}
	for _, v := range applied {
		if !known[v] {
			status = append(status, &UnitStatus{
				State:  StateUntracked,
				Source: Source{Kind: KindMigration, Version: v},
			})
		}
	}
	sort.SliceStable(status, func(i, j int) bool {
		return status[i].Source.Version < status[j].Source.Version
	})
	return status, nil
}

// AppliedVersions returns the versions recorded in the ledger, in ascending order.
//
// AppliedVersions creates the ledger table if it does not exist.
func (r *Runner) AppliedVersions(ctx context.Context) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadApplied(ctx)
}

// ListSources returns every discovered migration followed by every discovered seed, each group
// sorted in ascending order by version.
func (r *Runner) ListSources(ctx context.Context) ([]*Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sources []*Source
	for _, g := range []struct {
		namespace string
		kind      Kind
	}{
		{r.cfg.migrationsNamespace, KindMigration},
		{r.cfg.seedsNamespace, KindSeed},
	} {
		units, err := r.collect(ctx, g.namespace, g.kind)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			s := u.Source
			sources = append(sources, &s)
		}
	}
	return sources, nil
}

// Ping attempts to ping the database to verify a connection is available.
func (r *Runner) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection initially supplied to the runner.
func (r *Runner) Close() error {
	return r.db.Close()
}
