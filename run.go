package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/multierr"
)

// RunMigrations applies every discovered migration whose version is not recorded in the ledger,
// in ascending version order, recording each one immediately after it succeeds. If there are no
// pending migrations, it returns an empty list and nil error.
//
// Identifier and discovery errors are returned before the database is touched. When a migration
// fails the run stops and a [*PartialError] is returned; migrations applied before the failure
// stay recorded and a later run resumes with the failed migration.
func (r *Runner) RunMigrations(ctx context.Context) ([]*UnitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	units, err := r.collect(ctx, r.cfg.migrationsNamespace, KindMigration)
	if err != nil {
		return nil, err
	}
	return r.runMigrations(ctx, units)
}

// RunSeeds applies every discovered seed in ascending version order. Seeds are not recorded, so
// they run again on every call. The ledger is not read or written.
func (r *Runner) RunSeeds(ctx context.Context) ([]*UnitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	units, err := r.collect(ctx, r.cfg.seedsNamespace, KindSeed)
	if err != nil {
		return nil, err
	}
	return r.runUnits(ctx, KindSeed, units)
}

// RunAll runs migrations and then seeds. Both namespaces are discovered before anything is
// applied. Seeds are skipped if migrations fail. The returned results hold the migrations
// followed by the seeds.
func (r *Runner) RunAll(ctx context.Context) ([]*UnitResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	migrations, err := r.collect(ctx, r.cfg.migrationsNamespace, KindMigration)
	if err != nil {
		return nil, err
	}
	seeds, err := r.collect(ctx, r.cfg.seedsNamespace, KindSeed)
	if err != nil {
		return nil, err
	}
	results, err := r.runMigrations(ctx, migrations)
	if err != nil {
		return nil, err
	}
	seeded, err := r.runUnits(ctx, KindSeed, seeds)
	if err != nil {
		var partialErr *PartialError
		if errors.As(err, &partialErr) {
			partialErr.Applied = append(results, partialErr.Applied...)
		}
		return nil, err
	}
	return append(results, seeded...), nil
}

func (r *Runner) runMigrations(ctx context.Context, units []*planned) ([]*UnitResult, error) {
	applied, err := r.loadApplied(ctx)
	if err != nil {
		return nil, err
	}
	apply := pending(units, applied)
	if len(apply) == 0 {
		r.cfg.logger.Printf("migrator: no migrations to run, %d already applied", len(applied))
		return nil, nil
	}
	return r.runUnits(ctx, KindMigration, apply)
}

// runUnits applies units sequentially. Migrations are recorded in the ledger one by one, each on
// its own connection.
//
// If the units slice is empty, this function returns nil with no error.
func (r *Runner) runUnits(ctx context.Context, kind Kind, units []*planned) ([]*UnitResult, error) {
	if len(units) == 0 {
		return nil, nil
	}
	// Avoid allocating a slice because we may have a partial error. Avoid giving the impression
	// that N units were applied when in fact some were not.
	var results []*UnitResult
	started := time.Now()
	for _, u := range units {
		current := &UnitResult{Source: u.Source}
		r.cfg.logger.Printf("started %s of %s", kind, u.ID)
		start := time.Now()
		if err := r.runOne(ctx, u); err != nil {
			current.Error = err
			current.Duration = time.Since(start)
			r.cfg.logger.Printf("failed %s of %s: %v", kind, u.ID, err)
			return nil, &PartialError{
				Applied: results,
				Failed:  current,
				Err:     err,
			}
		}
		current.Duration = time.Since(start)
		r.cfg.logger.Printf("ended %s of %s", kind, u.ID)
		results = append(results, current)
	}
	r.cfg.logger.Printf("migrator: applied %d %s(s) (%s), last version %d",
		len(results), kind, truncateDuration(time.Since(started)), results[len(results)-1].Source.Version)
	return results, nil
}

// runOne constructs a fresh unit, injects the connection provider and applies it. For migrations
// the version is recorded after Apply returns successfully.
func (r *Runner) runOne(ctx context.Context, p *planned) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	unit := p.new()
	if unit == nil {
		return fmt.Errorf("%s %q: factory returned nil unit", p.Kind, p.ID)
	}
	unit.SetConnectionProvider(r.db)
	if err := unit.Apply(ctx); err != nil {
		return err
	}
	if p.Kind != KindMigration {
		return nil
	}
	if err := r.withConn(ctx, func(conn *sql.Conn) error {
		return r.ledger.RecordApplied(ctx, conn, p.Version)
	}); err != nil {
		return fmt.Errorf("failed to record version %d in %s: %w", p.Version, r.ledger.Tablename(), err)
	}
	return nil
}

// loadApplied ensures the ledger table exists and returns its versions in ascending order.
func (r *Runner) loadApplied(ctx context.Context) ([]int64, error) {
	if err := r.withConn(ctx, func(conn *sql.Conn) error {
		return r.ledger.EnsureSchema(ctx, conn)
	}); err != nil {
		return nil, fmt.Errorf("failed to ensure ledger table %s: %w", r.ledger.Tablename(), err)
	}
	var applied []int64
	if err := r.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		applied, err = r.ledger.LoadAppliedVersions(ctx, conn)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to load applied versions from %s: %w", r.ledger.Tablename(), err)
	}
	sort.Slice(applied, func(i, j int) bool {
		return applied[i] < applied[j]
	})
	if r.cfg.verbose {
		r.cfg.logger.Printf("migrator: ledger %s holds %d version(s)", r.ledger.Tablename(), len(applied))
	}
	return applied, nil
}

// withConn acquires a dedicated connection, runs fn and releases the connection on every path.
func (r *Runner) withConn(ctx context.Context, fn func(conn *sql.Conn) error) (retErr error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer func() {
		retErr = multierr.Append(retErr, conn.Close())
	}()
	return fn(conn)
}
