package migrator_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/whitedoc/migrator"
	"github.com/whitedoc/migrator/database"
	"github.com/whitedoc/migrator/internal/testdb"
)

func TestPostgres(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	db, cleanup, err := testdb.NewPostgres()
	if err != nil {
		t.Skipf("skipping postgres container test: %v", err)
	}
	t.Cleanup(cleanup)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	fsys := fstest.MapFS{
		"migrations/M20190823000001_users.sql": {Data: []byte(`
CREATE TABLE users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL
);
`)},
		"migrations/M20190823000003_trigger.sql": {Data: []byte(`
-- +migrator StatementBegin
CREATE FUNCTION users_upper() RETURNS trigger AS $$
BEGIN
	NEW.name := upper(NEW.name);
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;
-- +migrator StatementEnd
CREATE TRIGGER users_upper BEFORE INSERT ON users FOR EACH ROW EXECUTE FUNCTION users_upper();
`)},
		"seeds/S1_users.sql": {Data: []byte(`INSERT INTO users (name) VALUES ('alice');`)},
	}
	reg := migrator.NewRegistry()
	require.NoError(t, reg.Register(migrator.DefaultMigrationsNamespace, migrator.KindMigration, "M20190823000002_index",
		migrator.UnitFunc(func(ctx context.Context, db migrator.ConnectionProvider) error {
			_, err := db.ExecContext(ctx, `CREATE INDEX users_name ON users (name)`)
			return err
		}),
	))
	r, err := migrator.NewRunner(database.DialectPostgres, db, fsys,
		migrator.WithRegistry(reg),
		migrator.WithLogger(migrator.NopLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, r.Ping(ctx))

	res, err := r.RunAll(ctx)
	require.NoError(t, err)
	require.Len(t, res, 4)
	versions, err := r.AppliedVersions(ctx)
	require.NoError(t, err)
	require.Equal(t, []int64{20190823000001, 20190823000002, 20190823000003}, versions)
	var name string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT name FROM users`).Scan(&name))
	require.Equal(t, "ALICE", name)

	// Second run: only the seed runs again.
	res, err = r.RunAll(ctx)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n))
	require.Equal(t, 2, n)

	// A failing unit leaves earlier versions recorded.
	require.NoError(t, reg.Register(migrator.DefaultMigrationsNamespace, migrator.KindMigration, "M20190823000004_broken",
		migrator.UnitFunc(func(ctx context.Context, db migrator.ConnectionProvider) error {
			_, err := db.ExecContext(ctx, `ALTER TABLE missing ADD COLUMN x int`)
			return err
		}),
	))
	_, err = r.RunMigrations(ctx)
	var partialErr *migrator.PartialError
	require.True(t, errors.As(err, &partialErr))
	require.Equal(t, int64(20190823000004), partialErr.Failed.Source.Version)
	versions, err = r.AppliedVersions(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 3)
}
