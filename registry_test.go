package migrator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whitedoc/migrator"
)

type M20190823000001_CreateUsers struct{ migrator.Base }

func (*M20190823000001_CreateUsers) Apply(context.Context) error { return nil }

func TestRegistry(t *testing.T) {
	t.Parallel()

	noop := migrator.UnitFunc(func(context.Context, migrator.ConnectionProvider) error { return nil })

	t.Run("register_and_discover", func(t *testing.T) {
		ctx := context.Background()
		r := migrator.NewRegistry()
		require.NoError(t, r.Register("migrations", migrator.KindMigration, "M2_b", noop))
		require.NoError(t, r.Register("migrations", migrator.KindMigration, "M1_a", noop))
		require.NoError(t, r.Register("seeds", migrator.KindSeed, "S1_a", noop))
		require.NoError(t, r.Register("other", migrator.KindMigration, "M1_a", noop))

		got, err := r.Discover(ctx, "migrations", migrator.KindMigration)
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "M1_a", got[0].ID)
		require.Equal(t, "M2_b", got[1].ID)
		require.Equal(t, migrator.TypeGo, got[0].Type)

		got, err = r.Discover(ctx, "seeds", migrator.KindSeed)
		require.NoError(t, err)
		require.Len(t, got, 1)
		// A namespace holds one kind.
		_, err = r.Discover(ctx, "seeds", migrator.KindMigration)
		require.ErrorIs(t, err, migrator.ErrWrongKind)
		var idErr *migrator.IdentifierError
		require.ErrorAs(t, err, &idErr)
		require.Equal(t, "S1_a", idErr.ID)
		got, err = r.Discover(ctx, "missing", migrator.KindMigration)
		require.NoError(t, err)
		require.Empty(t, got)
	})
	t.Run("invalid", func(t *testing.T) {
		r := migrator.NewRegistry()
		require.ErrorIs(t, r.Register("migrations", migrator.KindMigration, "M1_a", nil), migrator.ErrNilFactory)
		require.Error(t, r.Register("", migrator.KindMigration, "M1_a", noop))
		require.Error(t, r.Register("migrations", migrator.KindMigration, "", noop))
		require.Error(t, r.Register("migrations", migrator.Kind(0), "M1_a", noop))
		require.NoError(t, r.Register("migrations", migrator.KindMigration, "M1_a", noop))
		require.ErrorIs(t, r.Register("migrations", migrator.KindMigration, "M1_a", noop), migrator.ErrDuplicateIdentifier)
	})
	t.Run("register_type", func(t *testing.T) {
		ctx := context.Background()
		r := migrator.NewRegistry()
		require.NoError(t, r.RegisterType("migrations", migrator.KindMigration, func() migrator.Unit {
			return new(M20190823000001_CreateUsers)
		}))
		got, err := r.Discover(ctx, "migrations", migrator.KindMigration)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.Equal(t, "M20190823000001_CreateUsers", got[0].ID)
		require.ErrorIs(t, r.RegisterType("migrations", migrator.KindMigration, nil), migrator.ErrNilFactory)
	})
	t.Run("reset", func(t *testing.T) {
		ctx := context.Background()
		r := migrator.NewRegistry()
		require.NoError(t, r.Register("migrations", migrator.KindMigration, "M1_a", noop))
		r.Reset()
		got, err := r.Discover(ctx, "migrations", migrator.KindMigration)
		require.NoError(t, err)
		require.Empty(t, got)
	})
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "M20190823000001_CreateUsers", migrator.TypeName(&M20190823000001_CreateUsers{}))
	require.Equal(t, "", migrator.TypeName(nil))
}

func TestGlobalRegistry(t *testing.T) {
	// Not parallel: mutates the global registry.
	migrator.ResetGlobalUnits()
	t.Cleanup(migrator.ResetGlobalUnits)

	noop := migrator.UnitFunc(func(context.Context, migrator.ConnectionProvider) error { return nil })
	migrator.AddMigration("M1_a", noop)
	migrator.AddSeed("S1_a", noop)
	migrator.AddMigrationType(func() migrator.Unit { return new(M20190823000001_CreateUsers) })
	require.Panics(t, func() { migrator.AddMigration("M1_a", noop) })
	require.Panics(t, func() { migrator.AddSeed("S2_nil", nil) })
	require.Panics(t, func() { migrator.AddUnit("", migrator.KindSeed, "S3_x", noop) })

	ctx := context.Background()
	got, err := migrator.GlobalRegistry().Discover(ctx, migrator.DefaultMigrationsNamespace, migrator.KindMigration)
	require.NoError(t, err)
	require.Len(t, got, 2)
	got, err = migrator.GlobalRegistry().Discover(ctx, migrator.DefaultSeedsNamespace, migrator.KindSeed)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
