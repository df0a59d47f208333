package migrator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/whitedoc/migrator"
)

func TestParseVersion(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			kind migrator.Kind
			id   string
			want int64
		}{
			{migrator.KindMigration, "M20190823000001_CreateUsersTable", 20190823000001},
			{migrator.KindMigration, "M1_a", 1},
			{migrator.KindMigration, "M0001_leading_zeros", 1},
			{migrator.KindMigration, "M10_", 10},
			{migrator.KindMigration, "M99999999999999_widest", 99999999999999},
			{migrator.KindSeed, "S1001_CreateUsers", 1001},
			{migrator.KindSeed, "S0_zero", 0},
		}
		for _, tc := range tests {
			got, err := migrator.ParseVersion(tc.kind, tc.id)
			require.NoError(t, err, tc.id)
			require.Equal(t, tc.want, got, tc.id)
		}
	})
	t.Run("malformed", func(t *testing.T) {
		tests := []struct {
			kind migrator.Kind
			id   string
		}{
			{migrator.KindMigration, ""},
			{migrator.KindMigration, "M"},
			{migrator.KindMigration, "M1"},
			{migrator.KindMigration, "M_no_digits"},
			{migrator.KindMigration, "Mabc_letters"},
			{migrator.KindMigration, "M12a_mixed"},
			{migrator.KindMigration, "M-1_negative"},
			{migrator.KindMigration, "M123456789012345_too_wide"},
			{migrator.KindMigration, "m1_lowercase"},
			{migrator.KindMigration, "X1_other"},
			{migrator.KindSeed, "S1"},
			{migrator.KindSeed, "1001_no_prefix"},
		}
		for _, tc := range tests {
			_, err := migrator.ParseVersion(tc.kind, tc.id)
			require.Error(t, err, tc.id)
			require.ErrorIs(t, err, migrator.ErrMalformedIdentifier, tc.id)
			var idErr *migrator.IdentifierError
			require.True(t, errors.As(err, &idErr), tc.id)
			require.Equal(t, tc.id, idErr.ID)
			require.Equal(t, tc.kind, idErr.Kind)
		}
	})
	t.Run("wrong_kind", func(t *testing.T) {
		_, err := migrator.ParseVersion(migrator.KindMigration, "S1_seed")
		require.ErrorIs(t, err, migrator.ErrWrongKind)
		_, err = migrator.ParseVersion(migrator.KindSeed, "M1_migration")
		require.ErrorIs(t, err, migrator.ErrWrongKind)
		require.False(t, errors.Is(err, migrator.ErrMalformedIdentifier))
	})
	t.Run("invalid_kind", func(t *testing.T) {
		_, err := migrator.ParseVersion(migrator.Kind(0), "M1_x")
		require.Error(t, err)
	})
}

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	v, err := migrator.ParseVersion(migrator.KindMigration, "M000042_x")
	require.NoError(t, err)
	require.Equal(t, "42", migrator.FormatVersion(v))
	require.Equal(t, "20190823000001", migrator.FormatVersion(20190823000001))
}

func TestKind(t *testing.T) {
	t.Parallel()

	require.Equal(t, byte('M'), migrator.KindMigration.Prefix())
	require.Equal(t, byte('S'), migrator.KindSeed.Prefix())
	require.Equal(t, "migration", migrator.KindMigration.String())
	require.Equal(t, "seed", migrator.KindSeed.String())
	require.Equal(t, byte(0), migrator.Kind(9).Prefix())
}
