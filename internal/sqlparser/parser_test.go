package sqlparser

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

const debug = false

func TestParseSimple(t *testing.T) {
	t.Parallel()

	s := `
-- leading comment is dropped
CREATE TABLE users (
	id int NOT NULL, -- trailing comment; not a terminator
	name text
);

INSERT INTO users (id, name) VALUES (1, 'a;b');
-- between statements
INSERT INTO users (id, name) VALUES (2, 'c');
`
	p, err := Parse(strings.NewReader(s), debug)
	require.NoError(t, err)
	require.True(t, p.UseTx)
	require.Len(t, p.Statements, 3)
	require.True(t, strings.HasPrefix(p.Statements[0], "CREATE TABLE users ("))
	require.True(t, strings.HasSuffix(p.Statements[0], ");"))
	require.Equal(t, "INSERT INTO users (id, name) VALUES (1, 'a;b');", p.Statements[1])
	require.Equal(t, "INSERT INTO users (id, name) VALUES (2, 'c');", p.Statements[2])
}

func TestParseStatementBlock(t *testing.T) {
	t.Parallel()

	s := `
-- +migrator NO TRANSACTION
-- +migrator StatementBegin
CREATE FUNCTION touch() RETURNS trigger AS $$
BEGIN
	NEW.updated_at = now();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql;
-- +migrator StatementEnd
SELECT 1;
`
	p, err := Parse(strings.NewReader(s), debug)
	require.NoError(t, err)
	require.False(t, p.UseTx)
	require.Len(t, p.Statements, 2)
	require.Contains(t, p.Statements[0], "NEW.updated_at = now();")
	require.Equal(t, "SELECT 1;", p.Statements[1])
}

func TestParseEmpty(t *testing.T) {
	t.Parallel()

	p, err := Parse(strings.NewReader("-- nothing here\n\n"), debug)
	require.NoError(t, err)
	require.Empty(t, p.Statements)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "missing_semicolon",
			input:   "CREATE TABLE foo (id int)\n",
			wantErr: "missing semicolon",
		},
		{
			name:    "missing_statement_end",
			input:   "-- +migrator StatementBegin\nSELECT 1;\n",
			wantErr: "missing '-- +migrator StatementEnd'",
		},
		{
			name:    "statement_end_without_begin",
			input:   "SELECT 1;\n-- +migrator StatementEnd\n",
			wantErr: "must be defined after",
		},
		{
			name:    "nested_begin",
			input:   "-- +migrator StatementBegin\n-- +migrator StatementBegin\n",
			wantErr: "nested",
		},
		{
			name:    "unsupported_annotation",
			input:   "-- +migrator Down\n",
			wantErr: "unsupported annotation",
		},
		{
			name:    "empty_annotation",
			input:   "-- +migrator\n",
			wantErr: "empty annotation",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input), debug)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestExtractAnnotation(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		input string
		want  annotation
	}{
		{input: "-- +migrator StatementBegin", want: annotationStatementBegin},
		{input: "--+migrator statementend", want: annotationStatementEnd},
		{input: "-- +migrator   NO    TRANSACTION ", want: annotationNoTransaction},
		{input: "-- +migrator ENVSUB ON", want: annotationEnvsubOn},
		{input: "-- +migrator envsub off", want: annotationEnvsubOff},
	} {
		got, err := extractAnnotation(tc.input)
		require.NoError(t, err, tc.input)
		require.Equal(t, tc.want, got, tc.input)
	}
}

func TestEnvsub(t *testing.T) {
	t.Setenv("MIGRATOR_ENV_REGION", "us_east")

	s := `
-- +migrator ENVSUB ON
INSERT INTO regions (name) VALUES ('${MIGRATOR_ENV_REGION}');
-- +migrator ENVSUB OFF
INSERT INTO regions (name) VALUES ('${MIGRATOR_ENV_REGION}');
`
	p, err := Parse(strings.NewReader(s), debug)
	require.NoError(t, err)
	require.Equal(t, []string{
		"INSERT INTO regions (name) VALUES ('us_east');",
		"INSERT INTO regions (name) VALUES ('${MIGRATOR_ENV_REGION}');",
	}, p.Statements)
}

func TestEnvsubError(t *testing.T) {
	t.Parallel()

	s := `
-- +migrator ENVSUB ON
CREATE TABLE post (
	${SOME_UNSET_VAR?required env var not set} text
);
`
	_, err := Parse(strings.NewReader(s), debug)
	require.Error(t, err)
	require.Contains(t, err.Error(), "variable substitution failed")
	require.Contains(t, err.Error(), "SOME_UNSET_VAR")
}

func TestParseFromFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"migrations/M1_create.sql": {Data: []byte("CREATE TABLE a (id int);\n")},
		"migrations/M2_broken.sql": {Data: []byte("CREATE TABLE b (id int)\n")},
	}
	p, err := ParseFromFS(fsys, "migrations/M1_create.sql", debug)
	require.NoError(t, err)
	require.Equal(t, []string{"CREATE TABLE a (id int);"}, p.Statements)

	_, err = ParseFromFS(fsys, "migrations/M2_broken.sql", debug)
	require.Error(t, err)
	require.Contains(t, err.Error(), "migrations/M2_broken.sql")

	_, err = ParseFromFS(fsys, "migrations/missing.sql", debug)
	require.Error(t, err)
}
