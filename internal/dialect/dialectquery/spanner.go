package dialectquery

import "fmt"

type Spanner struct{}

var _ Querier = (*Spanner)(nil)

func (s *Spanner) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version STRING(14) NOT NULL,
	) PRIMARY KEY(version)`
	return fmt.Sprintf(q, tableName)
}

func (s *Spanner) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES (?)`
	return fmt.Sprintf(q, tableName)
}

func (s *Spanner) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
