package dialectquery

import "fmt"

type Sqlserver struct{}

var _ Querier = (*Sqlserver)(nil)

func (s *Sqlserver) CreateTable(tableName string) string {
	q := `IF OBJECT_ID(N'%s', N'U') IS NULL
CREATE TABLE %s (
	version VARCHAR(14) NOT NULL PRIMARY KEY
)`
	return fmt.Sprintf(q, tableName, tableName)
}

func (s *Sqlserver) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES (@p1)`
	return fmt.Sprintf(q, tableName)
}

func (s *Sqlserver) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
