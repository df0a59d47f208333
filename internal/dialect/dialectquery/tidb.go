package dialectquery

import "fmt"

type Tidb struct{}

var _ Querier = (*Tidb)(nil)

func (t *Tidb) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version varchar(14) NOT NULL,
		PRIMARY KEY(version)
	)`
	return fmt.Sprintf(q, tableName)
}

func (t *Tidb) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES (?)`
	return fmt.Sprintf(q, tableName)
}

func (t *Tidb) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
