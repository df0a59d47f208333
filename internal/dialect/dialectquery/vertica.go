package dialectquery

import "fmt"

type Vertica struct{}

var _ Querier = (*Vertica)(nil)

func (v *Vertica) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version varchar(14) NOT NULL,
		PRIMARY KEY(version) ENABLED
	)`
	return fmt.Sprintf(q, tableName)
}

func (v *Vertica) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES (?)`
	return fmt.Sprintf(q, tableName)
}

func (v *Vertica) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
