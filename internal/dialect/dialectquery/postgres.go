package dialectquery

import "fmt"

type Postgres struct{}

var _ Querier = (*Postgres)(nil)

func (p *Postgres) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version varchar(14) NOT NULL,
		PRIMARY KEY(version)
	)`
	return fmt.Sprintf(q, tableName)
}

func (p *Postgres) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES ($1)`
	return fmt.Sprintf(q, tableName)
}

func (p *Postgres) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
