package dialectquery

import "fmt"

// Redshift accepts but does not enforce primary keys.
type Redshift struct{}

var _ Querier = (*Redshift)(nil)

func (r *Redshift) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version varchar(14) NOT NULL,
		PRIMARY KEY(version)
	)`
	return fmt.Sprintf(q, tableName)
}

func (r *Redshift) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES ($1)`
	return fmt.Sprintf(q, tableName)
}

func (r *Redshift) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
