package dialectquery

import "fmt"

type Mysql struct{}

var _ Querier = (*Mysql)(nil)

func (m *Mysql) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version varchar(14) NOT NULL,
		PRIMARY KEY(version)
	) ENGINE=InnoDB`
	return fmt.Sprintf(q, tableName)
}

func (m *Mysql) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES (?)`
	return fmt.Sprintf(q, tableName)
}

func (m *Mysql) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
