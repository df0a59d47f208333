package dialectquery

import "fmt"

// Clickhouse has no uniqueness constraints. Duplicate protection relies on the runner filtering
// already applied versions.
type Clickhouse struct{}

var _ Querier = (*Clickhouse)(nil)

func (c *Clickhouse) CreateTable(tableName string) string {
	q := `CREATE TABLE IF NOT EXISTS %s (
		version String
	)
	ENGINE = MergeTree()
	ORDER BY version`
	return fmt.Sprintf(q, tableName)
}

func (c *Clickhouse) InsertVersion(tableName string) string {
	q := `INSERT INTO %s (version) VALUES ($1)`
	return fmt.Sprintf(q, tableName)
}

func (c *Clickhouse) ListVersions(tableName string) string {
	q := `SELECT version FROM %s`
	return fmt.Sprintf(q, tableName)
}
