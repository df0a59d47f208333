package normalizedsn

import "github.com/go-sql-driver/mysql"

// DBString parses the dsn used with the mysql driver to always have the parameter `parseTime` set
// to true, and to allow several statements in one Exec call so multi-statement SQL units work.
func DBString(dsn string) (string, error) {
	config, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	config.ParseTime = true
	config.MultiStatements = true
	return config.FormatDSN(), nil
}
