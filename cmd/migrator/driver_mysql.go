//go:build !no_mysql

package main

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/ziutek/mymysql/godrv"

	"github.com/whitedoc/migrator/internal/normalizedsn"
)

// normalizeDBString makes sure the mysql driver scans DATETIME columns into time.Time and accepts
// multi-statement units.
func normalizeDBString(driver string, str string) (string, error) {
	if driver != "mysql" {
		return str, nil
	}
	normalized, err := normalizedsn.DBString(str)
	if err != nil {
		return "", fmt.Errorf("failed to normalize MySQL connection string: %w", err)
	}
	return normalized, nil
}
