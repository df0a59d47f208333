//go:build no_ydb

package main

import (
	"context"
	"database/sql"
	"errors"
)

func openYDB(context.Context, string) (*sql.DB, error) {
	return nil, errors.New("ydb driver not compiled in, rebuild without the no_ydb tag")
}
