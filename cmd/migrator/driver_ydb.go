//go:build !no_ydb

package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ydb-platform/ydb-go-sdk/v3"
)

// openYDB opens a database/sql handle over the native YDB driver. Units run in scripting mode with
// numeric placeholders, which is what the ledger queries expect.
func openYDB(ctx context.Context, dsn string) (*sql.DB, error) {
	nativeDriver, err := ydb.Open(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open ydb driver: %w", err)
	}
	connector, err := ydb.Connector(nativeDriver,
		ydb.WithDefaultQueryMode(ydb.ScriptingQueryMode),
		ydb.WithFakeTx(ydb.ScriptingQueryMode),
		ydb.WithAutoDeclare(),
		ydb.WithNumericArgs(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ydb connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}
