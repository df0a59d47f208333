package testdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/sethvargo/go-retry"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// https://hub.docker.com/_/postgres
	POSTGRES_IMAGE = "postgres:16-alpine"

	POSTGRES_DB       = "testdb"
	POSTGRES_USER     = "postgres"
	POSTGRES_PASSWORD = "password1"

	defaultLabel = "migrator_test"
)

func newPostgres(opts ...OptionsFunc) (*sql.DB, func(), error) {
	opt := options{
		image:   POSTGRES_IMAGE,
		timeout: 2 * time.Minute,
	}
	for _, f := range opts {
		f(&opt)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opt.timeout)
	defer cancel()
	req := testcontainers.ContainerRequest{
		Image:        opt.image,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       POSTGRES_DB,
			"POSTGRES_USER":     POSTGRES_USER,
			"POSTGRES_PASSWORD": POSTGRES_PASSWORD,
		},
		Labels: map[string]string{defaultLabel: "1"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	cleanup := maybeCleanup(container)
	host, err := container.Host(ctx)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to get container port: %w", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		POSTGRES_USER, POSTGRES_PASSWORD, host, port.Port(), POSTGRES_DB)
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	// The log line can be emitted before the port accepts connections on some hosts.
	backoff := retry.WithMaxDuration(30*time.Second, retry.NewConstant(500*time.Millisecond))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	}); err != nil {
		_ = db.Close()
		return nil, cleanup, fmt.Errorf("postgres not ready: %w", err)
	}
	return db, cleanup, nil
}

func maybeCleanup(container testcontainers.Container) func() {
	return func() {
		if envIsTrue(EnvNoCleanup) {
			keep(container.GetContainerID())
			return
		}
		_ = container.Terminate(context.Background())
	}
}
