// Package containers starts the Postgres and NATS dependencies of the
// integration suite.
package containers

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	postgresImage = "postgres:16-alpine"
	natsImage     = "nats:2.10-alpine"
	startTimeout  = 45 * time.Second

	pgDatabase = "pipeline_test"
	pgUser     = "pipeline"
	pgPassword = "pipeline"
)

// endpoint resolves a started container's address, terminating the container
// if the address cannot be built.
func endpoint[C testcontainers.Container](ctx context.Context, name string, c C, address func(context.Context) (string, error)) (string, error) {
	addr, err := address(ctx)
	if err != nil {
		if terminateErr := c.Terminate(ctx); terminateErr != nil {
			log.Printf("Failed to terminate %s container: %v", name, terminateErr)
		}
		return "", fmt.Errorf("failed to resolve %s endpoint: %w", name, err)
	}
	log.Printf("%s container ready at %s", name, addr)
	return addr, nil
}

// SetupPostgresContainer starts Postgres and returns it with a DSN that has
// TLS disabled.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	dsnFor := func(host string, port nat.Port) string {
		return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, host, port.Port(), pgDatabase)
	}
	c, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase(pgDatabase),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(wait.ForSQL("5432/tcp", "pgx", dsnFor).WithStartupTimeout(startTimeout)),
	)
	if err != nil {
		if c != nil {
			_ = c.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := endpoint(ctx, "postgres", c, func(ctx context.Context) (string, error) {
		raw, err := c.ConnectionString(ctx)
		if err != nil {
			return "", err
		}
		u, err := url.Parse(raw)
		if err != nil {
			return "", err
		}
		q := u.Query()
		q.Set("sslmode", "disable")
		u.RawQuery = q.Encode()
		return u.String(), nil
	})
	if err != nil {
		return nil, "", err
	}
	return c, dsn, nil
}

// SetupNatsContainer starts NATS with JetStream and returns it with its URL.
func SetupNatsContainer(ctx context.Context) (*nats.NATSContainer, string, error) {
	c, err := nats.Run(ctx, natsImage,
		testcontainers.WithWaitStrategy(
			wait.ForAll(wait.ForLog("Server is ready"), wait.ForListeningPort("4222/tcp")).WithDeadline(startTimeout),
		),
	)
	if err != nil {
		if c != nil {
			_ = c.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start NATS container: %w", err)
	}

	natsURL, err := endpoint(ctx, "nats", c, func(ctx context.Context) (string, error) {
		return c.ConnectionString(ctx)
	})
	if err != nil {
		return nil, "", err
	}
	return c, natsURL, nil
}
