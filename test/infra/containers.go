package infra

import (
	"context"
	"os"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// LiveDatabase is the Postgres instance a live test runs against. When an
// external DSN was supplied no container is owned and Terminate is a no-op.
type LiveDatabase struct {
	container *postgres.PostgresContainer
	DSN       string
}

// StartLivePostgres provides a Postgres 16 database for live tests. An
// explicit overrideDSN, or LIVE_TEST_PG_DSN in the environment, short-circuits
// container startup and reuses that database; the migrations are idempotent so
// sharing one is safe.
func StartLivePostgres(ctx context.Context, overrideDSN string) (*LiveDatabase, error) {
	if dsn := externalDSN(overrideDSN); dsn != "" {
		return &LiveDatabase{DSN: dsn}, nil
	}

	pgC, err := postgres.Run(ctx,
		"postgres:16",
		postgres.WithDatabase("approvals"),
		postgres.WithUsername("approvals"),
		postgres.WithPassword("approvals"),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgC.Terminate(ctx)
		return nil, err
	}
	return &LiveDatabase{container: pgC, DSN: dsn}, nil
}

func externalDSN(overrideDSN string) string {
	if overrideDSN != "" {
		return overrideDSN
	}
	return os.Getenv("LIVE_TEST_PG_DSN")
}

func (d *LiveDatabase) Terminate(ctx context.Context) error {
	if d == nil || d.container == nil {
		return nil
	}
	return d.container.Terminate(ctx)
}
