package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	pgutil "github.com/phonerisk/phonerisk/pkg/postgres"
)

const postgresImage = "postgres:16-alpine"

// PostgresDB is a migrated throwaway database. The container and pool are
// released when the test finishes.
type PostgresDB struct {
	DSN  string
	Pool *pgxpool.Pool

	migrationsDir string
}

// StartPostgres runs a PostgreSQL container, applies the migrations in
// migrationsDir and returns a pool on it.
func StartPostgres(ctx context.Context, t *testing.T, migrationsDir string) *PostgresDB {
	t.Helper()

	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("phonerisk"),
		postgres.WithUsername("phonerisk"),
		postgres.WithPassword("phonerisk"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { terminate(t, ctr) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}

	if err := pgutil.RunMigrations(dsn, migrationsDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgutil.NewPool(ctx, pgutil.Config{URL: dsn, MaxConns: 4})
	if err != nil {
		t.Fatalf("postgres pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return &PostgresDB{DSN: dsn, Pool: pool, migrationsDir: migrationsDir}
}

// Reset rolls every migration back and reapplies them, leaving empty tables.
func (db *PostgresDB) Reset(t *testing.T) {
	t.Helper()
	if err := pgutil.RunMigrationsDown(db.DSN, db.migrationsDir); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if err := pgutil.RunMigrations(db.DSN, db.migrationsDir); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
}

func terminate(t *testing.T, ctr testcontainers.Container) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ctr.Terminate(ctx); err != nil {
		t.Logf("terminate %s container: %v", ctr.GetContainerID(), err)
	}
}
