package persistence

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies the embedded schema migrations in filename order.
// Each statement is idempotent (CREATE TABLE IF NOT EXISTS) so reruns on an
// already migrated database are safe.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping schema migrations")
		return nil
	}

	entries, err := migrationFiles.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("list embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		statement, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read embedded migration %s: %w", name, err)
		}

		if _, err := pool.Exec(ctx, string(statement)); err != nil {
			return fmt.Errorf("apply schema migration %s: %w", name, err)
		}
		logger.Info("applied schema migration", zap.String("migration", name))
	}

	logger.Info("database schema up to date", zap.Int("migrations", len(names)))
	return nil
}
