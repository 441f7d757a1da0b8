package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const clearLogPrefix = "db:clear"

// ClearCallbacks truncates the callbacks table. Schema and applied
// migrations are preserved.
func ClearCallbacks(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info(fmt.Sprintf("%s - Clearing callbacks", clearLogPrefix))

	if _, err := pool.Exec(ctx, `TRUNCATE TABLE callbacks`); err != nil {
		return fmt.Errorf("%s - truncate failed: %w", clearLogPrefix, err)
	}

	slog.Info(fmt.Sprintf("%s - Callbacks cleared", clearLogPrefix))
	return nil
}
