package db_conn

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jacantwell/kairos-backend/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate применяет все *.sql файлы из migrations/ в лексикографическом порядке.
// Каждый файл выполняется в своей транзакции; сами файлы НЕ должны содержать BEGIN/COMMIT.
// Все миграции идемпотентны (IF NOT EXISTS), повторный запуск безопасен.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sqlb, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx for %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(sqlb)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit %s failed: %w", name, err)
		}
		log.Debug(logger.Entry{Action: "migration_applied", Message: name})
	}
	return nil
}
