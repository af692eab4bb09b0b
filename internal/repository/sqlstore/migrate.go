package sqlstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate applies every pending schema migration for the connection's dialect.
func Migrate(ctx context.Context, db *DB) error {
	fsys, err := fs.Sub(migrations, "migrations/"+db.dialect.Name())
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", db.dialect.Name(), err)
	}

	provider, err := goose.NewProvider(db.dialect.migrationDialect(), db.DB, fsys)
	if err != nil {
		return fmt.Errorf("create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
