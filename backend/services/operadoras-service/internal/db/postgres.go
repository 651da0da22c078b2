package db

import (
	"context"
	"database/sql"
	"embed"

	libdb "painelans/backend/libs/db"
)

//go:embed migrations/*.sql
var migrations embed.FS

// NewPostgres connects to Postgres using the shared helper.
func NewPostgres(ctx context.Context, dsn string, maxOpenConns int) (*sql.DB, error) {
	return libdb.NewPostgresDB(ctx, dsn, libdb.PoolOptions{MaxOpenConns: maxOpenConns})
}

// Migrate brings the operadoras schema up to date.
func Migrate(db *sql.DB) error {
	return libdb.RunMigrations(db, migrations, "migrations")
}
