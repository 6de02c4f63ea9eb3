package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

type execer func(query string) error

func MigrateUp(db *sql.DB) error {
	return applyMigrations(sqliteExec(db), "sqlite", ".up.sql")
}

func MigrateDown(db *sql.DB) error {
	return applyMigrations(sqliteExec(db), "sqlite", ".down.sql")
}

func sqliteExec(db *sql.DB) execer {
	return func(query string) error {
		_, err := db.Exec(query)
		return err
	}
}

// migrationNames returns the files for dialect in apply order. Down
// migrations run newest first.
func migrationNames(dialect, suffix string) ([]string, error) {
	entries, err := fs.Glob(migrationFiles, "migrations/"+dialect+"/*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(entries)
	if suffix == ".down.sql" {
		sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	}
	return entries, nil
}

func applyMigrations(exec execer, dialect, suffix string) error {
	entries, err := migrationNames(dialect, suffix)
	if err != nil {
		return err
	}
	for _, name := range entries {
		sqlBytes, readErr := migrationFiles.ReadFile(name)
		if readErr != nil {
			return fmt.Errorf("read migration %s: %w", name, readErr)
		}
		if execErr := exec(string(sqlBytes)); execErr != nil {
			return fmt.Errorf("apply migration %s: %w", name, execErr)
		}
	}
	return nil
}

// MigrateUp applies the Postgres schema.
func (r *PostgresRepository) MigrateUp(ctx context.Context) error {
	return applyMigrations(r.execer(ctx), "postgres", ".up.sql")
}

func (r *PostgresRepository) MigrateDown(ctx context.Context) error {
	return applyMigrations(r.execer(ctx), "postgres", ".down.sql")
}

func (r *SQLiteRepository) MigrateUp(context.Context) error {
	return MigrateUp(r.db)
}

func (r *SQLiteRepository) MigrateDown(context.Context) error {
	return MigrateDown(r.db)
}

// Migrator is implemented by every Store returned from Open.
type Migrator interface {
	MigrateUp(ctx context.Context) error
	MigrateDown(ctx context.Context) error
}

var (
	_ Migrator = (*SQLiteRepository)(nil)
	_ Migrator = (*PostgresRepository)(nil)
)
