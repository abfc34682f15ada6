package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

func MigrateUp(db *sql.DB) error {
	return applyMigrations(migrationScripts("sqlite", ".up.sql", false), func(script string) error {
		_, err := db.Exec(script)
		return err
	})
}

func MigrateDown(db *sql.DB) error {
	return applyMigrations(migrationScripts("sqlite", ".down.sql", true), func(script string) error {
		_, err := db.Exec(script)
		return err
	})
}

func MigratePostgresUp(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigrations(migrationScripts("postgres", ".up.sql", false), func(script string) error {
		_, err := pool.Exec(ctx, script)
		return err
	})
}

func MigratePostgresDown(ctx context.Context, pool *pgxpool.Pool) error {
	return applyMigrations(migrationScripts("postgres", ".down.sql", true), func(script string) error {
		_, err := pool.Exec(ctx, script)
		return err
	})
}

type migrationSource struct {
	names []string
	err   error
}

// migrationScripts lists the dialect scripts; down migrations run newest first.
func migrationScripts(dialect, suffix string, reverse bool) migrationSource {
	entries, err := fs.Glob(migrationFiles, "migrations/"+dialect+"/*"+suffix)
	if err != nil {
		return migrationSource{err: fmt.Errorf("glob migrations: %w", err)}
	}
	sort.Strings(entries)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(entries)))
	}
	return migrationSource{names: entries}
}

func applyMigrations(src migrationSource, exec func(script string) error) error {
	if src.err != nil {
		return src.err
	}
	for _, name := range src.names {
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
