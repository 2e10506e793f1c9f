package repository

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the schema files bundled with the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate runs every NNN_name.sql file of migrationsFS newer than the version
// recorded in schema_version, each one in its own transaction.
func Migrate(db *sql.DB, migrationsFS fs.FS, logger *zap.Logger) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		version, err := ParseMigrationVersion(name)
		if err != nil {
			logger.Warn("Skipping invalid migration file.", zap.String("file", name), zap.Error(err))
			continue
		}
		if version <= current {
			continue
		}

		body, err := fs.ReadFile(migrationsFS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		logger.Info("Migrating schema.", zap.Int("version", version), zap.String("file", name))
		if err := applyMigration(db, version, string(body)); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(db *sql.DB, version int, body string) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx for migration %d: %w", version, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(body); err != nil {
		return fmt.Errorf("migration %d failed: %w", version, err)
	}
	if _, err = tx.Exec(`INSERT OR REPLACE INTO schema_version(version) VALUES (?)`, version); err != nil {
		return fmt.Errorf("recording migration %d: %w", version, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", version, err)
	}
	return nil
}

// ParseMigrationVersion extracts the leading positive number of a migration
// file name such as "003_add_index.sql".
func ParseMigrationVersion(filename string) (int, error) {
	base := filename[strings.LastIndex(filename, "/")+1:]

	name, ok := strings.CutSuffix(base, ".sql")
	if !ok {
		return 0, fmt.Errorf("migration %q: invalid extension", base)
	}

	prefix, _, _ := strings.Cut(name, "_")
	if prefix == "" {
		return 0, fmt.Errorf("migration %q: missing version prefix", base)
	}

	version, err := strconv.Atoi(prefix)
	if err != nil || version <= 0 {
		return 0, fmt.Errorf("migration %q: invalid version number", base)
	}
	return version, nil
}
