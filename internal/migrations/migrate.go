package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	pg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

const migrationsTable = "schema_migrations_snooker"

var versionPrefix = regexp.MustCompile(`^0*([0-9]+)_`)

// RunMigrations applies the SQL files in dir (default "migrations").
func RunMigrations(databaseURL, dir string) error {
	if dir == "" {
		dir = "migrations"
	}
	if databaseURL == "" {
		return fmt.Errorf("database URL is empty")
	}

	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open DB: %w", err)
	}
	defer sqlDB.Close()

	driver, err := pg.WithInstance(sqlDB, &pg.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	baseline(sqlDB, m, dir)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Printf("[MIGRATE] No migrations found in %s", dir)
	case err != nil:
		log.Printf("[MIGRATE] Could not read schema version: %v", err)
	default:
		log.Printf("[MIGRATE] Schema at version %d (dirty=%v)", version, dirty)
	}
	return nil
}

// baseline forces the latest version when the snooker tables were created
// by hand and migrate has no bookkeeping for them yet.
func baseline(sqlDB *sql.DB, m *migrate.Migrate, dir string) {
	if !tableExists(sqlDB, "snooker_sessions") || tableExists(sqlDB, migrationsTable) {
		return
	}
	latest := findLatestMigrationVersion(dir)
	if latest == 0 {
		return
	}
	log.Printf("[MIGRATE] Existing schema without migrate metadata, baselining to version %d", latest)
	if err := m.Force(int(latest)); err != nil {
		log.Printf("[MIGRATE] Force to version %d failed: %v", latest, err)
	}
}

func tableExists(sqlDB *sql.DB, name string) bool {
	var exists bool
	err := sqlDB.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)", name,
	).Scan(&exists)
	return err == nil && exists
}

// findLatestMigrationVersion returns the highest numeric prefix (000003_ -> 3)
// among the files in dir, or 0.
func findLatestMigrationVersion(dir string) int64 {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	var latest int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		match := versionPrefix.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		if v, err := strconv.ParseInt(match[1], 10, 64); err == nil && v > latest {
			latest = v
		}
	}
	return latest
}
