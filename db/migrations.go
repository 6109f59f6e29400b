package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "enable_pgvector",
		Up:      `CREATE EXTENSION IF NOT EXISTS vector;`,
		Down:    `DROP EXTENSION IF EXISTS vector;`,
	},
	{
		Version: 2,
		Name:    "create_pages_table",
		Up: `
			CREATE TABLE IF NOT EXISTS pages (
				id TEXT PRIMARY KEY,
				url TEXT NOT NULL UNIQUE,
				title TEXT NOT NULL DEFAULT '',
				h1 TEXT NOT NULL DEFAULT '',
				h2_tags TEXT[] NOT NULL DEFAULT '{}',
				h3_tags TEXT[] NOT NULL DEFAULT '{}',
				meta_description TEXT NOT NULL DEFAULT '',
				keywords TEXT[] NOT NULL DEFAULT '{}',
				word_count INTEGER NOT NULL DEFAULT 0,
				content_snippet TEXT NOT NULL DEFAULT '',
				embedding vector(1536),
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_pages_url ON pages(url);
			CREATE INDEX IF NOT EXISTS idx_pages_needs_embedding ON pages(id) WHERE embedding IS NULL;
		`,
		Down: `
			DROP INDEX IF EXISTS idx_pages_needs_embedding;
			DROP INDEX IF EXISTS idx_pages_url;
			DROP TABLE IF EXISTS pages;
		`,
	},
	{
		Version: 3,
		Name:    "create_crawl_sessions_table",
		Up: `
			CREATE TABLE IF NOT EXISTS crawl_sessions (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				base_url TEXT NOT NULL,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
		`,
		Down: `DROP TABLE IF EXISTS crawl_sessions;`,
	},
	{
		Version: 4,
		Name:    "create_crawl_jobs_table",
		Up: `
			CREATE TABLE IF NOT EXISTS crawl_jobs (
				id TEXT PRIMARY KEY,
				session_id TEXT REFERENCES crawl_sessions(id) ON DELETE SET NULL,
				base_url TEXT NOT NULL,
				max_pages INTEGER NOT NULL,
				exclude_patterns TEXT[] NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'pending',
				pages_crawled INTEGER NOT NULL DEFAULT 0,
				pages_total INTEGER NOT NULL DEFAULT 0,
				error_message TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ DEFAULT NOW(),
				updated_at TIMESTAMPTZ DEFAULT NOW(),
				completed_at TIMESTAMPTZ
			);
			CREATE INDEX IF NOT EXISTS idx_crawl_jobs_status ON crawl_jobs(status);
			CREATE INDEX IF NOT EXISTS idx_crawl_jobs_session ON crawl_jobs(session_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_crawl_jobs_session;
			DROP INDEX IF EXISTS idx_crawl_jobs_status;
			DROP TABLE IF EXISTS crawl_jobs;
		`,
	},
	{
		Version: 5,
		Name:    "create_raw_pages_table",
		Up: `
			CREATE TABLE IF NOT EXISTS raw_pages (
				id TEXT PRIMARY KEY,
				job_id TEXT NOT NULL REFERENCES crawl_jobs(id) ON DELETE CASCADE,
				url TEXT NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				meta_description TEXT NOT NULL DEFAULT '',
				excluded BOOLEAN NOT NULL DEFAULT FALSE,
				exclude_reason TEXT NOT NULL DEFAULT '',
				promoted BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ DEFAULT NOW()
			);
			CREATE INDEX IF NOT EXISTS idx_raw_pages_job ON raw_pages(job_id);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_raw_pages_job;
			DROP TABLE IF EXISTS raw_pages;
		`,
	},
	{
		Version: 6,
		Name:    "add_pages_embedding_index",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_pages_embedding ON pages
				USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
		`,
		Down: `DROP INDEX IF EXISTS idx_pages_embedding;`,
	},
}

// Migrate runs all pending migrations
func Migrate(db *sql.DB) error {
	if err := ensureMigrationsTable(db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	slog.Default().Info("current schema version", "version", currentVersion)

	sorted := make([]Migration, len(migrations))
	copy(sorted, migrations)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	for _, m := range sorted {
		if m.Version <= currentVersion {
			continue
		}
		if err := runMigration(db, m); err != nil {
			return fmt.Errorf("failed to run migration %d (%s): %w", m.Version, m.Name, err)
		}
	}

	slog.Default().Info("all migrations complete")
	return nil
}

func ensureMigrationsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS linkodo_schema_version (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		);
	`)
	return err
}

func getCurrentVersion(db *sql.DB) (int, error) {
	var version int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM linkodo_schema_version").Scan(&version)
	if err != nil {
		return 0, err
	}
	return version, nil
}

func runMigration(db *sql.DB, m Migration) error {
	slog.Default().Info("applying migration", "version", m.Version, "name", m.Name)

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.Up); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO linkodo_schema_version (version, name) VALUES ($1, $2)",
		m.Version, m.Name,
	); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	return tx.Commit()
}

// Rollback rolls back the most recent migration
func Rollback(db *sql.DB) error {
	currentVersion, err := getCurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if currentVersion == 0 {
		return fmt.Errorf("no migrations to rollback")
	}

	var target *Migration
	for i := range migrations {
		if migrations[i].Version == currentVersion {
			target = &migrations[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %d not found", currentVersion)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(target.Down); err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM linkodo_schema_version WHERE version = $1", currentVersion); err != nil {
		return fmt.Errorf("failed to remove migration record: %w", err)
	}

	return tx.Commit()
}
