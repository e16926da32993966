package database

import (
	"database/sql"
	"fmt"
	"os"

	"gold_billing_backend/internal/config"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// Open establishes the single shared database handle for the process.
// The caller owns the handle and closes it at shutdown.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if cfg.SchemaPath != "" {
		if err := applySchema(db, cfg.SchemaPath); err != nil {
			db.Close()
			return nil, err
		}
	}

	return db, nil
}

// applySchema reads and executes a schema SQL file. Schema evolution normally
// happens through the standalone scripts in migrations/, run manually; this
// hook exists for fresh installs and test databases.
func applySchema(db *sql.DB, schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("could not read schema file %s: %w", schemaPath, err)
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("could not execute schema script %s: %w", schemaPath, err)
	}
	return nil
}
