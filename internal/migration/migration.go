package migration

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bellybutton/internal/errors"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the table the postgres dataset source reads
type MigrationRunner struct {
	version string
	table   string
}

// NewRunner creates a migration runner for the dataset table
func NewRunner(table string) *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
		table:   table,
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if r.table == "" {
		return errors.ConfigInvalid("dataset table name is required")
	}

	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create "+r.table+" table", err)
	}

	if err := r.addTimestampColumns(ctx, db); err != nil {
		return errors.DatabaseError("failed to add timestamp columns", err)
	}

	return nil
}

// The document column is json, not jsonb: jsonb reorders object keys and
// the metadata panel shows fields in document order.
func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+pq.QuoteIdentifier(r.table)+` (
			name TEXT PRIMARY KEY,
			document JSON NOT NULL
		)
	`)
	return err
}

func (r *MigrationRunner) addTimestampColumns(ctx context.Context, db *sqlx.DB) error {
	table := pq.QuoteIdentifier(r.table)
	_, err := db.ExecContext(ctx, `
		ALTER TABLE `+table+` ADD COLUMN IF NOT EXISTS created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW();
		ALTER TABLE `+table+` ADD COLUMN IF NOT EXISTS updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW();
	`)
	return err
}
