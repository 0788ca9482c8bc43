package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"bellybutton/domain/dataset"
	"bellybutton/internal/errors"
)

// Source reads the dataset document stored as JSON in a postgres table
// created by the migration package, one document per row keyed by name.
type Source struct {
	db    *sqlx.DB
	table string
	name  string
}

// Connect opens and pings the database at url
func Connect(ctx context.Context, url string) (*sqlx.DB, error) {
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.DatabaseError("failed to ping database", err)
	}
	return db, nil
}

// NewSource creates a source reading the document called name from table
func NewSource(db *sqlx.DB, table, name string) *Source {
	return &Source{db: db, table: table, name: name}
}

// Fetch loads and decodes the stored document
func (s *Source) Fetch(ctx context.Context) (*dataset.Dataset, error) {
	query := `SELECT document FROM ` + pq.QuoteIdentifier(s.table) + ` WHERE name = $1`

	var document []byte
	if err := s.db.GetContext(ctx, &document, query, s.name); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound(fmt.Sprintf("dataset %q in table %s", s.name, s.table))
		}
		return nil, errors.DatabaseError("failed to query dataset", err)
	}

	ds, err := dataset.Decode(document)
	if err != nil {
		return nil, errors.InvalidInput(fmt.Sprintf("failed to decode dataset %q", s.name), err)
	}

	log.Printf("[PostgresSource] Loaded dataset %q (%d subjects)", s.name, len(ds.Names))
	return ds, nil
}

// Store validates document and inserts or replaces it under the source's name
func (s *Source) Store(ctx context.Context, document []byte) error {
	ds, err := dataset.Decode(document)
	if err != nil {
		return errors.InvalidInput("refusing to store an undecodable dataset", err)
	}

	query := `INSERT INTO ` + pq.QuoteIdentifier(s.table) + ` (name, document) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()`
	if _, err := s.db.ExecContext(ctx, query, s.name, string(document)); err != nil {
		return errors.DatabaseError("failed to store dataset", err)
	}

	log.Printf("[PostgresSource] Stored dataset %q (%d subjects)", s.name, len(ds.Names))
	return nil
}

// Describe names the table and document
func (s *Source) Describe() string {
	return fmt.Sprintf("postgres:%s/%s", s.table, s.name)
}
