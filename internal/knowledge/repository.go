package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"
)

// Repository reads catalog entries from storage.
type Repository interface {
	List(ctx context.Context) ([]Entry, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) List(ctx context.Context) ([]Entry, error) {
	query := `SELECT name, overview, causes, symptoms, precautions, doctor_advice, recommendation, weight
		FROM conditions ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query conditions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var causesJSON, symptomsJSON, precautionsJSON []byte
		err := rows.Scan(
			&e.Name,
			&e.Overview,
			&causesJSON,
			&symptomsJSON,
			&precautionsJSON,
			&e.DoctorAdvice,
			&e.Recommendation,
			&e.Weight,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(causesJSON, &e.Causes); err != nil {
			return nil, fmt.Errorf("failed to unmarshal causes of %q: %w", e.Name, err)
		}
		if err := json.Unmarshal(symptomsJSON, &e.Symptoms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symptoms of %q: %w", e.Name, err)
		}
		if err := json.Unmarshal(precautionsJSON, &e.Precautions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal precautions of %q: %w", e.Name, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Migrate applies the migrations at sourceURL (e.g. "file://migrations") to the database at dsn.
func Migrate(sourceURL, dsn string) error {
	m, err := migrate.New(sourceURL, dsn)
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// LoadPostgres migrates the database, reads the catalog and validates it.
func LoadPostgres(ctx context.Context, dsn, migrationsURL string) (*Base, error) {
	if err := Migrate(migrationsURL, dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("could not connect to DB: %w", err)
	}

	entries, err := NewRepository(db).List(ctx)
	if err != nil {
		return nil, err
	}
	return FromEntries(entries)
}
