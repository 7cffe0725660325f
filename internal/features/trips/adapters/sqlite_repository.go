package adapters

import (
	"context"
	"database/sql"
	"fmt"

	"arrival-alert/internal/features/trips/domain"

	_ "modernc.org/sqlite"
)

// SQLiteTripRepository keeps the trip log in a local sqlite file, for
// deployments without redis-backed history. The cap is enforced on insert by
// deleting the oldest rows.
type SQLiteTripRepository struct {
	db  *sql.DB
	max int
}

// NewSQLiteTripRepository opens (or creates) the trip database at path,
// capped at max records.
func NewSQLiteTripRepository(path string, max int) (*SQLiteTripRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trip database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS trips (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			destination TEXT NOT NULL,
			distance_km DOUBLE NOT NULL,
			duration_minutes INTEGER NOT NULL,
			started_at TIMESTAMP NOT NULL,
			completed_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create trips table: %w", err)
	}

	return &SQLiteTripRepository{db: db, max: max}, nil
}

// Append inserts the record and evicts rows beyond the cap, oldest first.
func (r *SQLiteTripRepository) Append(ctx context.Context, record domain.TripRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin trip transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO trips (destination, distance_km, duration_minutes, started_at, completed_at) VALUES (?, ?, ?, ?, ?)",
		record.Destination, record.DistanceKm, record.DurationMinutes, record.StartedAt, record.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"DELETE FROM trips WHERE id NOT IN (SELECT id FROM trips ORDER BY id DESC LIMIT ?)",
		r.max,
	)
	if err != nil {
		return fmt.Errorf("failed to trim trip log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit trip: %w", err)
	}

	return nil
}

// List returns the log, most recent first.
func (r *SQLiteTripRepository) List(ctx context.Context) ([]domain.TripRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT destination, distance_km, duration_minutes, started_at, completed_at FROM trips ORDER BY id DESC LIMIT ?",
		r.max,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read trip log: %w", err)
	}
	defer rows.Close()

	var records []domain.TripRecord
	for rows.Next() {
		var record domain.TripRecord
		if err := rows.Scan(&record.Destination, &record.DistanceKm, &record.DurationMinutes, &record.StartedAt, &record.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan trip: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trip log: %w", err)
	}

	return records, nil
}

// Close closes the database.
func (r *SQLiteTripRepository) Close() error {
	return r.db.Close()
}
