package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryEntry is one past appointment, flattened for the maintenance prompt.
type HistoryEntry struct {
	Date        time.Time
	ServiceName string
	Make        string
	Model       string
}

// RepositoryInterface defines the reads the assistant needs.
type RepositoryInterface interface {
	ListRecentHistory(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new ai repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// ListRecentHistory returns the caller's most recent appointments joined with
// the booked service and vehicle, newest first.
func (r *Repository) ListRecentHistory(ctx context.Context, userID int64, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT a.date, s.name, v.make, v.model
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		JOIN vehicles v ON v.id = a.vehicle_id
		WHERE a.user_id = $1
		ORDER BY a.date DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRecentHistory: %w", err)
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.Date, &e.ServiceName, &e.Make, &e.Model); err != nil {
			return nil, fmt.Errorf("repository.ListRecentHistory: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
