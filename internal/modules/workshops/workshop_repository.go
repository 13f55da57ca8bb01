package workshops

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hugo-automotriz/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the workshop store.
type RepositoryInterface interface {
	ListAll(ctx context.Context) ([]*models.WorkshopDetail, error)
	FindDetail(ctx context.Context, workshopID int64) (*models.WorkshopDetail, error)
	FindByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error)
	CompletedRevenue(ctx context.Context, providerID int64) (total float64, jobs int, err error)
	UpdateSettings(ctx context.Context, workshopID int64, req models.UpdateWorkshopRequest, description string, tags []string) error
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new workshop repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const workshopColumns = `id, owner_id, name, description, address, latitude, longitude, phone, image_url, rating, review_count, tags, created_at, updated_at`

func scanWorkshop(row pgx.Row) (*models.Workshop, error) {
	var w models.Workshop
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Name, &w.Description, &w.Address, &w.Latitude, &w.Longitude,
		&w.Phone, &w.ImageURL, &w.Rating, &w.ReviewCount, &w.Tags, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan workshop: %w", err)
	}
	return &w, nil
}

// ListAll returns every workshop with its catalog and reviews.
func (r *Repository) ListAll(ctx context.Context) ([]*models.WorkshopDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT `+workshopColumns+` FROM workshops ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAll: %w", err)
	}
	defer rows.Close()

	var out []*models.WorkshopDetail
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListAll: %w", err)
		}
		out = append(out, &models.WorkshopDetail{Workshop: *w})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository.ListAll: %w", err)
	}

	for _, detail := range out {
		if detail.Services, err = r.listServices(ctx, detail.ID); err != nil {
			return nil, err
		}
		if detail.Reviews, err = r.listReviews(ctx, detail.ID, 0); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// FindDetail returns one workshop with catalog, the five most recent reviews
// (with reviewer profile) and the owner.
func (r *Repository) FindDetail(ctx context.Context, workshopID int64) (*models.WorkshopDetail, error) {
	w, err := scanWorkshop(r.db.QueryRow(ctx, `SELECT `+workshopColumns+` FROM workshops WHERE id = $1`, workshopID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindDetail: %w", err)
	}

	detail := &models.WorkshopDetail{Workshop: *w}
	if detail.Services, err = r.listServices(ctx, workshopID); err != nil {
		return nil, err
	}
	if detail.Reviews, err = r.listReviews(ctx, workshopID, 5); err != nil {
		return nil, err
	}

	var owner models.User
	err = r.db.QueryRow(ctx,
		`SELECT id, email, role, full_name, phone, avatar_url, created_at, updated_at FROM users WHERE id = $1`,
		w.OwnerID).Scan(&owner.ID, &owner.Email, &owner.Role, &owner.FullName, &owner.Phone, &owner.AvatarURL, &owner.CreatedAt, &owner.UpdatedAt)
	if err == nil {
		detail.Owner = &owner
	}
	return detail, nil
}

// FindByOwner returns the workshop a user owns.
func (r *Repository) FindByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error) {
	w, err := scanWorkshop(r.db.QueryRow(ctx, `SELECT `+workshopColumns+` FROM workshops WHERE owner_id = $1`, ownerID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("repository.FindByOwner: %w", err)
	}
	return w, nil
}

// CompletedRevenue sums the price over the provider's completed requests.
// Prices are decimal text in the store, so the sum happens here in one pass.
func (r *Repository) CompletedRevenue(ctx context.Context, providerID int64) (float64, int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT price FROM assistance_requests WHERE provider_id = $1 AND status = 'completed'`,
		providerID)
	if err != nil {
		return 0, 0, fmt.Errorf("repository.CompletedRevenue: %w", err)
	}
	defer rows.Close()

	var total float64
	var jobs int
	for rows.Next() {
		var price string
		if err := rows.Scan(&price); err != nil {
			return 0, 0, fmt.Errorf("repository.CompletedRevenue: %w", err)
		}
		if v, err := strconv.ParseFloat(price, 64); err == nil {
			total += v
		}
		jobs++
	}
	return total, jobs, rows.Err()
}

// UpdateSettings writes the owner-editable fields plus the classified
// description and tags.
func (r *Repository) UpdateSettings(ctx context.Context, workshopID int64, req models.UpdateWorkshopRequest, description string, tags []string) error {
	query := `
		UPDATE workshops
		SET name = $1, address = $2, phone = NULLIF($3, ''), description = $4, tags = $5, updated_at = NOW()
		WHERE id = $6`
	cmdTag, err := r.db.Exec(ctx, query, req.Name, req.Address, req.Phone, description, tags, workshopID)
	if err != nil {
		return fmt.Errorf("repository.UpdateSettings: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *Repository) listServices(ctx context.Context, workshopID int64) ([]models.CatalogService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, workshop_id, name, description, price, duration_minutes, type, created_at, updated_at
		FROM services WHERE workshop_id = $1 ORDER BY created_at ASC`, workshopID)
	if err != nil {
		return nil, fmt.Errorf("repository.listServices: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogService
	for rows.Next() {
		var s models.CatalogService
		if err := rows.Scan(&s.ID, &s.WorkshopID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Type, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.listServices: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) listReviews(ctx context.Context, workshopID int64, limit int) ([]models.Review, error) {
	query := `
		SELECT r.id, r.user_id, r.workshop_id, r.provider_id, r.rating, r.comment, r.created_at,
		       u.id, u.email, u.role, u.full_name, u.avatar_url
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.workshop_id = $1
		ORDER BY r.created_at DESC`
	args := []any{workshopID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.listReviews: %w", err)
	}
	defer rows.Close()

	var out []models.Review
	for rows.Next() {
		var rv models.Review
		var u models.User
		if err := rows.Scan(&rv.ID, &rv.UserID, &rv.WorkshopID, &rv.ProviderID, &rv.Rating, &rv.Comment, &rv.CreatedAt,
			&u.ID, &u.Email, &u.Role, &u.FullName, &u.AvatarURL); err != nil {
			return nil, fmt.Errorf("repository.listReviews: %w", err)
		}
		rv.User = &u
		out = append(out, rv)
	}
	return out, rows.Err()
}
