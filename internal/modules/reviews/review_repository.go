package reviews

import (
	"context"
	"errors"
	"fmt"

	"hugo-automotriz/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the review store.
type RepositoryInterface interface {
	FindRequest(ctx context.Context, requestID int64) (*models.AssistanceRequest, error)
	InsertReview(ctx context.Context, review *models.Review) (*models.Review, error)
	FindWorkshopByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error)
	UpdateWorkshopRating(ctx context.Context, workshopID int64, rating float64, reviewCount int) error
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new review repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func (r *Repository) FindRequest(ctx context.Context, requestID int64) (*models.AssistanceRequest, error) {
	query := `
		SELECT id, user_id, provider_id, vehicle_id, type, description, latitude, longitude, status, price, created_at, updated_at
		FROM assistance_requests WHERE id = $1`
	var req models.AssistanceRequest
	err := r.db.QueryRow(ctx, query, requestID).Scan(
		&req.ID, &req.UserID, &req.ProviderID, &req.VehicleID, &req.Type, &req.Description,
		&req.Latitude, &req.Longitude, &req.Status, &req.Price, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindRequest: %w", err)
	}
	return &req, nil
}

func (r *Repository) InsertReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	query := `
		INSERT INTO reviews (user_id, workshop_id, provider_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		review.UserID, review.WorkshopID, review.ProviderID, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.InsertReview: %w", err)
	}
	return review, nil
}

func (r *Repository) FindWorkshopByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error) {
	query := `
		SELECT id, owner_id, name, description, address, latitude, longitude, phone, image_url, rating, review_count, tags, created_at, updated_at
		FROM workshops WHERE owner_id = $1`
	var w models.Workshop
	err := r.db.QueryRow(ctx, query, ownerID).Scan(
		&w.ID, &w.OwnerID, &w.Name, &w.Description, &w.Address, &w.Latitude, &w.Longitude,
		&w.Phone, &w.ImageURL, &w.Rating, &w.ReviewCount, &w.Tags, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindWorkshopByOwner: %w", err)
	}
	return &w, nil
}

func (r *Repository) UpdateWorkshopRating(ctx context.Context, workshopID int64, rating float64, reviewCount int) error {
	query := `
		UPDATE workshops
		SET rating = $1, review_count = $2, updated_at = NOW()
		WHERE id = $3`
	cmdTag, err := r.db.Exec(ctx, query, rating, reviewCount, workshopID)
	if err != nil {
		return fmt.Errorf("repository.UpdateWorkshopRating: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
