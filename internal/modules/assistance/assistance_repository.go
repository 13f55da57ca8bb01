package assistance

import (
	"context"
	"errors"
	"fmt"

	"hugo-automotriz/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the assistance request store.
type RepositoryInterface interface {
	Create(ctx context.Context, req *models.AssistanceRequest) (*models.AssistanceRequest, error)
	FindByID(ctx context.Context, requestID int64) (*models.AssistanceRequest, error)
	FindStatusView(ctx context.Context, requestID int64) (*models.RequestStatusView, error)
	FirstVehicleID(ctx context.Context, userID int64) (int64, error)
	SetAccepted(ctx context.Context, requestID, providerID int64) error
	SetAcceptedIfPending(ctx context.Context, requestID, providerID int64) error
	SetCompleted(ctx context.Context, requestID int64) error
	ListPending(ctx context.Context) ([]*models.AssistanceRequest, error)
	ListByProvider(ctx context.Context, providerID int64) ([]*models.AssistanceRequest, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new assistance repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const requestColumns = `id, user_id, provider_id, vehicle_id, type, description, latitude, longitude, status, price, created_at, updated_at`

// Create inserts a new assistance request row.
func (r *Repository) Create(ctx context.Context, req *models.AssistanceRequest) (*models.AssistanceRequest, error) {
	query := `
		INSERT INTO assistance_requests (user_id, provider_id, vehicle_id, type, description, latitude, longitude, status, price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + requestColumns

	row := r.db.QueryRow(ctx, query,
		req.UserID, req.ProviderID, req.VehicleID, req.Type, req.Description,
		req.Latitude, req.Longitude, req.Status, req.Price)
	created, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("repository.Create: %w", err)
	}
	return created, nil
}

// FindByID retrieves a single request.
func (r *Repository) FindByID(ctx context.Context, requestID int64) (*models.AssistanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM assistance_requests WHERE id = $1`
	req, err := scanRequest(r.db.QueryRow(ctx, query, requestID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return req, nil
}

// FindStatusView retrieves a request together with the assigned provider's
// profile when one exists. This is the read the tracking poll hits.
func (r *Repository) FindStatusView(ctx context.Context, requestID int64) (*models.RequestStatusView, error) {
	req, err := r.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	view := &models.RequestStatusView{AssistanceRequest: *req}
	if req.ProviderID == nil {
		return view, nil
	}

	query := `SELECT id, email, role, full_name, phone, avatar_url, created_at, updated_at FROM users WHERE id = $1`
	var provider models.User
	err = r.db.QueryRow(ctx, query, *req.ProviderID).Scan(
		&provider.ID, &provider.Email, &provider.Role, &provider.FullName,
		&provider.Phone, &provider.AvatarURL, &provider.CreatedAt, &provider.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return view, nil
		}
		return nil, fmt.Errorf("repository.FindStatusView: %w", err)
	}
	view.Provider = &provider
	return view, nil
}

// FirstVehicleID returns the caller's oldest registered vehicle, used as the
// default when a request does not name one.
func (r *Repository) FirstVehicleID(ctx context.Context, userID int64) (int64, error) {
	query := `SELECT id FROM vehicles WHERE user_id = $1 ORDER BY created_at ASC, id ASC LIMIT 1`
	var id int64
	if err := r.db.QueryRow(ctx, query, userID).Scan(&id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, models.ErrNoVehicle
		}
		return 0, fmt.Errorf("repository.FirstVehicleID: %w", err)
	}
	return id, nil
}

// SetAccepted assigns the provider and marks the request accepted. The write
// is unconditional: a second provider accepting the same request overwrites
// the first assignment, last write wins.
func (r *Repository) SetAccepted(ctx context.Context, requestID, providerID int64) error {
	query := `
		UPDATE assistance_requests
		SET status = 'accepted', provider_id = $1, updated_at = NOW()
		WHERE id = $2`
	cmdTag, err := r.db.Exec(ctx, query, providerID, requestID)
	if err != nil {
		return fmt.Errorf("repository.SetAccepted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetAcceptedIfPending is the conditional variant of SetAccepted, keyed on the
// current status so two racing providers cannot both win. Not used by the
// default service wiring; switching to it changes observable behavior.
func (r *Repository) SetAcceptedIfPending(ctx context.Context, requestID, providerID int64) error {
	query := `
		UPDATE assistance_requests
		SET status = 'accepted', provider_id = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'pending'`
	cmdTag, err := r.db.Exec(ctx, query, providerID, requestID)
	if err != nil {
		return fmt.Errorf("repository.SetAcceptedIfPending: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrConflict
	}
	return nil
}

// SetCompleted marks the request completed. No check that the actor is the
// assigned provider, and re-completing a completed request succeeds.
func (r *Repository) SetCompleted(ctx context.Context, requestID int64) error {
	query := `
		UPDATE assistance_requests
		SET status = 'completed', updated_at = NOW()
		WHERE id = $1`
	cmdTag, err := r.db.Exec(ctx, query, requestID)
	if err != nil {
		return fmt.Errorf("repository.SetCompleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListPending returns every unassigned request, newest first. This is the
// ticket inbox shown to workshops.
func (r *Repository) ListPending(ctx context.Context) ([]*models.AssistanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM assistance_requests WHERE status = 'pending' ORDER BY created_at DESC`
	return r.list(ctx, query)
}

// ListByProvider returns the requests a provider has accepted, excluding any
// cancelled ones, newest first.
func (r *Repository) ListByProvider(ctx context.Context, providerID int64) ([]*models.AssistanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM assistance_requests WHERE provider_id = $1 AND status <> 'cancelled' ORDER BY created_at DESC`
	return r.list(ctx, query, providerID)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*models.AssistanceRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.list: %w", err)
	}
	defer rows.Close()

	var out []*models.AssistanceRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.list: %w", err)
		}
		out = append(out, req)
	}
	return out, rows.Err()
}

// scanRequest maps one row onto the model, translating pgx.ErrNoRows into the
// domain's not-found error.
func scanRequest(row pgx.Row) (*models.AssistanceRequest, error) {
	var req models.AssistanceRequest
	err := row.Scan(
		&req.ID,
		&req.UserID,
		&req.ProviderID,
		&req.VehicleID,
		&req.Type,
		&req.Description,
		&req.Latitude,
		&req.Longitude,
		&req.Status,
		&req.Price,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan assistance request: %w", err)
	}
	return &req, nil
}
