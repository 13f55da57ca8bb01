package drivers

import (
	"context"
	"errors"
	"fmt"

	"hugo-automotriz/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for driver profiles and vehicles.
type RepositoryInterface interface {
	FindByExternalID(ctx context.Context, externalID string) (*models.User, error)
	FindByID(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, phone string) (*models.User, error)
	InsertVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error)
	DeleteVehicle(ctx context.Context, vehicleID, userID int64) error
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new driver repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const userColumns = `id, external_id, email, role, full_name, phone, avatar_url, created_at, updated_at`

// FindByExternalID resolves the identity provider's subject to a local user.
// The auth middleware calls this on every authenticated request.
func (r *Repository) FindByExternalID(ctx context.Context, externalID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE external_id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, externalID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByExternalID: %w", err)
	}
	return user, nil
}

// FindByID retrieves a user account.
func (r *Repository) FindByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, fmt.Errorf("repository.FindByID: %w", err)
	}
	return user, nil
}

// UpdateProfile writes the caller's name and phone and returns the updated row.
func (r *Repository) UpdateProfile(ctx context.Context, userID int64, fullName, phone string) (*models.User, error) {
	query := `
		UPDATE users
		SET full_name = $2, phone = NULLIF($3, ''), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRow(ctx, query, userID, fullName, phone))
	if err != nil {
		return nil, fmt.Errorf("repository.UpdateProfile: %w", err)
	}
	return user, nil
}

// InsertVehicle registers a vehicle for a driver.
func (r *Repository) InsertVehicle(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	query := `
		INSERT INTO vehicles (user_id, make, model, year, plate, color)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, user_id, make, model, year, plate, vin, color, created_at, updated_at`

	color := ""
	if vehicle.Color != nil {
		color = *vehicle.Color
	}
	created, err := scanVehicle(r.db.QueryRow(ctx, query,
		vehicle.UserID, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.Plate, color))
	if err != nil {
		return nil, fmt.Errorf("repository.InsertVehicle: %w", err)
	}
	return created, nil
}

// ListVehicles returns the driver's vehicles, oldest first.
func (r *Repository) ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	query := `
		SELECT id, user_id, make, model, year, plate, vin, color, created_at, updated_at
		FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListVehicles: %w", err)
	}
	defer rows.Close()

	vehicles := []models.Vehicle{}
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("repository.ListVehicles: %w", err)
		}
		vehicles = append(vehicles, *v)
	}
	return vehicles, rows.Err()
}

// DeleteVehicle removes a vehicle. The user_id guard means a driver can only
// delete their own rows; anything else reads as not found.
func (r *Repository) DeleteVehicle(ctx context.Context, vehicleID, userID int64) error {
	query := `DELETE FROM vehicles WHERE id = $1 AND user_id = $2`
	tag, err := r.db.Exec(ctx, query, vehicleID, userID)
	if err != nil {
		return fmt.Errorf("repository.DeleteVehicle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.Role, &u.FullName, &u.Phone,
		&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &v.Plate,
		&v.VIN, &v.Color, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}
