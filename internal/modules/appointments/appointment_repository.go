package appointments

import (
	"context"
	"errors"
	"fmt"

	"hugo-automotriz/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the appointment store.
type RepositoryInterface interface {
	Insert(ctx context.Context, app *models.Appointment) (*models.Appointment, error)
	ListForWorkshop(ctx context.Context, workshopID int64) ([]models.AppointmentDetail, error)
	FindWorkshopByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error)
	FindVehicle(ctx context.Context, vehicleID int64) (*models.Vehicle, error)
	FindUser(ctx context.Context, userID int64) (*models.User, error)
	FirstVehicleID(ctx context.Context, userID int64) (int64, error)
	ListDriversWithVehicles(ctx context.Context) ([]models.ClientSummary, error)
	ListCatalog(ctx context.Context, workshopID int64) ([]models.CatalogService, error)
	FindService(ctx context.Context, serviceID int64) (*models.CatalogService, error)
}

// Repository implements RepositoryInterface on PostgreSQL.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new appointment repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// Insert writes one appointment row.
func (r *Repository) Insert(ctx context.Context, app *models.Appointment) (*models.Appointment, error) {
	query := `
		INSERT INTO appointments (user_id, workshop_id, vehicle_id, service_id, date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		app.UserID, app.WorkshopID, app.VehicleID, app.ServiceID, app.Date, app.Status, app.Notes).
		Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("repository.Insert: %w", err)
	}
	return app, nil
}

// ListForWorkshop returns every appointment of a workshop joined with client,
// vehicle and service, newest first. Bucket filtering happens in the service.
func (r *Repository) ListForWorkshop(ctx context.Context, workshopID int64) ([]models.AppointmentDetail, error) {
	query := `
		SELECT a.id, a.user_id, a.workshop_id, a.vehicle_id, a.service_id, a.date, a.status, a.notes, a.created_at, a.updated_at,
		       u.id, u.email, u.role, u.full_name, u.phone,
		       v.id, v.user_id, v.make, v.model, v.year, v.plate,
		       s.id, s.workshop_id, s.name, s.price, s.duration_minutes, s.type
		FROM appointments a
		JOIN users u ON u.id = a.user_id
		JOIN vehicles v ON v.id = a.vehicle_id
		JOIN services s ON s.id = a.service_id
		WHERE a.workshop_id = $1
		ORDER BY a.date DESC`

	rows, err := r.db.Query(ctx, query, workshopID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListForWorkshop: %w", err)
	}
	defer rows.Close()

	var out []models.AppointmentDetail
	for rows.Next() {
		var d models.AppointmentDetail
		var u models.User
		var v models.Vehicle
		var s models.CatalogService
		err := rows.Scan(
			&d.ID, &d.UserID, &d.WorkshopID, &d.VehicleID, &d.ServiceID, &d.Date, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt,
			&u.ID, &u.Email, &u.Role, &u.FullName, &u.Phone,
			&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &v.Plate,
			&s.ID, &s.WorkshopID, &s.Name, &s.Price, &s.DurationMinutes, &s.Type)
		if err != nil {
			return nil, fmt.Errorf("repository.ListForWorkshop: %w", err)
		}
		d.User, d.Vehicle, d.Service = &u, &v, &s
		out = append(out, d)
	}
	return out, rows.Err()
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
			return nil, models.ErrWorkshopNotFound
		}
		return nil, fmt.Errorf("repository.FindWorkshopByOwner: %w", err)
	}
	return &w, nil
}

func (r *Repository) FindVehicle(ctx context.Context, vehicleID int64) (*models.Vehicle, error) {
	query := `SELECT id, user_id, make, model, year, plate, vin, color, created_at, updated_at FROM vehicles WHERE id = $1`
	var v models.Vehicle
	err := r.db.QueryRow(ctx, query, vehicleID).Scan(
		&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &v.Plate, &v.VIN, &v.Color, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindVehicle: %w", err)
	}
	return &v, nil
}

func (r *Repository) FindUser(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT id, email, role, full_name, phone, avatar_url, created_at, updated_at FROM users WHERE id = $1`
	var u models.User
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&u.ID, &u.Email, &u.Role, &u.FullName, &u.Phone, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindUser: %w", err)
	}
	return &u, nil
}

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

// ListDriversWithVehicles returns every driver and their vehicles for the
// workshop's client picker.
func (r *Repository) ListDriversWithVehicles(ctx context.Context) ([]models.ClientSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, email, role, full_name, phone, avatar_url, created_at, updated_at
		FROM users WHERE role = 'driver' ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListDriversWithVehicles: %w", err)
	}
	defer rows.Close()

	var out []models.ClientSummary
	for rows.Next() {
		var c models.ClientSummary
		if err := rows.Scan(&c.ID, &c.Email, &c.Role, &c.FullName, &c.Phone, &c.AvatarURL, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListDriversWithVehicles: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		vrows, err := r.db.Query(ctx, `
			SELECT id, user_id, make, model, year, plate, vin, color, created_at, updated_at
			FROM vehicles WHERE user_id = $1 ORDER BY created_at ASC`, out[i].ID)
		if err != nil {
			return nil, fmt.Errorf("repository.ListDriversWithVehicles: %w", err)
		}
		for vrows.Next() {
			var v models.Vehicle
			if err := vrows.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &v.Plate, &v.VIN, &v.Color, &v.CreatedAt, &v.UpdatedAt); err != nil {
				vrows.Close()
				return nil, fmt.Errorf("repository.ListDriversWithVehicles: %w", err)
			}
			out[i].Vehicles = append(out[i].Vehicles, v)
		}
		vrows.Close()
		if err := vrows.Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) ListCatalog(ctx context.Context, workshopID int64) ([]models.CatalogService, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, workshop_id, name, description, price, duration_minutes, type, created_at, updated_at
		FROM services WHERE workshop_id = $1 ORDER BY created_at ASC`, workshopID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCatalog: %w", err)
	}
	defer rows.Close()

	var out []models.CatalogService
	for rows.Next() {
		var s models.CatalogService
		if err := rows.Scan(&s.ID, &s.WorkshopID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Type, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("repository.ListCatalog: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) FindService(ctx context.Context, serviceID int64) (*models.CatalogService, error) {
	query := `SELECT id, workshop_id, name, description, price, duration_minutes, type, created_at, updated_at FROM services WHERE id = $1`
	var s models.CatalogService
	err := r.db.QueryRow(ctx, query, serviceID).Scan(
		&s.ID, &s.WorkshopID, &s.Name, &s.Description, &s.Price, &s.DurationMinutes, &s.Type, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindService: %w", err)
	}
	return &s, nil
}
