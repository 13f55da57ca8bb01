package drivers

import (
	"context"
	"fmt"

	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/models"
)

// ServiceInterface defines the contract for driver account operations.
type ServiceInterface interface {
	Profile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error)
	AddVehicle(ctx context.Context, userID int64, req models.CreateVehicleRequest) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error)
	DeleteVehicle(ctx context.Context, userID, vehicleID int64) error
}

// Service implements driver profile and vehicle management.
type Service struct {
	repo  RepositoryInterface
	views cache.ViewCache
}

// NewService creates a new driver service.
func NewService(repo RepositoryInterface, views cache.ViewCache) *Service {
	return &Service{repo: repo, views: views}
}

// Profile returns the caller's account.
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.Profile: %w", err)
	}
	return user, nil
}

// UpdateProfile changes the caller's name and phone.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Phone)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateProfile: %w", err)
	}
	s.views.Invalidate(ctx, userID, "dashboard/profile")
	return user, nil
}

// AddVehicle registers a vehicle under the caller's account.
func (s *Service) AddVehicle(ctx context.Context, userID int64, req models.CreateVehicleRequest) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{
		UserID: userID,
		Make:   req.Make,
		Model:  req.Model,
		Year:   req.Year,
		Plate:  req.Plate,
	}
	if req.Color != "" {
		vehicle.Color = &req.Color
	}

	created, err := s.repo.InsertVehicle(ctx, vehicle)
	if err != nil {
		return nil, fmt.Errorf("service.AddVehicle: %w", err)
	}
	s.views.Invalidate(ctx, userID, "dashboard/vehicles")
	return created, nil
}

// ListVehicles returns the caller's vehicles.
func (s *Service) ListVehicles(ctx context.Context, userID int64) ([]models.Vehicle, error) {
	return s.repo.ListVehicles(ctx, userID)
}

// DeleteVehicle removes one of the caller's vehicles. Deleting someone else's
// vehicle, or one that does not exist, returns ErrNotFound.
func (s *Service) DeleteVehicle(ctx context.Context, userID, vehicleID int64) error {
	if err := s.repo.DeleteVehicle(ctx, vehicleID, userID); err != nil {
		return fmt.Errorf("service.DeleteVehicle: %w", err)
	}
	s.views.Invalidate(ctx, userID, "dashboard/vehicles")
	return nil
}
