package appointments

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/models"
	"hugo-automotriz/pkg/csvreport"
	"hugo-automotriz/pkg/notify"
)

// Calendar buckets for the workshop appointment list.
const (
	BucketUpcoming  = "upcoming"
	BucketPast      = "past"
	BucketCancelled = "cancelled"
)

// ServiceInterface defines the contract for the appointment service.
type ServiceInterface interface {
	CreateBooking(ctx context.Context, userID int64, req models.CreateBookingRequest) (*models.Appointment, error)
	ListForWorkshop(ctx context.Context, ownerID int64, bucket string) ([]models.AppointmentDetail, error)
	CreateManual(ctx context.Context, ownerID int64, req models.CreateManualAppointmentRequest) (*models.Appointment, error)
	Clients(ctx context.Context, ownerID int64) ([]models.ClientSummary, error)
	CatalogServices(ctx context.Context, ownerID int64) ([]models.CatalogService, error)
	ExportCSV(ctx context.Context, ownerID int64) (filename, content string, err error)
}

// Service implements workshop bookings and the appointment report.
type Service struct {
	repo     RepositoryInterface
	notifier notify.ServiceInterface
	views    cache.ViewCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new appointment service.
func NewService(repo RepositoryInterface, notifier notify.ServiceInterface, views cache.ViewCache, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		views:    views,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateBooking books a workshop service for the caller. The caller's first
// vehicle is used; a driver without vehicles is rejected. Date and the "HH:MM"
// time field are combined into the appointment timestamp.
func (s *Service) CreateBooking(ctx context.Context, userID int64, req models.CreateBookingRequest) (*models.Appointment, error) {
	vehicleID, err := s.repo.FirstVehicleID(ctx, userID)
	if err != nil {
		return nil, err
	}

	when, err := combineDateTime(req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("service.CreateBooking: %w", err)
	}

	created, err := s.repo.Insert(ctx, &models.Appointment{
		UserID:     userID,
		WorkshopID: req.WorkshopID,
		VehicleID:  vehicleID,
		ServiceID:  req.ServiceID,
		Date:       when,
		Status:     models.AppointmentPending,
	})
	if err != nil {
		return nil, fmt.Errorf("service.CreateBooking: %w", err)
	}

	s.views.Invalidate(ctx, userID, "dashboard/driver/history", "dashboard/workshops")
	return created, nil
}

// ListForWorkshop returns the owner's calendar for one bucket. Upcoming and
// past are split on the current time and both exclude cancelled rows; the
// cancelled bucket returns only those.
func (s *Service) ListForWorkshop(ctx context.Context, ownerID int64, bucket string) ([]models.AppointmentDetail, error) {
	workshop, err := s.repo.FindWorkshopByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.ListForWorkshop: %w", err)
	}

	all, err := s.repo.ListForWorkshop(ctx, workshop.ID)
	if err != nil {
		return nil, fmt.Errorf("service.ListForWorkshop: %w", err)
	}

	now := s.now()
	out := make([]models.AppointmentDetail, 0, len(all))
	for _, app := range all {
		switch bucket {
		case BucketCancelled:
			if app.Status == models.AppointmentCancelled {
				out = append(out, app)
			}
		case BucketPast:
			if app.Status != models.AppointmentCancelled && app.Date.Before(now) {
				out = append(out, app)
			}
		default: // upcoming
			if app.Status != models.AppointmentCancelled && !app.Date.Before(now) {
				out = append(out, app)
			}
		}
	}
	return out, nil
}

// CreateManual registers a confirmed appointment straight from the workshop
// calendar. The client is the vehicle's owner. The confirmation email is best
// effort: a notification failure is logged, never surfaced.
func (s *Service) CreateManual(ctx context.Context, ownerID int64, req models.CreateManualAppointmentRequest) (*models.Appointment, error) {
	workshop, err := s.repo.FindWorkshopByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.CreateManual: %w", err)
	}

	vehicle, err := s.repo.FindVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("service.CreateManual: %w", err)
	}

	app := &models.Appointment{
		UserID:     vehicle.UserID,
		WorkshopID: workshop.ID,
		VehicleID:  req.VehicleID,
		ServiceID:  req.ServiceID,
		Date:       req.Date,
		Status:     models.AppointmentConfirmed,
	}
	if req.Notes != "" {
		app.Notes = &req.Notes
	}

	created, err := s.repo.Insert(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("service.CreateManual: %w", err)
	}

	s.notifyConfirmed(ctx, created)
	s.views.Invalidate(ctx, ownerID, "dashboard/workshop/calendar")
	return created, nil
}

func (s *Service) notifyConfirmed(ctx context.Context, app *models.Appointment) {
	client, err := s.repo.FindUser(ctx, app.UserID)
	if err != nil {
		s.logger.Warn("confirmation email skipped", "appointment_id", app.ID, "error", err)
		return
	}
	service, err := s.repo.FindService(ctx, app.ServiceID)
	if err != nil {
		s.logger.Warn("confirmation email skipped", "appointment_id", app.ID, "error", err)
		return
	}

	name := ""
	if client.FullName != nil {
		name = *client.FullName
	}
	if err := s.notifier.AppointmentConfirmed(ctx, client.Email, name, service.Name, app.Date); err != nil {
		s.logger.Warn("confirmation email failed", "appointment_id", app.ID, "error", err)
	}
}

// Clients returns every driver with their vehicles.
func (s *Service) Clients(ctx context.Context, ownerID int64) ([]models.ClientSummary, error) {
	if _, err := s.repo.FindWorkshopByOwner(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("service.Clients: %w", err)
	}
	return s.repo.ListDriversWithVehicles(ctx)
}

// CatalogServices returns the owner's service catalog.
func (s *Service) CatalogServices(ctx context.Context, ownerID int64) ([]models.CatalogService, error) {
	workshop, err := s.repo.FindWorkshopByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogServices: %w", err)
	}
	return s.repo.ListCatalog(ctx, workshop.ID)
}

// ExportCSV renders the full appointment report for download.
func (s *Service) ExportCSV(ctx context.Context, ownerID int64) (string, string, error) {
	workshop, err := s.repo.FindWorkshopByOwner(ctx, ownerID)
	if err != nil {
		return "", "", fmt.Errorf("service.ExportCSV: %w", err)
	}
	apps, err := s.repo.ListForWorkshop(ctx, workshop.ID)
	if err != nil {
		return "", "", fmt.Errorf("service.ExportCSV: %w", err)
	}
	return csvreport.Filename(s.now()), csvreport.Build(apps), nil
}

// combineDateTime merges the booking date with its "HH:MM" time-of-day field,
// keeping the date's location.
func combineDateTime(date time.Time, clock string) (time.Time, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("invalid time %q", clock)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}
