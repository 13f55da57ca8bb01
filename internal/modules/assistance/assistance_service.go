package assistance

import (
	"context"
	"fmt"

	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/models"
	"hugo-automotriz/internal/observability"
)

// BasePrice is the placeholder charged for every request. Pricing by distance,
// service type or demand never made it past this constant.
const BasePrice = "150.00"

// DefaultDescription is used when the driver submits no free text.
const DefaultDescription = "Solicitud de asistencia"

// Cached dashboard views invalidated by lifecycle mutations.
const (
	ViewDriverRequest   = "dashboard/request"
	ViewWorkshopTickets = "dashboard/workshop/tickets"
)

// ServiceInterface defines the contract for the request lifecycle manager.
type ServiceInterface interface {
	Create(ctx context.Context, userID int64, req models.CreateAssistanceRequest) (*models.AssistanceRequest, error)
	Accept(ctx context.Context, providerID, requestID int64) error
	Complete(ctx context.Context, actorID, requestID int64) error
	Status(ctx context.Context, requestID int64) (*models.RequestStatusView, error)
	ListIncoming(ctx context.Context) ([]*models.AssistanceRequest, error)
	ListMine(ctx context.Context, providerID int64) ([]*models.AssistanceRequest, error)
}

// Service implements the assistance request lifecycle.
type Service struct {
	repo  RepositoryInterface
	views cache.ViewCache
}

// NewService creates a new assistance service.
func NewService(repo RepositoryInterface, views cache.ViewCache) *Service {
	return &Service{repo: repo, views: views}
}

// Create opens a new request for the caller. When no vehicle is named, the
// caller's first registered vehicle is used; a caller with no vehicles at all
// is rejected before anything is written.
func (s *Service) Create(ctx context.Context, userID int64, req models.CreateAssistanceRequest) (*models.AssistanceRequest, error) {
	vehicleID := req.VehicleID
	if vehicleID == nil {
		id, err := s.repo.FirstVehicleID(ctx, userID)
		if err != nil {
			return nil, err
		}
		vehicleID = &id
	}

	description := req.Description
	if description == "" {
		description = DefaultDescription
	}

	created, err := s.repo.Create(ctx, &models.AssistanceRequest{
		UserID:      userID,
		VehicleID:   vehicleID,
		Type:        models.ServiceType(req.ServiceType),
		Description: description,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      models.StatusPending,
		Price:       BasePrice,
	})
	if err != nil {
		return nil, fmt.Errorf("service.Create: %w", err)
	}

	observability.RequestsCreated.Inc()
	s.views.Invalidate(ctx, userID, ViewDriverRequest)
	return created, nil
}

// Accept assigns the acting provider to the request. The write is
// unconditional; if two providers race, the later call overwrites the earlier
// assignment and both believe they own the job. SetAcceptedIfPending exists on
// the repository for callers that want the guarded variant.
func (s *Service) Accept(ctx context.Context, providerID, requestID int64) error {
	if err := s.repo.SetAccepted(ctx, requestID, providerID); err != nil {
		return fmt.Errorf("service.Accept: %w", err)
	}
	observability.RequestsAccepted.Inc()
	s.views.Invalidate(ctx, providerID, ViewWorkshopTickets)
	return nil
}

// Complete marks the request completed. The actor is required to be
// authenticated but is not checked against the assigned provider, and a
// completed request can be completed again; both writes land the same value.
func (s *Service) Complete(ctx context.Context, actorID, requestID int64) error {
	if err := s.repo.SetCompleted(ctx, requestID); err != nil {
		return fmt.Errorf("service.Complete: %w", err)
	}
	observability.RequestsCompleted.Inc()
	s.views.Invalidate(ctx, actorID, ViewWorkshopTickets)
	return nil
}

// Status returns the request with its provider profile for the tracking poll.
func (s *Service) Status(ctx context.Context, requestID int64) (*models.RequestStatusView, error) {
	view, err := s.repo.FindStatusView(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("service.Status: %w", err)
	}
	return view, nil
}

// ListIncoming returns the pending ticket inbox.
func (s *Service) ListIncoming(ctx context.Context) ([]*models.AssistanceRequest, error) {
	return s.repo.ListPending(ctx)
}

// ListMine returns the requests the provider has accepted.
func (s *Service) ListMine(ctx context.Context, providerID int64) ([]*models.AssistanceRequest, error) {
	return s.repo.ListByProvider(ctx, providerID)
}
