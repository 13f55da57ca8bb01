package workshops

import (
	"context"
	"fmt"
	"sort"

	"hugo-automotriz/internal/models"
)

// ClassifierInterface is the AI step that turns a raw workshop description
// into category tags plus a polished description. The ai module implements it;
// the implementation must degrade to a local fallback rather than fail.
type ClassifierInterface interface {
	Classify(ctx context.Context, rawDescription string) (*models.WorkshopClassification, error)
}

// ServiceInterface defines the contract for the workshop service.
type ServiceInterface interface {
	List(ctx context.Context, filter string) ([]*models.WorkshopDetail, error)
	Get(ctx context.Context, workshopID int64) (*models.WorkshopDetail, error)
	Stats(ctx context.Context, ownerID int64) (*models.WorkshopStats, error)
	UpdateSettings(ctx context.Context, ownerID int64, req models.UpdateWorkshopRequest) error
}

// monthlyWeights splits the revenue total into the dashboard's six chart
// buckets. The split is decorative, not a time-series query; the weights sum
// to 1 so the buckets always add back up to the total.
var monthlyWeights = []struct {
	name   string
	weight float64
}{
	{"Ene", 0.10},
	{"Feb", 0.15},
	{"Mar", 0.10},
	{"Abr", 0.20},
	{"May", 0.25},
	{"Jun", 0.20},
}

// Service implements the workshop browse, stats and settings operations.
type Service struct {
	repo       RepositoryInterface
	classifier ClassifierInterface
}

// NewService creates a new workshop service.
func NewService(repo RepositoryInterface, classifier ClassifierInterface) *Service {
	return &Service{repo: repo, classifier: classifier}
}

// List returns all workshops; filter "rating" sorts by rating, best first.
func (s *Service) List(ctx context.Context, filter string) ([]*models.WorkshopDetail, error) {
	workshops, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.List: %w", err)
	}
	if filter == "rating" {
		sort.SliceStable(workshops, func(i, j int) bool {
			return workshops[i].Rating > workshops[j].Rating
		})
	}
	return workshops, nil
}

// Get returns one workshop's public detail page data.
func (s *Service) Get(ctx context.Context, workshopID int64) (*models.WorkshopDetail, error) {
	detail, err := s.repo.FindDetail(ctx, workshopID)
	if err != nil {
		return nil, fmt.Errorf("service.Get: %w", err)
	}
	return detail, nil
}

// Stats computes the owner dashboard summary: total revenue over completed
// assistance jobs plus the fixed-weight monthly chart.
func (s *Service) Stats(ctx context.Context, ownerID int64) (*models.WorkshopStats, error) {
	workshop, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.Stats: %w", err)
	}

	revenue, jobs, err := s.repo.CompletedRevenue(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("service.Stats: %w", err)
	}

	return &models.WorkshopStats{
		Revenue:        revenue,
		Appointments:   jobs,
		Rating:         workshop.Rating,
		MonthlyRevenue: MonthlyBuckets(revenue),
	}, nil
}

// MonthlyBuckets applies the fixed percentage weights to a revenue total.
func MonthlyBuckets(revenue float64) []models.MonthlyRevenue {
	out := make([]models.MonthlyRevenue, len(monthlyWeights))
	for i, m := range monthlyWeights {
		out[i] = models.MonthlyRevenue{Name: m.name, Total: revenue * m.weight}
	}
	return out
}

// UpdateSettings writes the owner's settings form. A non-empty description is
// classified first; the stored description and tags come from the classifier
// (which itself falls back to the raw text when the model is unavailable).
func (s *Service) UpdateSettings(ctx context.Context, ownerID int64, req models.UpdateWorkshopRequest) error {
	workshop, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("service.UpdateSettings: %w", err)
	}

	description := req.Description
	var tags []string
	if description != "" {
		classification, err := s.classifier.Classify(ctx, description)
		if err != nil {
			return fmt.Errorf("service.UpdateSettings: %w", err)
		}
		description = classification.ImprovedDescription
		tags = classification.Tags
	}

	if err := s.repo.UpdateSettings(ctx, workshop.ID, req, description, tags); err != nil {
		return fmt.Errorf("service.UpdateSettings: %w", err)
	}
	return nil
}
