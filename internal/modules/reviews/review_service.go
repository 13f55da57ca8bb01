package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"

	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/models"
	"hugo-automotriz/internal/observability"
)

// ServiceInterface defines the contract for the review service.
type ServiceInterface interface {
	Submit(ctx context.Context, userID, requestID int64, req models.SubmitReviewRequest) (*models.Review, error)
}

// Service implements review submission and the provider rating aggregate.
type Service struct {
	repo  RepositoryInterface
	views cache.ViewCache
}

// NewService creates a new review service.
func NewService(repo RepositoryInterface, views cache.ViewCache) *Service {
	return &Service{repo: repo, views: views}
}

// Submit records a rating for the provider of an assistance request and folds
// it into the provider's workshop aggregate. The aggregate is a running
// average over the stored rating and count, not a recompute from the review
// rows, so rounding drift accumulates over a workshop's lifetime; that is the
// system's long-standing behavior and changing it would shift every displayed
// rating. The review insert and the workshop update are two independent
// writes with no transaction between them.
func (s *Service) Submit(ctx context.Context, userID, requestID int64, req models.SubmitReviewRequest) (*models.Review, error) {
	request, err := s.repo.FindRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("service.Submit: %w", err)
	}
	if request.ProviderID == nil {
		return nil, models.ErrNoProvider
	}

	review := &models.Review{
		UserID:     userID,
		ProviderID: request.ProviderID,
		Rating:     req.Rating,
	}
	if req.Comment != "" {
		review.Comment = &req.Comment
	}

	created, err := s.repo.InsertReview(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("service.Submit: %w", err)
	}
	observability.ReviewsSubmitted.Inc()

	workshop, err := s.repo.FindWorkshopByOwner(ctx, *request.ProviderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Provider without a workshop: the review stands on its own.
			s.views.Invalidate(ctx, userID, "dashboard/request")
			return created, nil
		}
		return nil, fmt.Errorf("service.Submit: %w", err)
	}

	newRating, newCount := FoldRating(workshop.Rating, workshop.ReviewCount, req.Rating)
	if err := s.repo.UpdateWorkshopRating(ctx, workshop.ID, newRating, newCount); err != nil {
		return nil, fmt.Errorf("service.Submit: %w", err)
	}

	s.views.Invalidate(ctx, userID, "dashboard/request")
	return created, nil
}

// FoldRating applies the incremental average:
// (current*count + new) / (count+1), rounded to two decimals.
func FoldRating(current float64, count int, rating int) (float64, int) {
	newCount := count + 1
	avg := (current*float64(count) + float64(rating)) / float64(newCount)
	return math.Round(avg*100) / 100, newCount
}
