package reviews

import (
	"context"
	"testing"

	"hugo-automotriz/internal/cache"
	"hugo-automotriz/internal/models"
)

type fakeRepo struct {
	requests  map[int64]*models.AssistanceRequest
	workshops map[int64]*models.Workshop // keyed by owner id
	inserted  []*models.Review
	updates   []ratingUpdate
}

type ratingUpdate struct {
	workshopID int64
	rating     float64
	count      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests:  make(map[int64]*models.AssistanceRequest),
		workshops: make(map[int64]*models.Workshop),
	}
}

func (f *fakeRepo) FindRequest(ctx context.Context, requestID int64) (*models.AssistanceRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) InsertReview(ctx context.Context, review *models.Review) (*models.Review, error) {
	cp := *review
	cp.ID = int64(len(f.inserted) + 1)
	f.inserted = append(f.inserted, &cp)
	out := cp
	return &out, nil
}

func (f *fakeRepo) FindWorkshopByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error) {
	w, ok := f.workshops[ownerID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) UpdateWorkshopRating(ctx context.Context, workshopID int64, rating float64, reviewCount int) error {
	f.updates = append(f.updates, ratingUpdate{workshopID, rating, reviewCount})
	return nil
}

func provider(id int64) *int64 { return &id }

func TestSubmitFoldsRatingIntoWorkshopAverage(t *testing.T) {
	repo := newFakeRepo()
	repo.requests[1] = &models.AssistanceRequest{ID: 1, UserID: 5, ProviderID: provider(10), Status: models.StatusCompleted}
	repo.workshops[10] = &models.Workshop{ID: 7, OwnerID: 10, Rating: 4.00, ReviewCount: 3}
	svc := NewService(repo, cache.Noop{})

	review, err := svc.Submit(context.Background(), 5, 1, models.SubmitReviewRequest{Rating: 5, Comment: "Excelente servicio"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if review.ProviderID == nil || *review.ProviderID != 10 {
		t.Errorf("review provider = %v, want 10", review.ProviderID)
	}

	if len(repo.updates) != 1 {
		t.Fatalf("expected one rating update, got %d", len(repo.updates))
	}
	up := repo.updates[0]
	if up.workshopID != 7 {
		t.Errorf("updated workshop %d, want 7", up.workshopID)
	}
	// (4.00*3 + 5) / 4 = 4.25
	if up.rating != 4.25 {
		t.Errorf("new rating = %v, want 4.25", up.rating)
	}
	if up.count != 4 {
		t.Errorf("new count = %d, want 4", up.count)
	}
}

func TestSubmitWithoutProviderRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.requests[1] = &models.AssistanceRequest{ID: 1, UserID: 5, Status: models.StatusPending}
	svc := NewService(repo, cache.Noop{})

	_, err := svc.Submit(context.Background(), 5, 1, models.SubmitReviewRequest{Rating: 4})
	if err != models.ErrNoProvider {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if len(repo.inserted) != 0 {
		t.Fatalf("review row written despite rejection")
	}
}

func TestSubmitForProviderWithoutWorkshopSkipsAggregate(t *testing.T) {
	repo := newFakeRepo()
	repo.requests[1] = &models.AssistanceRequest{ID: 1, UserID: 5, ProviderID: provider(10), Status: models.StatusCompleted}
	svc := NewService(repo, cache.Noop{})

	review, err := svc.Submit(context.Background(), 5, 1, models.SubmitReviewRequest{Rating: 3})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if review.ID == 0 {
		t.Errorf("review not inserted")
	}
	if len(repo.updates) != 0 {
		t.Fatalf("no workshop should be updated for a workshop-less provider")
	}
}

func TestFoldRatingRoundsToTwoDecimals(t *testing.T) {
	cases := []struct {
		current   float64
		count     int
		rating    int
		wantAvg   float64
		wantCount int
	}{
		{4.00, 3, 5, 4.25, 4},
		{0, 0, 5, 5.00, 1},
		{4.33, 3, 4, 4.25, 4},  // (12.99+4)/4 = 4.2475 -> 4.25
		{3.67, 2, 5, 4.11, 3},  // (7.34+5)/3 = 4.1133 -> 4.11
		{5.00, 1, 1, 3.00, 2},
	}
	for _, tc := range cases {
		avg, count := FoldRating(tc.current, tc.count, tc.rating)
		if avg != tc.wantAvg || count != tc.wantCount {
			t.Errorf("FoldRating(%v, %d, %d) = (%v, %d), want (%v, %d)",
				tc.current, tc.count, tc.rating, avg, count, tc.wantAvg, tc.wantCount)
		}
	}
}
