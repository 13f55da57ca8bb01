package workshops

import (
	"context"
	"testing"

	"hugo-automotriz/internal/models"
)

type fakeRepo struct {
	byOwner   map[int64]*models.Workshop
	revenue   map[int64]float64
	jobs      map[int64]int
	listed    []*models.WorkshopDetail
	lastDesc  string
	lastTags  []string
	lastWrite int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byOwner: make(map[int64]*models.Workshop),
		revenue: make(map[int64]float64),
		jobs:    make(map[int64]int),
	}
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]*models.WorkshopDetail, error) {
	return f.listed, nil
}

func (f *fakeRepo) FindDetail(ctx context.Context, workshopID int64) (*models.WorkshopDetail, error) {
	for _, d := range f.listed {
		if d.ID == workshopID {
			return d, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeRepo) FindByOwner(ctx context.Context, ownerID int64) (*models.Workshop, error) {
	w, ok := f.byOwner[ownerID]
	if !ok {
		return nil, models.ErrWorkshopNotFound
	}
	cp := *w
	return &cp, nil
}

func (f *fakeRepo) CompletedRevenue(ctx context.Context, providerID int64) (float64, int, error) {
	return f.revenue[providerID], f.jobs[providerID], nil
}

func (f *fakeRepo) UpdateSettings(ctx context.Context, workshopID int64, req models.UpdateWorkshopRequest, description string, tags []string) error {
	f.lastWrite = workshopID
	f.lastDesc = description
	f.lastTags = tags
	return nil
}

type fakeClassifier struct {
	result *models.WorkshopClassification
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, raw string) (*models.WorkshopClassification, error) {
	f.calls++
	if f.result != nil {
		return f.result, nil
	}
	return &models.WorkshopClassification{Tags: []string{"Taller General"}, ImprovedDescription: raw}, nil
}

func TestMonthlyBucketsSplitRevenueExactly(t *testing.T) {
	buckets := MonthlyBuckets(1000)

	wantNames := []string{"Ene", "Feb", "Mar", "Abr", "May", "Jun"}
	wantTotals := []float64{100, 150, 100, 200, 250, 200}
	if len(buckets) != 6 {
		t.Fatalf("got %d buckets, want 6", len(buckets))
	}
	var sum float64
	for i, b := range buckets {
		if b.Name != wantNames[i] {
			t.Errorf("bucket %d name = %q, want %q", i, b.Name, wantNames[i])
		}
		if b.Total != wantTotals[i] {
			t.Errorf("bucket %q total = %v, want %v", b.Name, b.Total, wantTotals[i])
		}
		sum += b.Total
	}
	if sum != 1000 {
		t.Errorf("buckets sum to %v, want the full 1000", sum)
	}
}

func TestStatsAggregatesCompletedWork(t *testing.T) {
	repo := newFakeRepo()
	repo.byOwner[10] = &models.Workshop{ID: 7, OwnerID: 10, Rating: 4.25, ReviewCount: 4}
	repo.revenue[10] = 450
	repo.jobs[10] = 3
	svc := NewService(repo, &fakeClassifier{})

	stats, err := svc.Stats(context.Background(), 10)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Revenue != 450 || stats.Appointments != 3 {
		t.Errorf("revenue/jobs = %v/%d, want 450/3", stats.Revenue, stats.Appointments)
	}
	if stats.Rating != 4.25 {
		t.Errorf("rating = %v, want 4.25", stats.Rating)
	}
	if len(stats.MonthlyRevenue) != 6 {
		t.Errorf("monthly chart has %d buckets, want 6", len(stats.MonthlyRevenue))
	}
}

func TestStatsWithoutWorkshopRejected(t *testing.T) {
	svc := NewService(newFakeRepo(), &fakeClassifier{})
	_, err := svc.Stats(context.Background(), 99)
	if err == nil {
		t.Fatalf("expected error for owner without workshop")
	}
}

func TestListSortsByRatingWhenFiltered(t *testing.T) {
	repo := newFakeRepo()
	repo.listed = []*models.WorkshopDetail{
		{Workshop: models.Workshop{ID: 1, Rating: 3.5}},
		{Workshop: models.Workshop{ID: 2, Rating: 4.8}},
		{Workshop: models.Workshop{ID: 3, Rating: 4.1}},
	}
	svc := NewService(repo, &fakeClassifier{})

	unsorted, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if unsorted[0].ID != 1 {
		t.Errorf("unfiltered list reordered, first id = %d", unsorted[0].ID)
	}

	ranked, err := svc.List(context.Background(), "rating")
	if err != nil {
		t.Fatalf("List(rating): %v", err)
	}
	if ranked[0].ID != 2 || ranked[1].ID != 3 || ranked[2].ID != 1 {
		t.Errorf("rating sort order = %d,%d,%d, want 2,3,1", ranked[0].ID, ranked[1].ID, ranked[2].ID)
	}
}

func TestUpdateSettingsClassifiesDescription(t *testing.T) {
	repo := newFakeRepo()
	repo.byOwner[10] = &models.Workshop{ID: 7, OwnerID: 10}
	classifier := &fakeClassifier{result: &models.WorkshopClassification{
		Tags:                []string{"Mecánica General", "Electricidad"},
		ImprovedDescription: "Taller especializado en mecánica general y sistemas eléctricos.",
	}}
	svc := NewService(repo, classifier)

	err := svc.UpdateSettings(context.Background(), 10, models.UpdateWorkshopRequest{
		Name:        "Taller López",
		Address:     "Av. Banzer 123",
		Description: "arreglamos todo tipo de autos",
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if classifier.calls != 1 {
		t.Errorf("classifier called %d times, want 1", classifier.calls)
	}
	if repo.lastWrite != 7 {
		t.Errorf("wrote workshop %d, want 7", repo.lastWrite)
	}
	if repo.lastDesc != classifier.result.ImprovedDescription {
		t.Errorf("stored description = %q, want the classified one", repo.lastDesc)
	}
	if len(repo.lastTags) != 2 {
		t.Errorf("stored tags = %v, want the classified tags", repo.lastTags)
	}
}

func TestUpdateSettingsSkipsClassifierWithoutDescription(t *testing.T) {
	repo := newFakeRepo()
	repo.byOwner[10] = &models.Workshop{ID: 7, OwnerID: 10}
	classifier := &fakeClassifier{}
	svc := NewService(repo, classifier)

	err := svc.UpdateSettings(context.Background(), 10, models.UpdateWorkshopRequest{
		Name:    "Taller López",
		Address: "Av. Banzer 123",
	})
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if classifier.calls != 0 {
		t.Errorf("classifier should not run for an empty description")
	}
}
