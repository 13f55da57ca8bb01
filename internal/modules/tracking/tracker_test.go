package tracking

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hugo-automotriz/internal/models"
)

// fakeFetcher serves a scripted status and counts polls.
type fakeFetcher struct {
	mu       sync.Mutex
	status   models.RequestStatus
	provider *models.User
	polls    int64
}

func (f *fakeFetcher) Status(ctx context.Context, requestID int64) (*models.RequestStatusView, error) {
	atomic.AddInt64(&f.polls, 1)
	f.mu.Lock()
	defer f.mu.Unlock()
	view := &models.RequestStatusView{}
	view.ID = requestID
	view.Status = f.status
	view.Provider = f.provider
	return view, nil
}

func (f *fakeFetcher) set(status models.RequestStatus) {
	f.mu.Lock()
	f.status = status
	f.mu.Unlock()
}

func testOptions() Options {
	return Options{
		PollInterval:      5 * time.Millisecond,
		TickInterval:      2 * time.Millisecond,
		EstimatedDuration: 100 * time.Millisecond,
	}
}

func TestStopHaltsBothLoops(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusPending}
	tr := New(fetcher, 1, testOptions())

	tr.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	tr.Stop()

	after := atomic.LoadInt64(&fetcher.polls)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt64(&fetcher.polls); got != after {
		t.Fatalf("polls continued after Stop: %d -> %d", after, got)
	}

	// Stop is idempotent.
	tr.Stop()
}

func TestContextCancelHaltsLoops(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusPending}
	tr := New(fetcher, 1, testOptions())

	ctx, cancel := context.WithCancel(context.Background())
	tr.Start(ctx)
	time.Sleep(20 * time.Millisecond)
	cancel()
	time.Sleep(20 * time.Millisecond)

	after := atomic.LoadInt64(&fetcher.polls)
	time.Sleep(30 * time.Millisecond)
	if got := atomic.LoadInt64(&fetcher.polls); got != after {
		t.Fatalf("polls continued after context cancel: %d -> %d", after, got)
	}
	tr.Stop()
}

func TestCompletionPromptFiresExactlyOnce(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusAccepted}
	tr := New(fetcher, 1, testOptions())

	var prompts int64
	tr.OnComplete = func() { atomic.AddInt64(&prompts, 1) }

	tr.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	fetcher.set(models.StatusCompleted)
	// Leave the poll running over several completed observations.
	time.Sleep(50 * time.Millisecond)
	tr.Stop()

	if got := atomic.LoadInt64(&prompts); got != 1 {
		t.Fatalf("rating prompt fired %d times, want exactly once", got)
	}

	snap := tr.Snapshot()
	if snap.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", snap.Status)
	}
	if snap.Progress != 100 || snap.MinutesRemaining != 0 {
		t.Errorf("completed snapshot = %.1f%%/%dmin, want 100%%/0min", snap.Progress, snap.MinutesRemaining)
	}
}

func TestEstimatorIdleWhilePending(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusPending}
	tr := New(fetcher, 1, testOptions())

	tr.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	tr.Stop()

	if snap := tr.Snapshot(); snap.Progress != 0 {
		t.Fatalf("progress advanced to %.1f%% while still pending", snap.Progress)
	}
}

func TestEstimatorAdvancesOnceAccepted(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusAccepted}
	tr := New(fetcher, 1, testOptions())

	tr.Start(context.Background())
	time.Sleep(40 * time.Millisecond)
	snap := tr.Snapshot()
	tr.Stop()

	if snap.Progress <= 0 {
		t.Fatalf("progress did not advance while accepted: %.1f%%", snap.Progress)
	}
	if snap.Progress > 100 {
		t.Fatalf("progress exceeded 100%%: %.1f", snap.Progress)
	}
}

func TestProgressCapsAtEstimateOverrun(t *testing.T) {
	fetcher := &fakeFetcher{status: models.StatusAccepted}
	opts := testOptions()
	opts.EstimatedDuration = 10 * time.Millisecond
	tr := New(fetcher, 1, opts)

	tr.Start(context.Background())
	// Wait well past the estimated duration; the bar pins at 100 and the
	// countdown at zero even though the job is still "accepted".
	time.Sleep(40 * time.Millisecond)
	snap := tr.Snapshot()
	tr.Stop()

	if snap.Progress != 100 {
		t.Errorf("overrun progress = %.1f%%, want 100", snap.Progress)
	}
	if snap.MinutesRemaining != 0 {
		t.Errorf("overrun minutes remaining = %d, want 0", snap.MinutesRemaining)
	}
	if snap.Status != models.StatusAccepted {
		t.Errorf("estimate must not touch status, got %q", snap.Status)
	}
}
