// Package tracking drives the request-tracking view: a fixed-cadence status
// poll against the server plus a local progress estimate, the same pair of
// loops the web client runs while a driver waits for help.
package tracking

import (
	"context"
	"math"
	"sync"
	"time"

	"hugo-automotriz/internal/models"
)

// StatusFetcher reads the current state of one assistance request. The
// assistance service satisfies this directly.
type StatusFetcher interface {
	Status(ctx context.Context, requestID int64) (*models.RequestStatusView, error)
}

// Options tune the tracker's two loops. Zero values take the production
// defaults; tests shrink the intervals.
type Options struct {
	// PollInterval is the fixed status-poll cadence. No backoff, no cap on
	// total duration; polling runs until the tracker stops.
	PollInterval time.Duration
	// TickInterval is the cadence of the local progress estimator.
	TickInterval time.Duration
	// EstimatedDuration is the fixed assumed job length the progress bar is
	// computed from. It is purely local and may diverge from reality; the
	// server never reports an ETA.
	EstimatedDuration time.Duration
}

const (
	defaultPollInterval      = 5 * time.Second
	defaultTickInterval      = 1 * time.Second
	defaultEstimatedDuration = 15 * time.Minute
)

// Snapshot is the tracker's current view state.
type Snapshot struct {
	Status           models.RequestStatus `json:"status"`
	Provider         *models.User         `json:"provider,omitempty"`
	Progress         float64              `json:"progress"` // 0..100, cosmetic
	MinutesRemaining int                  `json:"minutes_remaining"`
}

// Tracker polls one request's status and estimates progress until stopped.
// Both loops are bound to the tracker's lifetime: Stop (or the context given
// to Start) halts them deterministically, leaving no orphaned tickers.
type Tracker struct {
	requestID int64
	fetch     StatusFetcher
	opts      Options
	startTime time.Time

	mu       sync.Mutex
	snap     Snapshot
	prompted bool

	// OnUpdate, when set, observes every snapshot change. OnComplete fires
	// exactly once per tracker, the first time a poll sees "completed" - the
	// rating prompt is gated by this in-memory flag only, so a fresh tracker
	// for the same request would prompt again.
	OnUpdate   func(Snapshot)
	OnComplete func()

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// New builds a tracker for one request. The start time for the progress
// estimate is recorded locally, now, regardless of when the request was
// actually accepted.
func New(fetch StatusFetcher, requestID int64, opts Options) *Tracker {
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	if opts.EstimatedDuration <= 0 {
		opts.EstimatedDuration = defaultEstimatedDuration
	}
	return &Tracker{
		requestID: requestID,
		fetch:     fetch,
		opts:      opts,
		startTime: time.Now(),
		snap: Snapshot{
			Status:           models.StatusPending,
			MinutesRemaining: int(math.Ceil(opts.EstimatedDuration.Minutes())),
		},
		done: make(chan struct{}),
	}
}

// Start launches the poll and estimator loops. Cancelling ctx is equivalent
// to calling Stop.
func (t *Tracker) Start(ctx context.Context) {
	t.wg.Add(2)
	go t.pollLoop(ctx)
	go t.estimateLoop(ctx)
}

// Stop halts both loops and waits for them to exit. Safe to call more than
// once and safe to call concurrently with a context cancellation.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
	t.wg.Wait()
}

// Snapshot returns the current view state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snap
}

func (t *Tracker) pollLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.opts.PollInterval)
	defer ticker.Stop()

	t.poll(ctx) // initial check before the first tick
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-ticker.C:
			t.poll(ctx)
		}
	}
}

func (t *Tracker) poll(ctx context.Context) {
	view, err := t.fetch.Status(ctx, t.requestID)
	if err != nil {
		// Poll errors are swallowed; the next tick tries again.
		return
	}

	t.mu.Lock()
	t.snap.Status = view.Status
	if view.Provider != nil {
		t.snap.Provider = view.Provider
	}
	if view.Status == models.StatusCompleted {
		t.snap.Progress = 100
		t.snap.MinutesRemaining = 0
	}
	completedNow := view.Status == models.StatusCompleted && !t.prompted
	if completedNow {
		t.prompted = true
	}
	snap := t.snap
	t.mu.Unlock()

	if t.OnUpdate != nil {
		t.OnUpdate(snap)
	}
	if completedNow && t.OnComplete != nil {
		t.OnComplete()
	}
}

func (t *Tracker) estimateLoop(ctx context.Context) {
	defer t.wg.Done()

	ticker := time.NewTicker(t.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.done:
			return
		case <-ticker.C:
			t.estimate()
		}
	}
}

// estimate recomputes progress from wall-clock elapsed time against the fixed
// estimated duration. It only runs while help is on the way; the numbers are
// independent of anything the server reports.
func (t *Tracker) estimate() {
	t.mu.Lock()
	if t.snap.Status != models.StatusAccepted && t.snap.Status != models.StatusInProgress {
		t.mu.Unlock()
		return
	}

	total := t.opts.EstimatedDuration
	elapsed := time.Since(t.startTime)
	remaining := total - elapsed
	if remaining < 0 {
		remaining = 0
	}

	t.snap.Progress = math.Min(100, float64(elapsed)/float64(total)*100)
	t.snap.MinutesRemaining = int(math.Ceil(remaining.Minutes()))
	snap := t.snap
	t.mu.Unlock()

	if t.OnUpdate != nil {
		t.OnUpdate(snap)
	}
}
