// Package syncer is the offline-resilient save pipeline. A save is mirrored
// locally first, then pushed to the server with capped exponential backoff;
// once retries are exhausted the entry is queued durably and replayed later.
// Save never reports a hard failure: every call resolves to "online" or
// "queued", and the caller can tell the user their data is safe.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror"
	"github.com/moodix/journal/internal/models"
)

// Mode tells the caller how a save became durable.
type Mode string

const (
	// ModeOnline means the entry reached the server.
	ModeOnline Mode = "online"
	// ModeOffline means the entry is mirrored locally and queued for replay.
	ModeOffline Mode = "offline"
)

// Outcome is the terminal result of one save operation.
type Outcome struct {
	Success bool `json:"success"`
	Mode    Mode `json:"mode"`
	Queued  bool `json:"queued,omitempty"`
}

// Status is a point-in-time snapshot of the engine for the UI indicator.
type Status struct {
	Online        bool
	LastSave      time.Time
	QueueLength   int
	RetryAttempts int
}

var errUpstreamSave = errors.New("server rejected save")

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
	// drainKickDelay keeps the post-save drain off the caller's critical path.
	defaultDrainKickDelay = 100 * time.Millisecond
	pingTimeout           = 3 * time.Second
)

// Engine orchestrates save attempts, retry/backoff, offline queueing and
// queue draining. Safe for concurrent use.
type Engine struct {
	gw    gateway.Client
	store *mirror.Store
	log   logging.Logger

	maxRetries     uint64
	retryDelay     time.Duration
	drainKickDelay time.Duration

	// drain collapses the post-save, reconnect and post-load triggers into
	// a single in-flight pass.
	drain singleflight.Group

	mu            sync.Mutex
	online        bool
	lastSave      time.Time
	retryAttempts int
}

// Option tweaks engine timing, mainly for tests.
type Option func(*Engine)

// WithRetryPolicy overrides the retry bound and the backoff base delay
// (delays grow base, 2*base, 4*base, ... without jitter).
func WithRetryPolicy(maxRetries uint64, baseDelay time.Duration) Option {
	return func(e *Engine) {
		e.maxRetries = maxRetries
		e.retryDelay = baseDelay
	}
}

// WithDrainKickDelay overrides the pause before the opportunistic post-save
// drain.
func WithDrainKickDelay(d time.Duration) Option {
	return func(e *Engine) { e.drainKickDelay = d }
}

func New(gw gateway.Client, store *mirror.Store, log logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		gw:             gw,
		store:          store,
		log:            log,
		maxRetries:     defaultMaxRetries,
		retryDelay:     defaultRetryDelay,
		drainKickDelay: defaultDrainKickDelay,
		online:         true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Save makes entry durable. It mirrors the entry locally (best-effort,
// storage failures are logged inside the store), then attempts the remote
// upsert with capped exponential backoff. Exhausted retries downgrade to the
// offline queue; that is a terminal success, not an error.
func (e *Engine) Save(ctx context.Context, entry models.JournalEntry) Outcome {
	e.store.MergeOneEntry(ctx, entry)

	attempts := 0
	backoff := retry.WithMaxRetries(e.maxRetries, retry.NewExponential(e.retryDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		if e.gw.UpsertEntry(ctx, entry) {
			return nil
		}
		return retry.RetryableError(errUpstreamSave)
	})

	if err == nil {
		e.mu.Lock()
		e.lastSave = time.Now()
		e.retryAttempts = 0
		e.online = true
		e.mu.Unlock()

		// Opportunistically replay anything queued earlier, off the
		// caller's path.
		go func() {
			time.Sleep(e.drainKickDelay)
			e.DrainQueue(context.Background())
		}()

		return Outcome{Success: true, Mode: ModeOnline}
	}

	e.store.Enqueue(ctx, entry)

	e.mu.Lock()
	e.retryAttempts = attempts - 1
	e.online = false
	e.mu.Unlock()

	e.log.Warn(ctx, "save queued after retries", "date", entry.Date, "attempts", attempts)
	return Outcome{Success: true, Mode: ModeOffline, Queued: true}
}

// DrainQueue replays queued writes against the server and returns how many
// were drained. Concurrent calls share one pass. The queue is walked from
// the newest item to the oldest with positional removal; that traversal
// order keeps removals from shifting any index the cursor has yet to visit,
// and final server state does not depend on order since each write is an
// idempotent upsert by date.
func (e *Engine) DrainQueue(ctx context.Context) int {
	v, _, _ := e.drain.Do("drain", func() (any, error) {
		return e.drainOnce(ctx), nil
	})
	n, _ := v.(int)
	return n
}

func (e *Engine) drainOnce(ctx context.Context) int {
	items := e.store.PeekAll(ctx)
	processed := 0
	for i := len(items) - 1; i >= 0; i-- {
		if e.gw.UpsertEntry(ctx, items[i].Entry) {
			e.store.DequeueAt(ctx, i)
			processed++
		}
	}
	if processed > 0 {
		e.log.Info(ctx, "offline queue drained", "processed", processed)
	}
	return processed
}

// Status reports the current connectivity and bookkeeping snapshot.
func (e *Engine) Status(ctx context.Context) Status {
	e.mu.Lock()
	s := Status{
		Online:        e.online,
		LastSave:      e.lastSave,
		RetryAttempts: e.retryAttempts,
	}
	e.mu.Unlock()
	s.QueueLength = e.store.QueueLength(ctx)
	return s
}

// setOnline records connectivity and reports whether this call was an
// offline-to-online transition.
func (e *Engine) setOnline(ctx context.Context, online bool) bool {
	e.mu.Lock()
	was := e.online
	e.online = online
	e.mu.Unlock()
	if was != online {
		e.log.Info(ctx, "connectivity changed", "online", online)
	}
	return !was && online
}

// StartOnlineWatcher pings the server on every tick and keeps the online
// flag current. Reconnecting triggers a drain, and while online any
// non-empty queue is swept on the next tick, so a long-lived offline process
// recovers without waiting for a new edit. Blocks until ctx is done.
func (e *Engine) StartOnlineWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), pingTimeout)
			err := e.gw.Ping(pingCtx)
			cancel()

			if err != nil {
				e.setOnline(ctx, false)
				continue
			}
			reconnected := e.setOnline(ctx, true)
			if reconnected || e.store.QueueLength(ctx) > 0 {
				e.DrainQueue(ctx)
			}
		case <-ctx.Done():
			return
		}
	}
}
