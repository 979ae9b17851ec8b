package syncer

import (
	"io"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror"
	"github.com/moodix/journal/internal/models"
	"github.com/moodix/journal/internal/normalize"
)

var dbSeq atomic.Int64

func setupMirror(t *testing.T) *mirror.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:syncer%d?mode=memory&cache=shared", dbSeq.Add(1))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE storage (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)

	return mirror.New(db, testLogger())
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeGateway implements gateway.Client with presettable behavior, recording
// upserts and their timing.
type fakeGateway struct {
	mu          sync.Mutex
	remote      map[string]models.JournalEntry
	failAll     bool
	failDates   map[string]bool
	upsertTimes []time.Time
	upsertDates []string
	pingErr     error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{remote: map[string]models.JournalEntry{}}
}

func (f *fakeGateway) UpsertEntry(ctx context.Context, e models.JournalEntry) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upsertTimes = append(f.upsertTimes, time.Now())
	f.upsertDates = append(f.upsertDates, e.Date)
	if f.failAll || f.failDates[e.Date] {
		return false
	}
	f.remote[e.Date] = e
	return true
}

func (f *fakeGateway) attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.upsertTimes)
}

func (f *fakeGateway) stored(date string) (models.JournalEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.remote[date]
	return e, ok
}

func (f *fakeGateway) CheckSession(context.Context) models.SessionInfo {
	return models.SessionInfo{Authenticated: true}
}
func (f *fakeGateway) Login(context.Context, string, string) bool { return true }
func (f *fakeGateway) Logout(context.Context)                     {}
func (f *fakeGateway) FetchAllEntries(context.Context) (map[string]normalize.RawEntry, error) {
	return map[string]normalize.RawEntry{}, nil
}
func (f *fakeGateway) FetchSettings(context.Context) *models.Settings { return nil }
func (f *fakeGateway) PushSettings(context.Context, models.Settings)  {}
func (f *fakeGateway) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pingErr
}

var _ gateway.Client = (*fakeGateway)(nil)

func newTestEngine(t *testing.T, gw gateway.Client, store *mirror.Store, base time.Duration) *Engine {
	t.Helper()
	return New(gw, store, testLogger(),
		WithRetryPolicy(3, base),
		WithDrainKickDelay(time.Millisecond))
}

func TestSave_Online(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	e := newTestEngine(t, gw, store, time.Millisecond)
	ctx := context.Background()

	out := e.Save(ctx, models.JournalEntry{Date: "2024-01-01", GeneralMood: "5"})

	require.Equal(t, Outcome{Success: true, Mode: ModeOnline}, out)
	require.Equal(t, 1, gw.attempts())

	// Mirrored locally regardless of network outcome.
	require.Contains(t, store.ReadEntries(ctx), "2024-01-01")
	require.Zero(t, store.QueueLength(ctx))

	st := e.Status(ctx)
	require.True(t, st.Online)
	require.False(t, st.LastSave.IsZero())
	require.Zero(t, st.RetryAttempts)
}

func TestSave_AllRetriesFail_Queues(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	gw.failAll = true
	e := newTestEngine(t, gw, store, time.Millisecond)
	ctx := context.Background()

	out := e.Save(ctx, models.JournalEntry{Date: "2024-01-01", GeneralMood: "7"})

	require.Equal(t, Outcome{Success: true, Mode: ModeOffline, Queued: true}, out)
	// Initial attempt plus three retries.
	require.Equal(t, 4, gw.attempts())

	queue := store.PeekAll(ctx)
	require.Len(t, queue, 1)
	require.Equal(t, "2024-01-01", queue[0].Entry.Date)
	require.Equal(t, "7", queue[0].Entry.GeneralMood)

	// Still mirrored in the snapshot: data is safe locally.
	require.Contains(t, store.ReadEntries(ctx), "2024-01-01")

	st := e.Status(ctx)
	require.False(t, st.Online)
	require.Equal(t, 3, st.RetryAttempts)
	require.Equal(t, 1, st.QueueLength)
}

func TestSave_BackoffIsCappedExponential(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	gw.failAll = true
	base := 20 * time.Millisecond
	e := newTestEngine(t, gw, store, base)

	start := time.Now()
	e.Save(context.Background(), models.JournalEntry{Date: "2024-01-01"})
	elapsed := time.Since(start)

	// Delays base, 2*base, 4*base between the four attempts.
	require.GreaterOrEqual(t, elapsed, 7*base)
	require.Equal(t, 4, gw.attempts())

	gw.mu.Lock()
	gaps := make([]time.Duration, 0, 3)
	for i := 1; i < len(gw.upsertTimes); i++ {
		gaps = append(gaps, gw.upsertTimes[i].Sub(gw.upsertTimes[i-1]))
	}
	gw.mu.Unlock()
	require.Len(t, gaps, 3)
	require.GreaterOrEqual(t, gaps[0], base)
	require.GreaterOrEqual(t, gaps[1], 2*base)
	require.GreaterOrEqual(t, gaps[2], 4*base)
}

func TestSave_RecoversByDrainingQueue(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	gw.failAll = true
	e := newTestEngine(t, gw, store, time.Millisecond)
	ctx := context.Background()

	e.Save(ctx, models.JournalEntry{Date: "2024-01-01"})
	require.Equal(t, 1, store.QueueLength(ctx))

	// Network is back; the next successful save kicks a drain.
	gw.mu.Lock()
	gw.failAll = false
	gw.mu.Unlock()

	out := e.Save(ctx, models.JournalEntry{Date: "2024-01-02"})
	require.Equal(t, ModeOnline, out.Mode)

	require.Eventually(t, func() bool {
		return store.QueueLength(ctx) == 0
	}, time.Second, 5*time.Millisecond)

	_, ok := gw.stored("2024-01-01")
	require.True(t, ok)
}

func TestDrainQueue_PartialFailureKeepsOrder(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	gw.failDates = map[string]bool{"2024-01-01": true, "2024-01-03": true}
	e := newTestEngine(t, gw, store, time.Millisecond)
	ctx := context.Background()

	store.Enqueue(ctx, models.JournalEntry{Date: "2024-01-01"})
	store.Enqueue(ctx, models.JournalEntry{Date: "2024-01-02"})
	store.Enqueue(ctx, models.JournalEntry{Date: "2024-01-03"})

	require.Equal(t, 1, e.DrainQueue(ctx))

	queue := store.PeekAll(ctx)
	require.Len(t, queue, 2)
	require.Equal(t, "2024-01-01", queue[0].Entry.Date)
	require.Equal(t, "2024-01-03", queue[1].Entry.Date)

	_, ok := gw.stored("2024-01-02")
	require.True(t, ok)
}

func TestDrainQueue_EmptyQueueIsNoop(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	e := newTestEngine(t, gw, store, time.Millisecond)

	require.Zero(t, e.DrainQueue(context.Background()))
	require.Zero(t, gw.attempts())
}

func TestOnlineWatcher_DrainsOnReconnect(t *testing.T) {
	store := setupMirror(t)
	gw := newFakeGateway()
	gw.pingErr = fmt.Errorf("unreachable")
	e := newTestEngine(t, gw, store, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.Enqueue(ctx, models.JournalEntry{Date: "2024-01-01"})

	go e.StartOnlineWatcher(ctx, 5*time.Millisecond)

	// Offline: the queue stays put.
	time.Sleep(25 * time.Millisecond)
	require.Equal(t, 1, store.QueueLength(ctx))
	require.False(t, e.Status(ctx).Online)

	// Back online: the watcher drains without any new edit.
	gw.mu.Lock()
	gw.pingErr = nil
	gw.mu.Unlock()

	require.Eventually(t, func() bool {
		return store.QueueLength(ctx) == 0 && e.Status(ctx).Online
	}, time.Second, 5*time.Millisecond)
}
