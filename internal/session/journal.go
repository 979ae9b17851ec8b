// Package session owns the client's in-memory journal state: the entries
// known so far, the entry currently being edited, and the debounced
// auto-save that feeds the sync engine. Edits are a closed set of typed
// operations; nothing in this package touches the network directly except
// through the gateway and engine it is constructed with.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror"
	"github.com/moodix/journal/internal/models"
	"github.com/moodix/journal/internal/normalize"
	"github.com/moodix/journal/internal/syncer"
)

// SaveStatus is the user-visible save indicator state.
type SaveStatus string

const (
	StatusIdle    SaveStatus = "idle"
	StatusSaving  SaveStatus = "saving"
	StatusSaved   SaveStatus = "saved"
	StatusOffline SaveStatus = "offline"
	// StatusError is reserved for persistence failing outright. The engine
	// downgrades every failure to queued, so this state is defensive.
	StatusError SaveStatus = "error"
)

// Saver is the part of the sync engine the session drives.
type Saver interface {
	Save(ctx context.Context, entry models.JournalEntry) syncer.Outcome
	DrainQueue(ctx context.Context) int
}

const (
	defaultDebounceDelay  = 1500 * time.Millisecond
	defaultSettleDelay    = 2 * time.Second
	defaultLoadDrainDelay = time.Second
)

// Options tunes session behavior; zero values take defaults.
type Options struct {
	Lang           string
	TimeSlots      []string
	DebounceDelay  time.Duration
	SettleDelay    time.Duration
	LoadDrainDelay time.Duration
}

// Journal holds the authoritative in-memory journal state. Safe for
// concurrent use; commit timers fire on their own goroutines.
type Journal struct {
	engine Saver
	gw     gateway.Client
	store  *mirror.Store
	log    logging.Logger

	lang           string
	slots          []string
	debounceDelay  time.Duration
	settleDelay    time.Duration
	loadDrainDelay time.Duration

	// commitTimer enforces one pending commit per current entry;
	// settleTimer reverts the status indicator to idle.
	commitTimer scheduler
	settleTimer scheduler
	loadDrain   scheduler

	ids idGenerator

	mu           sync.Mutex
	entries      models.Entries
	selectedDate string
	current      *models.JournalEntry
	status       SaveStatus
	onStatus     func(SaveStatus)
	onNotice     func(string)
}

func NewJournal(engine Saver, gw gateway.Client, store *mirror.Store, log logging.Logger, opts Options) *Journal {
	if opts.Lang == "" {
		opts.Lang = "fr"
	}
	if len(opts.TimeSlots) == 0 {
		opts.TimeSlots = models.DefaultTimeSlots
	}
	if opts.DebounceDelay == 0 {
		opts.DebounceDelay = defaultDebounceDelay
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = defaultSettleDelay
	}
	if opts.LoadDrainDelay == 0 {
		opts.LoadDrainDelay = defaultLoadDrainDelay
	}
	return &Journal{
		engine:         engine,
		gw:             gw,
		store:          store,
		log:            log,
		lang:           opts.Lang,
		slots:          opts.TimeSlots,
		debounceDelay:  opts.DebounceDelay,
		settleDelay:    opts.SettleDelay,
		loadDrainDelay: opts.LoadDrainDelay,
		entries:        models.Entries{},
		selectedDate:   time.Now().Format("2006-01-02"),
		status:         StatusIdle,
	}
}

// SetStatusListener registers the save-indicator callback.
func (j *Journal) SetStatusListener(fn func(SaveStatus)) {
	j.mu.Lock()
	j.onStatus = fn
	j.mu.Unlock()
}

// SetNoticeListener registers the one-shot user notice callback (toasts).
func (j *Journal) SetNoticeListener(fn func(string)) {
	j.mu.Lock()
	j.onNotice = fn
	j.mu.Unlock()
}

// LoadEntries bulk-loads from the server, normalizes, and refreshes the
// local mirror. Unauthorized or unreachable servers degrade to the mirrored
// snapshot instead of failing. A short while after the load completes, the
// offline queue is drained once opportunistically.
func (j *Journal) LoadEntries(ctx context.Context) {
	var entries models.Entries

	raw, err := j.gw.FetchAllEntries(ctx)
	switch {
	case err == nil:
		entries = normalize.OnLoad(raw, j.lang, j.slots)
		j.store.WriteEntries(ctx, entries)
	case errors.Is(err, gateway.ErrUnauthorized):
		j.log.Debug(ctx, "not authenticated, using mirrored snapshot")
		entries = j.store.ReadEntries(ctx)
	default:
		j.log.Warn(ctx, "entry load failed, using mirrored snapshot", "error", err)
		entries = j.store.ReadEntries(ctx)
	}

	j.mu.Lock()
	j.entries = entries
	date := j.selectedDate
	cur, ok := entries[date]
	if !ok {
		cur = normalize.EmptyEntry(date, j.lang, j.slots)
	}
	cur = cur.Clone()
	j.current = &cur
	j.mu.Unlock()

	j.loadDrain.Schedule(j.loadDrainDelay, func() {
		bg := context.Background()
		if n := j.engine.DrainQueue(bg); n > 0 {
			j.notify(fmt.Sprintf("%d entrée(s) synchronisée(s)", n))
			j.LoadEntries(bg)
		}
	})
}

// SelectDate binds the working copy to date, synthesizing an empty entry
// when nothing is stored for it. Never touches the network. A commit still
// pending for the previous entry is dropped; its edits remain in the entries
// cache only if they were already committed.
func (j *Journal) SelectDate(date string) {
	j.commitTimer.Cancel()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.selectedDate = date
	cur, ok := j.entries[date]
	if !ok {
		cur = normalize.EmptyEntry(date, j.lang, j.slots)
	}
	cur = cur.Clone()
	j.current = &cur
}

// ChangeDate moves the selected date by delta days.
func (j *Journal) ChangeDate(delta int) {
	j.mu.Lock()
	date := j.selectedDate
	j.mu.Unlock()

	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		t = time.Now()
	}
	j.SelectDate(t.AddDate(0, 0, delta).Format("2006-01-02"))
}

// SelectedDate returns the date the working copy is bound to.
func (j *Journal) SelectedDate() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.selectedDate
}

// Current returns a copy of the working entry.
func (j *Journal) Current() models.JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.current == nil {
		return models.JournalEntry{}
	}
	return j.current.Clone()
}

// Cached returns the committed entry for date from the in-memory cache.
func (j *Journal) Cached(date string) (models.JournalEntry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	e, ok := j.entries[date]
	if !ok {
		return models.JournalEntry{}, false
	}
	return e.Clone(), true
}

// Status returns the current save indicator state.
func (j *Journal) Status() SaveStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

// mutate applies one edit operation to the working copy and schedules (or
// cancels) the debounced commit.
func (j *Journal) mutate(apply func(e *models.JournalEntry)) {
	j.mu.Lock()
	if j.current == nil {
		j.mu.Unlock()
		return
	}
	apply(j.current)

	// Redundant-commit gate: when the working copy serializes identically
	// to what is already committed for that date, there is nothing to save
	// and a pending commit can be dropped.
	baseline, ok := j.entries[j.current.Date]
	if !ok {
		baseline = normalize.EmptyEntry(j.current.Date, j.lang, j.slots)
	}
	same := j.current.Equal(baseline)
	j.mu.Unlock()

	if same {
		j.commitTimer.Cancel()
		return
	}
	j.commitTimer.Schedule(j.debounceDelay, j.commit)
}

// commit is the debounced save: strip invalid sub-items, hand the entry to
// the engine, then update the cache with the sanitized copy. The working
// copy is deliberately left alone so blank activity rows stay open in the
// UI even though they were stripped from the persisted copy.
func (j *Journal) commit() {
	ctx := context.Background()

	j.mu.Lock()
	if j.current == nil {
		j.mu.Unlock()
		return
	}
	clean := normalize.ForPersist(j.current.Clone())
	j.mu.Unlock()

	j.setStatus(StatusSaving)
	out := j.engine.Save(ctx, clean)

	if !out.Success {
		// Unreachable with the current engine; kept so a future hard
		// failure surfaces instead of lying about durability. The cache
		// is left alone: an entry that did not reach the mirror or the
		// queue must not read back as committed.
		j.setStatus(StatusError)
		j.notify("Erreur sauvegarde")
		return
	}

	j.mu.Lock()
	j.entries[clean.Date] = clean
	j.mu.Unlock()

	if out.Queued || out.Mode == syncer.ModeOffline {
		j.setStatus(StatusOffline)
		j.notify("Sauvegardé localement (hors ligne)")
	} else {
		j.setStatus(StatusSaved)
	}

	j.settleTimer.Schedule(j.settleDelay, func() { j.setStatus(StatusIdle) })
}

// Flush commits any pending edits immediately. Used on shutdown.
func (j *Journal) Flush() {
	j.commitTimer.Cancel()

	j.mu.Lock()
	dirty := false
	if j.current != nil {
		baseline, ok := j.entries[j.current.Date]
		if !ok {
			baseline = normalize.EmptyEntry(j.current.Date, j.lang, j.slots)
		}
		dirty = !j.current.Equal(baseline)
	}
	j.mu.Unlock()

	if dirty {
		j.commit()
	}
}

func (j *Journal) setStatus(s SaveStatus) {
	j.mu.Lock()
	changed := j.status != s
	j.status = s
	cb := j.onStatus
	j.mu.Unlock()
	if changed && cb != nil {
		cb(s)
	}
}

func (j *Journal) notify(msg string) {
	j.mu.Lock()
	cb := j.onNotice
	j.mu.Unlock()
	if cb != nil {
		cb(msg)
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

// insertSorted adds a time string keeping the list ascending.
func insertSorted(times []string, t string) []string {
	out := append(append([]string(nil), times...), t)
	sort.Strings(out)
	return out
}
