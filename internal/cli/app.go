package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/moodix/journal/internal/config"
	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror"
	"github.com/moodix/journal/internal/session"
	"github.com/moodix/journal/internal/syncer"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	db       *sql.DB
	store    *mirror.Store
	engine   *syncer.Engine
	journal  *session.Journal
	settings *session.SettingsService
	auth     *session.AuthService
	reader   *bufio.Reader
	loggedIn bool
}

func NewApp(c *config.Config, log logging.Logger) (*App, error) {
	ctx := context.Background()

	store, db, err := mirror.Open(ctx, c.MirrorDBPath, log)
	if err != nil {
		return nil, fmt.Errorf("opening mirror: %w", err)
	}

	gw, err := gateway.New(c.ServerBaseURL, log)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("building gateway: %w", err)
	}

	engine := syncer.New(gw, store, log,
		syncer.WithRetryPolicy(c.MaxRetries, c.RetryBaseDelay))

	journal := session.NewJournal(engine, gw, store, log, session.Options{
		Lang:          c.Lang,
		TimeSlots:     c.TimeSlots,
		DebounceDelay: c.DebounceDelay,
		SettleDelay:   c.SettleDelay,
	})

	app := &App{
		config:   c,
		log:      log,
		db:       db,
		store:    store,
		engine:   engine,
		journal:  journal,
		settings: session.NewSettingsService(gw, store, log),
		auth:     session.NewAuthService(gw, log),
		reader:   bufio.NewReader(os.Stdin),
	}

	journal.SetStatusListener(func(s session.SaveStatus) {
		if s != session.StatusIdle {
			printlnFn("[" + statusLabel(s) + "]")
		}
	})
	journal.SetNoticeListener(func(msg string) { printlnFn(msg) })

	return app, nil
}

// Run drives the interactive session: restore or prompt for authentication,
// load entries, start the connectivity watcher, then hand control to the
// REPL. Blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Journal CLI (tapez 'help' pour les commandes)")

	if info := a.auth.Check(ctx); info.Authenticated {
		a.loggedIn = true
	} else {
		a.Login(ctx)
	}

	a.settings.Load(ctx)
	a.journal.LoadEntries(ctx)
	a.journal.SelectDate(time.Now().Format("2006-01-02"))

	go a.engine.StartOnlineWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close flushes any pending edit and releases the mirror database.
func (a *App) Close() {
	a.journal.Flush()
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

func (a *App) getStatus() string {
	st := a.engine.Status(context.Background())
	mode := "en ligne"
	if !st.Online {
		mode = "hors ligne"
	}
	s := fmt.Sprintf("%s %s", a.journal.SelectedDate(), mode)
	if st.QueueLength > 0 {
		s = fmt.Sprintf("%s, %d en attente", s, st.QueueLength)
	}
	return "(" + s + ")"
}

func statusLabel(s session.SaveStatus) string {
	switch s {
	case session.StatusSaving:
		return "sauvegarde..."
	case session.StatusSaved:
		return "sauvegardé"
	case session.StatusOffline:
		return "hors ligne"
	case session.StatusError:
		return "erreur"
	default:
		return string(s)
	}
}
