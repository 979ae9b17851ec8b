package gateway

import (
	"io"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/models"
)

func newClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c, err := New(srv.URL, log)
	require.NoError(t, err)
	return c
}

func TestCheckSession(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/check-auth", r.URL.Path)
			require.NotEmpty(t, r.Header.Get("X-Request-ID"))
			_ = json.NewEncoder(w).Encode(models.SessionInfo{Authenticated: true, UserID: 7})
		}))
		info := c.CheckSession(context.Background())
		require.True(t, info.Authenticated)
		require.EqualValues(t, 7, info.UserID)
	})

	t.Run("non-2xx means unauthenticated", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		require.False(t, c.CheckSession(context.Background()).Authenticated)
	})

	t.Run("transport error means unauthenticated", func(t *testing.T) {
		log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
		c, err := New("http://127.0.0.1:1", log)
		require.NoError(t, err)
		require.False(t, c.CheckSession(context.Background()).Authenticated)
	})
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			var creds map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
			if creds["username"] != "alex" || creds["password"] != "s3cret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok"})
		case "/api/entries":
			cookie, err := r.Cookie("session")
			if err != nil || cookie.Value != "tok" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{}`))
		}
	}))

	ctx := context.Background()
	require.False(t, c.Login(ctx, "alex", "wrong"))

	_, err := c.FetchAllEntries(ctx)
	require.ErrorIs(t, err, ErrUnauthorized)

	require.True(t, c.Login(ctx, "alex", "s3cret"))
	raw, err := c.FetchAllEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestFetchAllEntries(t *testing.T) {
	t.Run("decodes raw shapes including legacy fields", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{
				"2024-01-01": {"timeSlots": [{"time": "08:00", "activities": []}]},
				"2024-01-02": {"bedtime": "23:30", "generalMood": 7}
			}`))
		}))
		raw, err := c.FetchAllEntries(context.Background())
		require.NoError(t, err)
		require.Len(t, raw, 2)
		require.Equal(t, "08:00", raw["2024-01-01"].TimeSlots[0].Time)
		require.Equal(t, []string{"23:30"}, raw["2024-01-02"].Bedtime)
		require.Equal(t, "7", raw["2024-01-02"].GeneralMood)
	})

	t.Run("401 is ErrUnauthorized", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		_, err := c.FetchAllEntries(context.Background())
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("other failures are plain errors", func(t *testing.T) {
		c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		_, err := c.FetchAllEntries(context.Background())
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrUnauthorized)
	})
}

// upsertServer stores entries by date, mimicking the server's idempotent
// upsert semantics.
func upsertServer(t *testing.T, stored map[string]models.JournalEntry) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var e models.JournalEntry
		require.NoError(t, json.NewDecoder(r.Body).Decode(&e))
		stored[e.Date] = e
	})
}

func TestUpsertEntry_Idempotent(t *testing.T) {
	stored := map[string]models.JournalEntry{}
	c := newClient(t, upsertServer(t, stored))
	ctx := context.Background()

	entry := models.JournalEntry{Date: "2024-01-01", GeneralMood: "7"}
	require.True(t, c.UpsertEntry(ctx, entry))
	after1 := stored["2024-01-01"]

	require.True(t, c.UpsertEntry(ctx, entry))
	require.Len(t, stored, 1)
	require.Equal(t, after1, stored["2024-01-01"])
}

func TestUpsertEntry_Failure(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	require.False(t, c.UpsertEntry(context.Background(), models.JournalEntry{Date: "2024-01-01"}))
}

func TestSettings_RoundTrip(t *testing.T) {
	var pushed *models.Settings
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/settings", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			var s models.Settings
			require.NoError(t, json.NewDecoder(r.Body).Decode(&s))
			pushed = &s
		case http.MethodGet:
			if pushed == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(pushed)
		}
	}))
	ctx := context.Background()

	require.Nil(t, c.FetchSettings(ctx))

	c.PushSettings(ctx, models.Settings{Lang: "en"})
	got := c.FetchSettings(ctx)
	require.NotNil(t, got)
	require.Equal(t, "en", got.Lang)
}

func TestPing(t *testing.T) {
	healthy := true
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))
	healthy = false
	require.Error(t, c.Ping(ctx))
}
