package session

import (
	"context"
	"sync"

	"github.com/moodix/journal/internal/gateway"
	"github.com/moodix/journal/internal/logging"
	"github.com/moodix/journal/internal/mirror"
	"github.com/moodix/journal/internal/models"
)

// SettingsService owns the user preference object. Settings sync is
// best-effort on both directions and carries none of the save pipeline's
// durability guarantees.
type SettingsService struct {
	gw    gateway.Client
	store *mirror.Store
	log   logging.Logger

	mu      sync.Mutex
	current models.Settings
}

func NewSettingsService(gw gateway.Client, store *mirror.Store, log logging.Logger) *SettingsService {
	return &SettingsService{gw: gw, store: store, log: log, current: models.DefaultSettings()}
}

// Load pulls remote settings when available, otherwise falls back to the
// mirrored copy, otherwise keeps defaults. Remote consumables are merged
// over the defaults so entries added to the default set since the user last
// saved still show up, with default colors when the remote copy lacks them.
func (s *SettingsService) Load(ctx context.Context) {
	remote := s.gw.FetchSettings(ctx)
	if remote == nil {
		if local := s.store.ReadSettings(ctx); local != nil {
			s.mu.Lock()
			s.current = *local
			s.mu.Unlock()
		}
		return
	}

	merged := mergeSettings(models.DefaultSettings(), *remote)
	s.mu.Lock()
	s.current = merged
	s.mu.Unlock()
	s.store.WriteSettings(ctx, merged)
}

// Current returns the active settings.
func (s *SettingsService) Current() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update applies a mutation, mirrors the result, and pushes it to the
// server best-effort.
func (s *SettingsService) Update(ctx context.Context, apply func(*models.Settings)) {
	s.mu.Lock()
	apply(&s.current)
	updated := s.current
	s.mu.Unlock()

	s.store.WriteSettings(ctx, updated)
	s.gw.PushSettings(ctx, updated)
}

func mergeSettings(defaults, remote models.Settings) models.Settings {
	out := remote
	if out.Lang == "" {
		out.Lang = defaults.Lang
	}
	if out.Theme == "" {
		out.Theme = defaults.Theme
	}
	if out.ColorScheme == "" {
		out.ColorScheme = defaults.ColorScheme
	}
	if out.NotificationTime == "" {
		out.NotificationTime = defaults.NotificationTime
	}

	merged := make([]models.Consumable, len(defaults.Consumables))
	for i, def := range defaults.Consumables {
		merged[i] = def
		if i < len(remote.Consumables) {
			rc := remote.Consumables[i]
			merged[i] = rc
			// Colors were introduced after the first deployments; old
			// remote copies carry none.
			if rc.Color == "" {
				merged[i].Color = def.Color
			}
			if rc.Bg == "" {
				merged[i].Bg = def.Bg
			}
		}
	}
	out.Consumables = merged
	return out
}
