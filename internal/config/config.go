// Package config assembles the client runtime configuration from defaults,
// an optional JSON file and command-line flags, in that order of precedence.
package config

import (
	"time"

	"github.com/moodix/journal/internal/models"
)

// Config holds runtime settings for the journal CLI.
type Config struct {
	// ServerBaseURL is the base URL of the journal backend, e.g.
	// "http://127.0.0.1:5001". Route paths are appended to it verbatim.
	ServerBaseURL string

	// MirrorDBPath is the sqlite file backing the local mirror.
	MirrorDBPath string

	// Lang selects the display language for derived day names ("fr"/"en").
	Lang string

	// TimeSlots are the activity-slot labels synthesized into new entries.
	TimeSlots []string

	// OnlineCheckInterval is how often the client probes server reachability.
	OnlineCheckInterval time.Duration

	// DebounceDelay is the quiet period after the last edit before a save.
	DebounceDelay time.Duration

	// SettleDelay is how long a save status stays visible before idling.
	SettleDelay time.Duration

	// RetryBaseDelay seeds the exponential backoff between save attempts;
	// MaxRetries bounds the retries after the initial attempt.
	RetryBaseDelay time.Duration
	MaxRetries     uint64
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:5001"
	c.MirrorDBPath = "journal.db"
	c.Lang = "fr"
	c.TimeSlots = models.DefaultTimeSlots
	c.OnlineCheckInterval = 3 * time.Second
	c.DebounceDelay = 1500 * time.Millisecond
	c.SettleDelay = 2 * time.Second
	c.RetryBaseDelay = time.Second
	c.MaxRetries = 3
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
