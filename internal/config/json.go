package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/moodix/journal/internal/flagx"
	"github.com/moodix/journal/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file can write them as strings like "1500ms" or as
// integer nanoseconds.
type JsonConfig struct {
	ServerBaseURL       string         `json:"server_base_url"`
	MirrorDBPath        string         `json:"mirror_db_path"`
	Lang                string         `json:"lang"`
	TimeSlots           []string       `json:"time_slots"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	DebounceDelay       timex.Duration `json:"debounce_delay"`
	SettleDelay         timex.Duration `json:"settle_delay"`
	RetryBaseDelay      timex.Duration `json:"retry_base_delay"`
	MaxRetries          *uint64        `json:"max_retries"`
}

// parseJson overlays cfg with values from the JSON file named by the -c or
// -config flag. Absent flag means no JSON is loaded. Fields the file does not
// set keep their current values; read or unmarshal errors panic because a
// present-but-broken config file is not something to silently skip.
func parseJson(cfg *Config) {
	path := flagx.ConfigFilePath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.MirrorDBPath != "" {
		cfg.MirrorDBPath = jc.MirrorDBPath
	}
	if jc.Lang != "" {
		cfg.Lang = jc.Lang
	}
	if len(jc.TimeSlots) > 0 {
		cfg.TimeSlots = jc.TimeSlots
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = time.Duration(jc.OnlineCheckInterval.Duration)
	}
	if jc.DebounceDelay.Duration > 0 {
		cfg.DebounceDelay = time.Duration(jc.DebounceDelay.Duration)
	}
	if jc.SettleDelay.Duration > 0 {
		cfg.SettleDelay = time.Duration(jc.SettleDelay.Duration)
	}
	if jc.RetryBaseDelay.Duration > 0 {
		cfg.RetryBaseDelay = time.Duration(jc.RetryBaseDelay.Duration)
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
}
