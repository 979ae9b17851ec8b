package models

// Consumable describes one configurable consumable tracker shown in the UI.
type Consumable struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Icon   string `json:"icon"`
	Active bool   `json:"active"`
	Color  string `json:"color"`
	Bg     string `json:"bg"`
	Border string `json:"border"`
}

// Settings is the per-user preference object, synced best-effort alongside
// the journal data.
type Settings struct {
	Lang                 string       `json:"lang"`
	Theme                string       `json:"theme"`
	ColorScheme          string       `json:"colorScheme"`
	NotificationsEnabled bool         `json:"notificationsEnabled"`
	NotificationTime     string       `json:"notificationTime"`
	Consumables          []Consumable `json:"consumables"`
}

// DefaultSettings returns the settings applied before anything has been
// loaded from the server or the local mirror.
func DefaultSettings() Settings {
	return Settings{
		Lang:             "fr",
		Theme:            "dark",
		ColorScheme:      "violet",
		NotificationTime: "20:00",
		Consumables: []Consumable{
			{Key: "exercise", Label: "Exercice", Icon: "dumbbell", Active: true,
				Color: "var(--icon-exercise)", Bg: "color-mix(in srgb, var(--icon-exercise) 20%, transparent)"},
			{Key: "caffeine", Label: "Caféine", Icon: "coffee", Active: true,
				Color: "var(--icon-caffeine)", Bg: "color-mix(in srgb, var(--icon-caffeine) 20%, transparent)"},
			{Key: "cannabis", Label: "Cannabis", Icon: "leaf", Active: true,
				Color: "var(--icon-cannabis)", Bg: "color-mix(in srgb, var(--icon-cannabis) 20%, transparent)"},
			{Key: "medication", Label: "Médication", Icon: "pill", Active: true,
				Color: "var(--icon-medication)", Bg: "color-mix(in srgb, var(--icon-medication) 20%, transparent)"},
			{Key: "custom", Label: "Autre", Icon: "star", Active: false,
				Color: "var(--icon-custom)", Bg: "color-mix(in srgb, var(--icon-custom) 20%, transparent)"},
		},
	}
}

// SessionInfo is the authentication boundary contract: who is the caller,
// according to the server.
type SessionInfo struct {
	Authenticated bool  `json:"authenticated"`
	IsAdmin       bool  `json:"is_admin,omitempty"`
	UserID        int64 `json:"user_id,omitempty"`
}
