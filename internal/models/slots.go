package models

// DefaultTimeSlots is the default activity-log grid: one slot every two
// hours through the waking day. Deployments can override it in config.
var DefaultTimeSlots = []string{
	"8:00", "10:00", "12:00", "14:00", "16:00", "18:00", "20:00", "22:00",
}
