package normalize

import (
	"encoding/json"

	"github.com/moodix/journal/internal/models"
)

// RawSlot is a server-shaped activity slot. Current payloads carry the slot
// label in "slot", legacy ones in "time".
type RawSlot struct {
	Slot       string            `json:"slot"`
	Time       string            `json:"time"`
	Activities []models.Activity `json:"activities"`
}

// RawEntry is a server-shaped journal entry as returned by the bulk load.
// Decoding is total: any field of the wrong shape decodes to its zero value
// instead of failing, so one malformed record can never break a load.
type RawEntry struct {
	Day           string
	Bedtime       []string
	Wakeup        []string
	SleepHours    []bool
	Exercise      []models.ConsumableEntry
	Caffeine      []models.ConsumableEntry
	Cannabis      []models.ConsumableEntry
	Medication    []models.ConsumableEntry
	Custom        []models.ConsumableEntry
	ActivityLog   []RawSlot
	TimeSlots     []RawSlot
	ViciousCycles []models.ViciousCycle
	GeneralMood   string
	DailyNote     string
	Thoughts      string
}

// UnmarshalJSON decodes field by field, best-effort. A value that is not an
// object leaves the entry zero-valued; a field of an unexpected shape is
// dropped. It never returns an error.
func (r *RawEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	r.Day = decodeString(fields["day"])
	r.Bedtime = decodeTimes(fields["bedtime"])
	r.Wakeup = decodeTimes(fields["wakeup"])
	r.SleepHours = decodeBools(fields["sleepHours"])
	r.Exercise = decodeConsumables(fields["exercise"])
	r.Caffeine = decodeConsumables(fields["caffeine"])
	r.Cannabis = decodeConsumables(fields["cannabis"])
	r.Medication = decodeConsumables(fields["medication"])
	r.Custom = decodeConsumables(fields["custom"])
	r.ActivityLog = decodeSlots(fields["activityLog"])
	r.TimeSlots = decodeSlots(fields["timeSlots"])
	r.ViciousCycles = decodeCycles(fields["viciousCycles"])
	r.GeneralMood = decodeString(fields["generalMood"])
	r.DailyNote = decodeString(fields["dailyNote"])
	r.Thoughts = decodeString(fields["thoughts"])
	return nil
}

// decodeTimes accepts a list of time strings or a bare scalar time string.
// The scalar form appears in early entries where bedtime/wakeup were single
// values.
func decodeTimes(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return []string{one}
	}
	return nil
}

func decodeBools(raw json.RawMessage) []bool {
	if len(raw) == 0 {
		return nil
	}
	var out []bool
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeConsumables(raw json.RawMessage) []models.ConsumableEntry {
	if len(raw) == 0 {
		return nil
	}
	var out []models.ConsumableEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeSlots(raw json.RawMessage) []RawSlot {
	if len(raw) == 0 {
		return nil
	}
	var out []RawSlot
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func decodeCycles(raw json.RawMessage) []models.ViciousCycle {
	if len(raw) == 0 {
		return nil
	}
	var out []models.ViciousCycle
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// decodeString accepts a string or a number; the mood field in particular has
// been stored both ways.
func decodeString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
