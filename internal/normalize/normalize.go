// Package normalize reconciles server-shaped journal entries with the
// client's canonical shape. OnLoad is total: whatever the server (or an old
// localStorage dump) returns, every key in the input yields a structurally
// valid entry. ForPersist prepares an entry for storage without mutating the
// caller's working copy.
package normalize

import (
	"strings"
	"time"

	"github.com/moodix/journal/internal/models"
)

var dayNames = map[string][7]string{
	"fr": {"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi"},
	"en": {"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
}

// DayName derives the display day name from a YYYY-MM-DD date and a language
// code. Unknown languages fall back to French, unparsable dates to "".
func DayName(date, lang string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	names, ok := dayNames[lang]
	if !ok {
		names = dayNames["fr"]
	}
	return names[int(t.Weekday())]
}

// EmptyEntry builds the default entry synthesized the first time a date is
// selected: empty lists everywhere and one activity slot per configured
// time-slot label.
func EmptyEntry(date, lang string, slots []string) models.JournalEntry {
	log := make([]models.ActivitySlot, len(slots))
	for i, s := range slots {
		log[i] = models.ActivitySlot{Slot: s, Activities: []models.Activity{}}
	}
	return models.JournalEntry{
		Date:          date,
		Day:           DayName(date, lang),
		Bedtime:       []string{},
		Wakeup:        []string{},
		SleepHours:    make([]bool, models.SleepHourCount),
		Exercise:      []models.ConsumableEntry{},
		Caffeine:      []models.ConsumableEntry{},
		Cannabis:      []models.ConsumableEntry{},
		Medication:    []models.ConsumableEntry{},
		Custom:        []models.ConsumableEntry{},
		ActivityLog:   log,
		ViciousCycles: []models.ViciousCycle{},
	}
}

// OnLoad converts a bulk-loaded map of raw entries into canonical Entries.
// For every key present in raw it produces a valid JournalEntry: day is
// re-derived from the date, absent or malformed fields become defaults, and
// the legacy "timeSlots" activity log is remapped onto "activityLog".
func OnLoad(raw map[string]RawEntry, lang string, slots []string) models.Entries {
	out := make(models.Entries, len(raw))
	for date, re := range raw {
		out[date] = canonical(date, re, lang, slots)
	}
	return out
}

func canonical(date string, re RawEntry, lang string, slots []string) models.JournalEntry {
	e := models.JournalEntry{
		Date:          date,
		Day:           DayName(date, lang),
		Bedtime:       orEmptyStrings(re.Bedtime),
		Wakeup:        orEmptyStrings(re.Wakeup),
		SleepHours:    re.SleepHours,
		Exercise:      orEmptyConsumables(re.Exercise),
		Caffeine:      orEmptyConsumables(re.Caffeine),
		Cannabis:      orEmptyConsumables(re.Cannabis),
		Medication:    orEmptyConsumables(re.Medication),
		Custom:        orEmptyConsumables(re.Custom),
		ViciousCycles: cyclesWithLists(re.ViciousCycles),
		GeneralMood:   re.GeneralMood,
		DailyNote:     re.DailyNote,
		Thoughts:      re.Thoughts,
	}
	if len(e.SleepHours) != models.SleepHourCount {
		e.SleepHours = make([]bool, models.SleepHourCount)
	}
	e.ActivityLog = resolveActivityLog(re, slots)
	return e
}

// resolveActivityLog prefers the current activityLog field; if it is empty it
// remaps legacy timeSlots records ("time" label instead of "slot"); if
// neither yields anything it synthesizes one empty record per configured
// slot label.
func resolveActivityLog(re RawEntry, slots []string) []models.ActivitySlot {
	src := re.ActivityLog
	if len(src) == 0 {
		src = re.TimeSlots
	}
	if len(src) == 0 {
		out := make([]models.ActivitySlot, len(slots))
		for i, s := range slots {
			out[i] = models.ActivitySlot{Slot: s, Activities: []models.Activity{}}
		}
		return out
	}
	out := make([]models.ActivitySlot, len(src))
	for i, rs := range src {
		label := rs.Slot
		if label == "" {
			label = rs.Time
		}
		if label == "" {
			label = "0:00"
		}
		acts := rs.Activities
		if acts == nil {
			acts = []models.Activity{}
		}
		out[i] = models.ActivitySlot{Slot: label, Activities: acts}
	}
	return out
}

// ForPersist returns a copy of the entry whose activity slots no longer
// contain activities with an empty trimmed name. The argument is not
// mutated; the in-memory working copy keeps its blank rows so a freshly
// added activity stays open in the UI.
func ForPersist(e models.JournalEntry) models.JournalEntry {
	out := e
	out.ActivityLog = make([]models.ActivitySlot, len(e.ActivityLog))
	for i, slot := range e.ActivityLog {
		kept := make([]models.Activity, 0, len(slot.Activities))
		for _, a := range slot.Activities {
			if strings.TrimSpace(a.Name) != "" {
				kept = append(kept, a)
			}
		}
		out.ActivityLog[i] = models.ActivitySlot{Slot: slot.Slot, Activities: kept}
	}
	return out
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyConsumables(s []models.ConsumableEntry) []models.ConsumableEntry {
	if s == nil {
		return []models.ConsumableEntry{}
	}
	return s
}

// cyclesWithLists defaults every nil sub-list inside loaded cycles so the
// canonical shape never carries nil lists.
func cyclesWithLists(cycles []models.ViciousCycle) []models.ViciousCycle {
	if cycles == nil {
		return []models.ViciousCycle{}
	}
	out := make([]models.ViciousCycle, len(cycles))
	for i, c := range cycles {
		if c.Emotions == nil {
			c.Emotions = []models.Emotion{}
		}
		if c.Thoughts == nil {
			c.Thoughts = []models.CycleItem{}
		}
		if c.Behaviors == nil {
			c.Behaviors = []models.CycleItem{}
		}
		if c.Consequences == nil {
			c.Consequences = []models.CycleItem{}
		}
		out[i] = c
	}
	return out
}
