package models

import (
	"encoding/json"
	"slices"
)

// ConsumableEntry is one timestamped occurrence of a trackable consumable
// (caffeine, medication, exercise, ...).
type ConsumableEntry struct {
	Time string `json:"time"`
}

// Activity is one logged activity inside a time slot. The three scores are
// integers in [0,10].
type Activity struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Plaisir      int    `json:"plaisir"`
	Maitrise     int    `json:"maitrise"`
	Satisfaction int    `json:"satisfaction"`
}

// ActivitySlot groups the activities logged in one named time-of-day bucket.
type ActivitySlot struct {
	Slot       string     `json:"slot"`
	Activities []Activity `json:"activities"`
}

// Emotion is a named, scored emotion inside a vicious cycle.
type Emotion struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// CycleItem is a free-text item in one of a cycle's thought/behavior/
// consequence lists.
type CycleItem struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ViciousCycle is one CBT worksheet record: a triggering situation and its
// linked emotions, thoughts, behaviors and consequences. Item ids are unique
// within their own list only.
type ViciousCycle struct {
	ID           int64       `json:"id"`
	Situation    string      `json:"situation"`
	Emotions     []Emotion   `json:"emotions"`
	Thoughts     []CycleItem `json:"thoughts"`
	Behaviors    []CycleItem `json:"behaviors"`
	Consequences []CycleItem `json:"consequences"`
}

// SleepHourCount is the fixed length of JournalEntry.SleepHours, one boolean
// per hour-of-day slot.
const SleepHourCount = 24

// JournalEntry is one calendar day's full journal record, keyed by its
// YYYY-MM-DD date. Day is display-derived from Date and recomputed on load.
type JournalEntry struct {
	Date          string            `json:"date"`
	Day           string            `json:"day"`
	Bedtime       []string          `json:"bedtime"`
	Wakeup        []string          `json:"wakeup"`
	SleepHours    []bool            `json:"sleepHours"`
	Exercise      []ConsumableEntry `json:"exercise"`
	Caffeine      []ConsumableEntry `json:"caffeine"`
	Cannabis      []ConsumableEntry `json:"cannabis"`
	Medication    []ConsumableEntry `json:"medication"`
	Custom        []ConsumableEntry `json:"custom"`
	ActivityLog   []ActivitySlot    `json:"activityLog"`
	ViciousCycles []ViciousCycle    `json:"viciousCycles"`
	GeneralMood   string            `json:"generalMood"`
	DailyNote     string            `json:"dailyNote"`
	Thoughts      string            `json:"thoughts"`
}

// Entries is the full set of known journal entries keyed by date.
type Entries map[string]JournalEntry

// ConsumableKeys is the closed set of consumable log names on a JournalEntry.
var ConsumableKeys = []string{"exercise", "caffeine", "cannabis", "medication", "custom"}

// ConsumableLog returns the consumable log for key, or nil for an unknown key.
func (e *JournalEntry) ConsumableLog(key string) []ConsumableEntry {
	switch key {
	case "exercise":
		return e.Exercise
	case "caffeine":
		return e.Caffeine
	case "cannabis":
		return e.Cannabis
	case "medication":
		return e.Medication
	case "custom":
		return e.Custom
	}
	return nil
}

// SetConsumableLog replaces the consumable log for key. Unknown keys are
// ignored, keeping the field set closed.
func (e *JournalEntry) SetConsumableLog(key string, log []ConsumableEntry) {
	switch key {
	case "exercise":
		e.Exercise = log
	case "caffeine":
		e.Caffeine = log
	case "cannabis":
		e.Cannabis = log
	case "medication":
		e.Medication = log
	case "custom":
		e.Custom = log
	}
}

// Clone returns a deep copy of the entry. Mutating the copy never affects the
// original, including nested activity and cycle lists. Nil-ness of every list
// is preserved so a clone still serializes identically to its source.
func (e JournalEntry) Clone() JournalEntry {
	out := e
	out.Bedtime = slices.Clone(e.Bedtime)
	out.Wakeup = slices.Clone(e.Wakeup)
	out.SleepHours = slices.Clone(e.SleepHours)
	out.Exercise = slices.Clone(e.Exercise)
	out.Caffeine = slices.Clone(e.Caffeine)
	out.Cannabis = slices.Clone(e.Cannabis)
	out.Medication = slices.Clone(e.Medication)
	out.Custom = slices.Clone(e.Custom)

	if e.ActivityLog != nil {
		out.ActivityLog = make([]ActivitySlot, len(e.ActivityLog))
		for i, slot := range e.ActivityLog {
			out.ActivityLog[i] = ActivitySlot{
				Slot:       slot.Slot,
				Activities: slices.Clone(slot.Activities),
			}
		}
	}

	if e.ViciousCycles != nil {
		out.ViciousCycles = make([]ViciousCycle, len(e.ViciousCycles))
		for i, c := range e.ViciousCycles {
			out.ViciousCycles[i] = ViciousCycle{
				ID:           c.ID,
				Situation:    c.Situation,
				Emotions:     slices.Clone(c.Emotions),
				Thoughts:     slices.Clone(c.Thoughts),
				Behaviors:    slices.Clone(c.Behaviors),
				Consequences: slices.Clone(c.Consequences),
			}
		}
	}
	return out
}

// Equal reports whether two entries serialize identically. Used as the
// redundant-commit gate before scheduling an auto-save.
func (e JournalEntry) Equal(other JournalEntry) bool {
	a, errA := json.Marshal(e)
	b, errB := json.Marshal(other)
	if errA != nil || errB != nil {
		return false
	}
	return string(a) == string(b)
}
