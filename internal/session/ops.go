package session

import "github.com/moodix/journal/internal/models"

// The edit surface is a closed set of typed operations. Every operation
// mutates the working copy in memory only; persistence happens through the
// debounced commit.

// ScoreField selects which of an activity's three scores to set.
type ScoreField string

const (
	ScorePlaisir      ScoreField = "plaisir"
	ScoreMaitrise     ScoreField = "maitrise"
	ScoreSatisfaction ScoreField = "satisfaction"
)

// CycleList selects one of a cycle's free-text sub-lists.
type CycleList string

const (
	CycleThoughts     CycleList = "thoughts"
	CycleBehaviors    CycleList = "behaviors"
	CycleConsequences CycleList = "consequences"
)

func (j *Journal) SetGeneralMood(mood string) {
	j.mutate(func(e *models.JournalEntry) { e.GeneralMood = mood })
}

func (j *Journal) SetDailyNote(note string) {
	j.mutate(func(e *models.JournalEntry) { e.DailyNote = note })
}

func (j *Journal) SetThoughts(text string) {
	j.mutate(func(e *models.JournalEntry) { e.Thoughts = text })
}

// AddBedtime inserts a bedtime keeping the list sorted ascending.
func (j *Journal) AddBedtime(t string) {
	j.mutate(func(e *models.JournalEntry) { e.Bedtime = insertSorted(e.Bedtime, t) })
}

func (j *Journal) RemoveBedtime(index int) {
	j.mutate(func(e *models.JournalEntry) { e.Bedtime = removeAt(e.Bedtime, index) })
}

// AddWakeup inserts a wakeup time keeping the list sorted ascending.
func (j *Journal) AddWakeup(t string) {
	j.mutate(func(e *models.JournalEntry) { e.Wakeup = insertSorted(e.Wakeup, t) })
}

func (j *Journal) RemoveWakeup(index int) {
	j.mutate(func(e *models.JournalEntry) { e.Wakeup = removeAt(e.Wakeup, index) })
}

// SetSleepHour marks one hour-of-day slot as slept or not. Out-of-range
// hours are ignored.
func (j *Journal) SetSleepHour(hour int, slept bool) {
	j.mutate(func(e *models.JournalEntry) {
		if hour >= 0 && hour < len(e.SleepHours) {
			e.SleepHours[hour] = slept
		}
	})
}

// AddConsumable appends a timestamped occurrence to the named consumable
// log. Unknown keys are ignored.
func (j *Journal) AddConsumable(key, t string) {
	j.mutate(func(e *models.JournalEntry) {
		log := e.ConsumableLog(key)
		if log == nil && !isConsumableKey(key) {
			return
		}
		e.SetConsumableLog(key, append(log, models.ConsumableEntry{Time: t}))
	})
}

func (j *Journal) RemoveConsumable(key string, index int) {
	j.mutate(func(e *models.JournalEntry) {
		log := e.ConsumableLog(key)
		if index < 0 || index >= len(log) {
			return
		}
		e.SetConsumableLog(key, append(log[:index:index], log[index+1:]...))
	})
}

// AddActivity opens a new blank activity row in the slot and returns its id.
// The blank row lives only in the working copy until it gets a name; the
// sanitizer strips it from every persisted copy.
func (j *Journal) AddActivity(slotIndex int) int64 {
	id := j.ids.Next()
	j.mutate(func(e *models.JournalEntry) {
		if slotIndex < 0 || slotIndex >= len(e.ActivityLog) {
			return
		}
		slot := &e.ActivityLog[slotIndex]
		slot.Activities = append(slot.Activities, models.Activity{
			ID: id, Plaisir: 5, Maitrise: 5, Satisfaction: 5,
		})
	})
	return id
}

func (j *Journal) SetActivityName(slotIndex int, activityID int64, name string) {
	j.mutate(func(e *models.JournalEntry) {
		if a := findActivity(e, slotIndex, activityID); a != nil {
			a.Name = name
		}
	})
}

// SetActivityScore sets one of the three scores, clamped to [0,10].
func (j *Journal) SetActivityScore(slotIndex int, activityID int64, field ScoreField, value int) {
	j.mutate(func(e *models.JournalEntry) {
		a := findActivity(e, slotIndex, activityID)
		if a == nil {
			return
		}
		v := clampScore(value)
		switch field {
		case ScorePlaisir:
			a.Plaisir = v
		case ScoreMaitrise:
			a.Maitrise = v
		case ScoreSatisfaction:
			a.Satisfaction = v
		}
	})
}

func (j *Journal) RemoveActivity(slotIndex int, activityID int64) {
	j.mutate(func(e *models.JournalEntry) {
		if slotIndex < 0 || slotIndex >= len(e.ActivityLog) {
			return
		}
		slot := &e.ActivityLog[slotIndex]
		kept := slot.Activities[:0:0]
		for _, a := range slot.Activities {
			if a.ID != activityID {
				kept = append(kept, a)
			}
		}
		slot.Activities = kept
	})
}

// AddCycle appends an empty vicious-cycle worksheet and returns its id.
func (j *Journal) AddCycle() int64 {
	id := j.ids.Next()
	j.mutate(func(e *models.JournalEntry) {
		e.ViciousCycles = append(e.ViciousCycles, models.ViciousCycle{
			ID:           id,
			Emotions:     []models.Emotion{},
			Thoughts:     []models.CycleItem{},
			Behaviors:    []models.CycleItem{},
			Consequences: []models.CycleItem{},
		})
	})
	return id
}

func (j *Journal) SetCycleSituation(cycleID int64, situation string) {
	j.mutate(func(e *models.JournalEntry) {
		if c := findCycle(e, cycleID); c != nil {
			c.Situation = situation
		}
	})
}

func (j *Journal) RemoveCycle(cycleID int64) {
	j.mutate(func(e *models.JournalEntry) {
		kept := e.ViciousCycles[:0:0]
		for _, c := range e.ViciousCycles {
			if c.ID != cycleID {
				kept = append(kept, c)
			}
		}
		e.ViciousCycles = kept
	})
}

// AddEmotion appends a scored emotion to a cycle and returns its id.
func (j *Journal) AddEmotion(cycleID int64, name string, score int) int64 {
	id := j.ids.Next()
	j.mutate(func(e *models.JournalEntry) {
		if c := findCycle(e, cycleID); c != nil {
			c.Emotions = append(c.Emotions, models.Emotion{ID: id, Name: name, Score: clampScore(score)})
		}
	})
	return id
}

func (j *Journal) SetEmotion(cycleID, emotionID int64, name string, score int) {
	j.mutate(func(e *models.JournalEntry) {
		c := findCycle(e, cycleID)
		if c == nil {
			return
		}
		for i := range c.Emotions {
			if c.Emotions[i].ID == emotionID {
				c.Emotions[i].Name = name
				c.Emotions[i].Score = clampScore(score)
				return
			}
		}
	})
}

func (j *Journal) RemoveEmotion(cycleID, emotionID int64) {
	j.mutate(func(e *models.JournalEntry) {
		c := findCycle(e, cycleID)
		if c == nil {
			return
		}
		kept := c.Emotions[:0:0]
		for _, em := range c.Emotions {
			if em.ID != emotionID {
				kept = append(kept, em)
			}
		}
		c.Emotions = kept
	})
}

// AddCycleItem appends a free-text item to one of the cycle's lists and
// returns its id.
func (j *Journal) AddCycleItem(cycleID int64, list CycleList, text string) int64 {
	id := j.ids.Next()
	j.mutate(func(e *models.JournalEntry) {
		c := findCycle(e, cycleID)
		if c == nil {
			return
		}
		items := cycleItems(c, list)
		if items == nil {
			return
		}
		*items = append(*items, models.CycleItem{ID: id, Text: text})
	})
	return id
}

func (j *Journal) SetCycleItem(cycleID int64, list CycleList, itemID int64, text string) {
	j.mutate(func(e *models.JournalEntry) {
		c := findCycle(e, cycleID)
		if c == nil {
			return
		}
		items := cycleItems(c, list)
		if items == nil {
			return
		}
		for i := range *items {
			if (*items)[i].ID == itemID {
				(*items)[i].Text = text
				return
			}
		}
	})
}

func (j *Journal) RemoveCycleItem(cycleID int64, list CycleList, itemID int64) {
	j.mutate(func(e *models.JournalEntry) {
		c := findCycle(e, cycleID)
		if c == nil {
			return
		}
		items := cycleItems(c, list)
		if items == nil {
			return
		}
		kept := (*items)[:0:0]
		for _, it := range *items {
			if it.ID != itemID {
				kept = append(kept, it)
			}
		}
		*items = kept
	})
}

func findActivity(e *models.JournalEntry, slotIndex int, id int64) *models.Activity {
	if slotIndex < 0 || slotIndex >= len(e.ActivityLog) {
		return nil
	}
	slot := &e.ActivityLog[slotIndex]
	for i := range slot.Activities {
		if slot.Activities[i].ID == id {
			return &slot.Activities[i]
		}
	}
	return nil
}

func findCycle(e *models.JournalEntry, id int64) *models.ViciousCycle {
	for i := range e.ViciousCycles {
		if e.ViciousCycles[i].ID == id {
			return &e.ViciousCycles[i]
		}
	}
	return nil
}

func cycleItems(c *models.ViciousCycle, list CycleList) *[]models.CycleItem {
	switch list {
	case CycleThoughts:
		return &c.Thoughts
	case CycleBehaviors:
		return &c.Behaviors
	case CycleConsequences:
		return &c.Consequences
	}
	return nil
}

func isConsumableKey(key string) bool {
	for _, k := range models.ConsumableKeys {
		if k == key {
			return true
		}
	}
	return false
}

func removeAt(s []string, i int) []string {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i:i], s[i+1:]...)
}
