package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/moodix/journal/internal/models"
)

// Show renders the currently selected entry.
func (a *App) Show(ctx context.Context) {
	e := a.journal.Current()
	if e.Date == "" {
		printlnFn("Aucun jour sélectionné.")
		return
	}

	printlnFn(fmt.Sprintf("== %s %s ==", e.Day, e.Date))
	if e.GeneralMood != "" {
		printlnFn("Humeur:", e.GeneralMood+"/10")
	}
	if len(e.Bedtime) > 0 {
		printlnFn("Coucher:", strings.Join(e.Bedtime, ", "))
	}
	if len(e.Wakeup) > 0 {
		printlnFn("Réveil:", strings.Join(e.Wakeup, ", "))
	}
	if n := countTrue(e.SleepHours); n > 0 {
		printlnFn("Sommeil:", n, "heure(s)")
	}

	for _, key := range models.ConsumableKeys {
		log := e.ConsumableLog(key)
		if len(log) == 0 {
			continue
		}
		times := make([]string, len(log))
		for i, c := range log {
			times[i] = c.Time
		}
		printlnFn(key+":", strings.Join(times, ", "))
	}

	for i, slot := range e.ActivityLog {
		if len(slot.Activities) == 0 {
			continue
		}
		printlnFn(fmt.Sprintf("[%d] %s", i, slot.Slot))
		for _, act := range slot.Activities {
			name := act.Name
			if strings.TrimSpace(name) == "" {
				name = "(sans nom)"
			}
			printlnFn(fmt.Sprintf("    #%d %s  P%d M%d S%d", act.ID, name, act.Plaisir, act.Maitrise, act.Satisfaction))
		}
	}

	for _, c := range e.ViciousCycles {
		printlnFn(fmt.Sprintf("Cycle #%d: %s", c.ID, c.Situation))
	}

	if e.DailyNote != "" {
		printlnFn("Note:", e.DailyNote)
	}
	if e.Thoughts != "" {
		printlnFn("Pensées:", e.Thoughts)
	}
}

func countTrue(bs []bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
