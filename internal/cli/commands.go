package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/moodix/journal/internal/session"
)

func (a *App) Login(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Nom d'utilisateur", os.Stdout)
	if err != nil {
		printlnFn("erreur:", err)
		return
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		printlnFn("erreur:", err)
		return
	}

	if !a.auth.Login(ctx, username, password) {
		printlnFn("Connexion refusée. Le journal reste consultable hors ligne.")
		return
	}
	printlnFn("Connecté.")
	a.loggedIn = true
	a.settings.Load(ctx)
	a.journal.LoadEntries(ctx)
}

func (a *App) Logout(ctx context.Context) {
	a.journal.Flush()
	a.auth.Logout(ctx)
	a.loggedIn = false
	printlnFn("Déconnecté.")
}

func (a *App) GoToDate(ctx context.Context, args []string) {
	date := time.Now().Format("2006-01-02")
	if len(args) > 0 {
		if _, err := time.Parse("2006-01-02", args[0]); err != nil {
			printlnFn("Usage: date <AAAA-MM-JJ>")
			return
		}
		date = args[0]
	}
	a.journal.SelectDate(date)
	a.Show(ctx)
}

func (a *App) ShiftDate(ctx context.Context, delta int) {
	a.journal.ChangeDate(delta)
	a.Show(ctx)
}

func (a *App) Mood(args []string) {
	if len(args) != 1 {
		printlnFn("Usage: mood <1-10>")
		return
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		printlnFn("Usage: mood <1-10>")
		return
	}
	a.journal.SetGeneralMood(args[0])
}

func (a *App) Note(args []string) {
	a.journal.SetDailyNote(strings.Join(args, " "))
}

func (a *App) Thoughts(args []string) {
	a.journal.SetThoughts(strings.Join(args, " "))
}

func (a *App) Bed(args []string) {
	a.timeList(args, "bed", a.journal.AddBedtime, a.journal.RemoveBedtime)
}

func (a *App) Wake(args []string) {
	a.timeList(args, "wake", a.journal.AddWakeup, a.journal.RemoveWakeup)
}

func (a *App) timeList(args []string, name string, add func(string), remove func(int)) {
	switch {
	case len(args) == 1:
		add(args[0])
	case len(args) == 2 && args[0] == "rm":
		i, err := strconv.Atoi(args[1])
		if err != nil {
			printlnFn("Usage:", name, "rm <index>")
			return
		}
		remove(i)
	default:
		printlnFn("Usage:", name, "<hh:mm> |", name, "rm <index>")
	}
}

func (a *App) Sleep(args []string) {
	if len(args) != 1 {
		printlnFn("Usage: sleep <0-23>")
		return
	}
	hour, err := strconv.Atoi(args[0])
	if err != nil || hour < 0 || hour > 23 {
		printlnFn("Usage: sleep <0-23>")
		return
	}
	hours := a.journal.Current().SleepHours
	slept := hour < len(hours) && hours[hour]
	a.journal.SetSleepHour(hour, !slept)
}

func (a *App) Take(args []string) {
	if len(args) != 2 {
		printlnFn("Usage: take <type> <hh:mm>")
		return
	}
	a.journal.AddConsumable(args[0], args[1])
}

func (a *App) Act(args []string) {
	usage := func() { printlnFn("Usage: act add <slot> | act name <slot> <id> <nom> | act score <slot> <id> <champ> <0-10> | act rm <slot> <id>") }
	if len(args) < 2 {
		usage()
		return
	}
	slot, err := strconv.Atoi(args[1])
	if err != nil {
		usage()
		return
	}

	switch args[0] {
	case "add":
		id := a.journal.AddActivity(slot)
		printlnFn("Activité ajoutée, id", id)
	case "name":
		if len(args) < 4 {
			usage()
			return
		}
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			usage()
			return
		}
		a.journal.SetActivityName(slot, id, strings.Join(args[3:], " "))
	case "score":
		if len(args) != 5 {
			usage()
			return
		}
		id, err1 := strconv.ParseInt(args[2], 10, 64)
		value, err2 := strconv.Atoi(args[4])
		if err1 != nil || err2 != nil {
			usage()
			return
		}
		a.journal.SetActivityScore(slot, id, session.ScoreField(args[3]), value)
	case "rm":
		if len(args) != 3 {
			usage()
			return
		}
		id, err := strconv.ParseInt(args[2], 10, 64)
		if err != nil {
			usage()
			return
		}
		a.journal.RemoveActivity(slot, id)
	default:
		usage()
	}
}

func (a *App) Cycle(args []string) {
	usage := func() { printlnFn("Usage: cycle add | cycle sit <id> <texte> | cycle rm <id>") }
	if len(args) == 0 {
		usage()
		return
	}
	switch args[0] {
	case "add":
		id := a.journal.AddCycle()
		printlnFn("Cycle ajouté, id", id)
	case "sit":
		if len(args) < 3 {
			usage()
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			usage()
			return
		}
		a.journal.SetCycleSituation(id, strings.Join(args[2:], " "))
	case "rm":
		if len(args) != 2 {
			usage()
			return
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			usage()
			return
		}
		a.journal.RemoveCycle(id)
	default:
		usage()
	}
}

func (a *App) Status(ctx context.Context) {
	st := a.engine.Status(ctx)
	mode := "en ligne"
	if !st.Online {
		mode = "hors ligne"
	}
	printlnFn("Mode:", mode)
	printlnFn("File hors-ligne:", st.QueueLength, "entrée(s)")
	if !st.LastSave.IsZero() {
		printlnFn("Dernière sauvegarde distante:", st.LastSave.Format(time.RFC3339))
	}
	printlnFn("Indicateur:", statusLabel(a.journal.Status()))
}

func (a *App) Sync(ctx context.Context) {
	a.journal.Flush()
	n := a.engine.DrainQueue(ctx)
	printlnFn(fmt.Sprintf("%d entrée(s) synchronisée(s)", n))
	if n > 0 {
		a.journal.LoadEntries(ctx)
	}
}

func (a *App) Settings(ctx context.Context) {
	s := a.settings.Current()
	printlnFn("Langue:", s.Lang)
	printlnFn("Thème:", s.Theme, "/", s.ColorScheme)
	for _, c := range s.Consumables {
		if c.Active {
			printlnFn("  -", c.Key+":", c.Label)
		}
	}
}
