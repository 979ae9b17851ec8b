package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = func(args ...any) { fmt.Println(args...) }

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context)
	Logout(ctx context.Context)
	Show(ctx context.Context)
	GoToDate(ctx context.Context, args []string)
	ShiftDate(ctx context.Context, delta int)
	Mood(args []string)
	Note(args []string)
	Thoughts(args []string)
	Bed(args []string)
	Wake(args []string)
	Sleep(args []string)
	Take(args []string)
	Act(args []string)
	Cycle(args []string)
	Status(ctx context.Context)
	Sync(ctx context.Context)
	Settings(ctx context.Context)
}

const helpText = `Commandes:
  show                         afficher l'entrée du jour sélectionné
  date <AAAA-MM-JJ> | today    choisir le jour
  prev | next                  jour précédent / suivant
  mood <1-10>                  humeur générale
  note <texte>                 note du jour
  thoughts <texte>             pensées
  bed <hh:mm> | bed rm <n>     heures de coucher
  wake <hh:mm> | wake rm <n>   heures de réveil
  sleep <0-23>                 basculer une heure de sommeil
  take <type> <hh:mm>          consommation (exercise, caffeine, cannabis, medication, custom)
  act add <slot>               nouvelle activité dans le créneau
  act name <slot> <id> <nom>   nommer une activité
  act score <slot> <id> <champ> <0-10>
  act rm <slot> <id>           supprimer une activité
  cycle add | cycle sit <id> <texte> | cycle rm <id>
  status                       état de la sauvegarde et de la file
  sync                         pousser la file hors-ligne maintenant
  settings                     afficher les réglages
  logout | exit`

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on a. Unknown commands are reported back
// to the user. The loop exits on scanner EOF or when the user types "exit" or
// "quit". Command handlers report their own errors; the loop only does I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("journal %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() && cmd != "help" && cmd != "login" && cmd != "exit" && cmd != "quit" {
			printlnFn("Non connecté. Commandes: login, help, exit")
			continue
		}

		switch cmd {
		case "help":
			printlnFn(helpText)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "show":
			a.Show(ctx)
		case "date":
			a.GoToDate(ctx, args)
		case "today":
			a.GoToDate(ctx, nil)
		case "prev":
			a.ShiftDate(ctx, -1)
		case "next":
			a.ShiftDate(ctx, 1)
		case "mood":
			a.Mood(args)
		case "note":
			a.Note(args)
		case "thoughts":
			a.Thoughts(args)
		case "bed":
			a.Bed(args)
		case "wake":
			a.Wake(args)
		case "sleep":
			a.Sleep(args)
		case "take":
			a.Take(args)
		case "act":
			a.Act(args)
		case "cycle":
			a.Cycle(args)
		case "status":
			a.Status(ctx)
		case "sync":
			a.Sync(ctx)
		case "settings":
			a.Settings(ctx)
		case "exit", "quit":
			printlnFn("Au revoir !")
			return
		default:
			printlnFn("Commande inconnue:", cmd)
		}
	}
}
