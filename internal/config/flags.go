package config

import (
	"flag"
	"os"
	"time"

	"github.com/moodix/journal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the journal backend (default from Config)
//	-f string   path to the local mirror sqlite file
//	-l string   display language, "fr" or "en"
//	-i int      online check interval in seconds
//
// os.Args is filtered down to these flags with flagx.FilterArgs so the -c
// config-file flag handled elsewhere does not trip the FlagSet.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-l", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the journal backend")
	fs.StringVar(&cfg.MirrorDBPath, "f", cfg.MirrorDBPath, "path to the local mirror database")
	fs.StringVar(&cfg.Lang, "l", cfg.Lang, "display language (fr/en)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
}
