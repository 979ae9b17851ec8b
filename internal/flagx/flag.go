// Package flagx helps packages parse their own flags without tripping over
// flags owned by other packages: callers filter os.Args down to the flags
// they know about before handing them to a FlagSet.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
// Both "-f value" and "--flag=value" forms are recognized.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		keep[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := keep[name]; ok {
				out = append(out, arg)
			}
			continue
		}

		if _, ok := keep[arg]; ok {
			out = append(out, arg)
			// A following non-flag argument is this flag's value.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				out = append(out, args[i+1])
				i++
			}
		}
	}
	return out
}

// ConfigFilePath extracts the JSON config file path given via -c or -config,
// or "" when neither flag is present. Other arguments are ignored.
func ConfigFilePath() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	return path
}
