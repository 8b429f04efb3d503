// Package cli parses command-line arguments into a Config.
package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// Config holds the settings parsed from the command line.
type Config struct {
	Path      string   // program file path, or "-" for stdin
	Args      []string // residual arguments passed through to main
	Profile   bool     // report the dynamic instruction count
	CheckOnly bool     // type check only, skip execution
	Text      bool     // textual surface syntax (not supported)
	LogLevel  string   // debug, info, warn, error
	ShowHelp  bool
}

// ParseArgs parses args into a Config. Flag parsing stops at the first
// positional argument (the program file); everything after it is passed
// through to main untouched, so a leading "-" in a program argument is
// never mistaken for a flag.
func ParseArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("goril", flag.ContinueOnError)

	config := &Config{}

	fs.BoolVar(&config.Profile, "profile", false, "report the dynamic instruction count")
	fs.BoolVar(&config.Profile, "p", false, "report the dynamic instruction count (shorthand)")
	fs.BoolVar(&config.CheckOnly, "check", false, "type check only, do not execute")
	fs.BoolVar(&config.CheckOnly, "c", false, "type check only (shorthand)")
	fs.BoolVar(&config.Text, "text", false, "treat the input as textual Bril")
	fs.StringVar(&config.LogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	fs.StringVar(&config.LogLevel, "l", "info", "log level (shorthand)")
	fs.BoolVar(&config.ShowHelp, "help", false, "show help")
	fs.BoolVar(&config.ShowHelp, "h", false, "show help (shorthand)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Environment fallback; the command-line flag wins.
	if config.LogLevel == "info" {
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			config.LogLevel = strings.ToLower(logLevelEnv)
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.LogLevel)
	}

	if config.Text {
		return nil, fmt.Errorf("textual Bril input is not supported; pipe the program through a text-to-JSON converter")
	}

	if fs.NArg() > 0 {
		config.Path = fs.Arg(0)
		if fs.NArg() > 1 {
			config.Args = fs.Args()[1:]
		}
	} else {
		config.Path = "-"
	}

	return config, nil
}

// PrintHelp writes the usage message to stdout.
func PrintHelp() {
	fmt.Fprintf(os.Stdout, `goril - Bril IR interpreter

Usage:
  goril [options] [program.json] [main args...]

Arguments:
  program.json    JSON-encoded Bril program ("-" or omitted reads stdin)
  main args...    arguments for the program's main function

Options:
  -p, --profile               report the dynamic instruction count on stderr
  -c, --check                 type check only, do not execute
  -l, --log-level <level>     log level: debug, info, warn, error (default: info)
  -h, --help                  show this help

Environment Variables:
  LOG_LEVEL=<level>           log level

Examples:
  goril program.json              run a program
  goril program.json 5 true       run with arguments for main
  goril -p program.json           run and report total_dyn_inst
  goril -c program.json           type check without executing
  bril2json < program.bril | goril  read the program from stdin
`)
}
