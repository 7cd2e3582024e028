package config

import (
	"flag"
	"time"

	"github.com/slidesmith/slidesmith/internal/flagx"
)

// parseFlags populates Config fields from the short flags -a, -t and -d.
// Other arguments (subcommands and their options) are filtered out first so
// they reach cobra untouched. It panics on malformed values.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	delay := fs.Int("d", int(cfg.AutosaveDelay.Milliseconds()), "autosave quiet period (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.AutosaveDelay = time.Duration(*delay) * time.Millisecond
}
