package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/flagx"
)

// parseFlags overlays cfg with the flags it knows about. Other arguments
// are filtered out with flagx.FilterArgs so they do not cause errors here.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-l", "-m"})

	fs := flag.NewFlagSet("journal", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the journal service")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.VaultPath, "d", cfg.VaultPath, "token vault database path")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MediaMode, "m", cfg.MediaMode, "media mode (url or base64)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// -t only overrides when given; its whole-second default would truncate
	// sub-second values from the environment or JSON.
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			set = true
		}
	})
	if !set {
		return nil
	}
	if *timeout <= 0 {
		return fmt.Errorf("%w: request timeout %ds", ErrInvalidConfig, *timeout)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	return nil
}
