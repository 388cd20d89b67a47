package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

// MonitorFlags holds the command line overrides for the monitor.
// Empty strings and false leave the config value alone.
type MonitorFlags struct {
	ConfigPath string
	Interval   string
	Tab        string
	Backend    string
	NoColor    bool
	Debug      bool
}

// ParseDurationFlag parses a duration flag value. Returns zero duration if
// the flag is empty.
func ParseDurationFlag(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 1s, 2m, or 500ms.")
	}
	if d <= 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s needs to be positive (got %s)", name, value),
			"Try something like 1s, 2m, or 500ms.")
	}
	return d, nil
}

// applyMonitorFlags lays flag overrides over cfg. Flags win over the file
// and the environment. The result still needs config.Validate.
func applyMonitorFlags(cfg *config.Config, flags MonitorFlags) error {
	interval, err := ParseDurationFlag("interval", flags.Interval)
	if err != nil {
		return err
	}
	if interval > 0 {
		cfg.Interval = interval
		// A faster sample rate should not be held back by a slower redraw.
		if cfg.FrameInterval > interval {
			cfg.FrameInterval = interval
		}
	}

	if flags.Tab != "" {
		cfg.InitialTab = flags.Tab
	}
	if flags.Backend != "" {
		cfg.Backend = flags.Backend
	}
	if flags.NoColor || noColorEnv() {
		cfg.NoColor = true
	}
	return nil
}

// noColorEnv honours the NO_COLOR convention (https://no-color.org).
func noColorEnv() bool {
	return os.Getenv("NO_COLOR") != ""
}
