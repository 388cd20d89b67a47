package config

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/term"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but sysmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest sysmon, or lower 'version' in the config file.")
	}

	if err := validateTimings(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
			"Durations look like '1s', '500ms' or '2m'.")
	}

	if _, err := monitor.ParseTab(cfg.InitialTab); err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a tab", cfg.InitialTab),
			suggestion("initial_tab", cfg.InitialTab, monitor.TabNames()))
	}

	if !isBackend(cfg.Backend) {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a terminal backend", cfg.Backend),
			suggestion("backend", cfg.Backend, term.Backends))
	}

	if cfg.HistorySize < 2 {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("history_size needs to be at least 2 (got %d)", cfg.HistorySize),
			fmt.Sprintf("Remove the key to use the default of %d.", DefaultHistorySize))
	}

	if cfg.TopProcesses < 1 || cfg.TopProcesses > MaxTopProcesses {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("top_processes needs to be between 1 and %d (got %d)", MaxTopProcesses, cfg.TopProcesses),
			fmt.Sprintf("Remove the key to use the default of %d.", DefaultTopProcesses))
	}

	for _, th := range []struct {
		name string
		v    ThresholdValues
	}{
		{"cpu", cfg.Thresholds.CPU},
		{"memory", cfg.Thresholds.Memory},
		{"disk", cfg.Thresholds.Disk},
	} {
		if err := validateThresholds(th.name, th.v); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, err.Error(),
				"Check the 'thresholds' section of your config.")
		}
	}

	return nil
}

func validateTimings(cfg *Config) error {
	if cfg.Interval < MinInterval {
		return fmt.Errorf("interval %v is too short - sysmon samples at most every %v", cfg.Interval, MinInterval)
	}
	if cfg.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval needs to be positive (got %v)", cfg.FrameInterval)
	}
	if cfg.FrameInterval > cfg.Interval {
		return fmt.Errorf("frame_interval (%v) is longer than interval (%v) - frames would lag behind samples", cfg.FrameInterval, cfg.Interval)
	}
	if cfg.SampleTimeout < 0 {
		return fmt.Errorf("sample_timeout can't be negative (got %v)", cfg.SampleTimeout)
	}
	return nil
}

// validateThresholds checks a threshold configuration for a single metric type.
func validateThresholds(name string, thresh ThresholdValues) error {
	if thresh.Warning < 0 || thresh.Warning > 100 {
		return fmt.Errorf("thresholds.%s.warning needs to be 0-100 (got %d)", name, thresh.Warning)
	}
	if thresh.Critical < 0 || thresh.Critical > 100 {
		return fmt.Errorf("thresholds.%s.critical needs to be 0-100 (got %d)", name, thresh.Critical)
	}
	if thresh.Warning >= thresh.Critical {
		return fmt.Errorf("thresholds.%s.warning (%d%%) is not below critical (%d%%) - should be the other way around", name, thresh.Warning, thresh.Critical)
	}
	return nil
}

func isBackend(name string) bool {
	for _, b := range term.Backends {
		if strings.EqualFold(b, name) {
			return true
		}
	}
	return false
}

// suggestion builds the hint for an unknown enum value.
func suggestion(key, got string, valid []string) string {
	if near := util.SuggestSimilar(got, valid, 1); len(near) > 0 {
		return fmt.Sprintf("Did you mean '%s'? Valid %s values: %s.", near[0], key, strings.Join(valid, ", "))
	}
	return fmt.Sprintf("Valid %s values: %s.", key, strings.Join(valid, ", "))
}
