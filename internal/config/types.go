package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Defaults for every key. A missing key in the file means its default.
const (
	DefaultInterval      = time.Second
	DefaultFrameInterval = 250 * time.Millisecond
	DefaultInitialTab    = "overview"
	DefaultBackend       = "tea"
	DefaultHistorySize   = 240
	DefaultTopProcesses  = 50

	// MinInterval is the shortest sampling period accepted.
	MinInterval = 250 * time.Millisecond
	// MaxTopProcesses bounds the processes tab.
	MaxTopProcesses = 1000
)

// Config is the complete sysmon configuration file. It is read once at
// startup and passed around by value.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Interval is the sampling period.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// FrameInterval bounds each wait for input, so it sets the redraw
	// cadence and how fast a quit or signal is noticed.
	FrameInterval time.Duration `yaml:"frame_interval" mapstructure:"frame_interval"`

	// SampleTimeout is how long one sample may take. Zero means Interval.
	SampleTimeout time.Duration `yaml:"sample_timeout" mapstructure:"sample_timeout"`

	// InitialTab is the tab shown at startup.
	InitialTab string `yaml:"initial_tab" mapstructure:"initial_tab"`

	// Backend selects the terminal implementation: tea or tcell.
	Backend string `yaml:"backend" mapstructure:"backend"`

	HistorySize  int  `yaml:"history_size" mapstructure:"history_size"`
	TopProcesses int  `yaml:"top_processes" mapstructure:"top_processes"`
	NoColor      bool `yaml:"no_color" mapstructure:"no_color"`

	// LogFile is where diagnostics go while the monitor holds the terminal.
	// Supports ~ and ${HOME}/${USER} expansion.
	LogFile string `yaml:"log_file" mapstructure:"log_file"`

	Thresholds ThresholdsConfig `yaml:"thresholds" mapstructure:"thresholds"`
}

// ThresholdsConfig holds colour thresholds per metric family.
type ThresholdsConfig struct {
	CPU    ThresholdValues `yaml:"cpu" mapstructure:"cpu"`
	Memory ThresholdValues `yaml:"memory" mapstructure:"memory"`
	Disk   ThresholdValues `yaml:"disk" mapstructure:"disk"`
}

// ThresholdValues are warning and critical percentages.
type ThresholdValues struct {
	Warning  int `yaml:"warning" mapstructure:"warning"`
	Critical int `yaml:"critical" mapstructure:"critical"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:       CurrentConfigVersion,
		Interval:      DefaultInterval,
		FrameInterval: DefaultFrameInterval,
		InitialTab:    DefaultInitialTab,
		Backend:       DefaultBackend,
		HistorySize:   DefaultHistorySize,
		TopProcesses:  DefaultTopProcesses,
		LogFile:       DefaultLogFile(),
		Thresholds: ThresholdsConfig{
			CPU:    ThresholdValues{Warning: 70, Critical: 90},
			Memory: ThresholdValues{Warning: 70, Critical: 90},
			Disk:   ThresholdValues{Warning: 85, Critical: 95},
		},
	}
}

// EffectiveSampleTimeout returns SampleTimeout, or Interval when unset.
func (c Config) EffectiveSampleTimeout() time.Duration {
	if c.SampleTimeout > 0 {
		return c.SampleTimeout
	}
	return c.Interval
}
