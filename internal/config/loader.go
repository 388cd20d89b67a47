package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rileyhilliard/sysmon/internal/errors"
)

const (
	// AppName names the config and state directories.
	AppName = "sysmon"
	// ConfigFileName is the config file name inside the config directory.
	ConfigFileName = "config.yaml"
	// LogFileName is the default log file name inside the state directory.
	LogFileName = "sysmon.log"
	// EnvPrefix prefixes environment overrides, e.g. SYSMON_INTERVAL=2s.
	EnvPrefix = "SYSMON"
)

// DefaultPath returns where the config file lives when no --config is given.
func DefaultPath() string {
	return filepath.Join(configHome(), AppName, ConfigFileName)
}

// DefaultLogFile returns the default log destination.
func DefaultLogFile() string {
	return filepath.Join(stateHome(), AppName, LogFileName)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. $XDG_CONFIG_HOME/sysmon/config.yaml
// 3. ~/.config/sysmon/config.yaml
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		explicit = ExpandTilde(explicit)
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct, or run 'sysmon config init --config "+explicit+"' to create it")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	candidates := []string{}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, AppName, ConfigFileName))
	}
	candidates = append(candidates, filepath.Join(getHome(), ".config", AppName, ConfigFileName))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load reads config from path, with defaults for missing keys and
// SYSMON_* environment overrides applied. An empty path loads defaults and
// environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Config file not found",
					"Run 'sysmon config init' to create a config file, or specify one with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read config file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// LoadOrDefault finds and loads the config, falling back to defaults when
// there is no file. It returns the path that was used, if any.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newViper returns a viper instance with every key defaulted, so that
// environment overrides work even for keys absent from the file.
func newViper() *viper.Viper {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("version", def.Version)
	v.SetDefault("interval", def.Interval)
	v.SetDefault("frame_interval", def.FrameInterval)
	v.SetDefault("sample_timeout", def.SampleTimeout)
	v.SetDefault("initial_tab", def.InitialTab)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("history_size", def.HistorySize)
	v.SetDefault("top_processes", def.TopProcesses)
	v.SetDefault("no_color", def.NoColor)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("thresholds.cpu.warning", def.Thresholds.CPU.Warning)
	v.SetDefault("thresholds.cpu.critical", def.Thresholds.CPU.Critical)
	v.SetDefault("thresholds.memory.warning", def.Thresholds.Memory.Warning)
	v.SetDefault("thresholds.memory.critical", def.Thresholds.Memory.Critical)
	v.SetDefault("thresholds.disk.warning", def.Thresholds.Disk.Warning)
	v.SetDefault("thresholds.disk.critical", def.Thresholds.Disk.Critical)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// parseConfig converts viper config to our Config struct.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "your environment (SYSMON_* variables)"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the values in "+where+"; durations look like '1s' or '500ms'")
	}

	cfg.LogFile = Expand(cfg.LogFile)
	return cfg, nil
}
