package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandTilde replaces ~ or ~/path with the user's home directory.
// Does not support ~username syntax - just ~ for the current user.
func ExpandTilde(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

// Expand replaces variables in a path with their values.
// Supported variables:
//   - ${HOME} - user's home directory
//   - ${USER} - current username
//   - ${XDG_STATE_HOME}, ${XDG_CONFIG_HOME} - with their usual fallbacks
//
// A leading ~ is expanded as well.
func Expand(s string) string {
	if s == "" {
		return s
	}

	result := s

	if strings.Contains(result, "${HOME}") {
		result = strings.ReplaceAll(result, "${HOME}", getHome())
	}

	if strings.Contains(result, "${USER}") {
		result = strings.ReplaceAll(result, "${USER}", getUser())
	}

	if strings.Contains(result, "${XDG_STATE_HOME}") {
		result = strings.ReplaceAll(result, "${XDG_STATE_HOME}", stateHome())
	}

	if strings.Contains(result, "${XDG_CONFIG_HOME}") {
		result = strings.ReplaceAll(result, "${XDG_CONFIG_HOME}", configHome())
	}

	return ExpandTilde(result)
}

// getUser returns the current username for ${USER} expansion.
func getUser() string {
	// Try USER env var first (most common)
	if name := os.Getenv("USER"); name != "" {
		return name
	}

	// Try LOGNAME (POSIX standard)
	if name := os.Getenv("LOGNAME"); name != "" {
		return name
	}

	// Try USERNAME (Windows)
	if name := os.Getenv("USERNAME"); name != "" {
		return name
	}

	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "user"
}

// getHome returns the home directory for ${HOME} expansion.
func getHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}

	// Fallback to HOME env var
	if home := os.Getenv("HOME"); home != "" {
		return home
	}

	return "~"
}

// configHome returns $XDG_CONFIG_HOME or ~/.config.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(getHome(), ".config")
}

// stateHome returns $XDG_STATE_HOME or ~/.local/state.
func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	return filepath.Join(getHome(), ".local", "state")
}
