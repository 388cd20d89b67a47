package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		input  string
		expect string
	}{
		{"", ""},
		{"~", home},
		{"~/logs/sysmon.log", filepath.Join(home, "logs", "sysmon.log")},
		{"/var/log/sysmon.log", "/var/log/sysmon.log"},
		{"~other/file", "~other/file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expect, ExpandTilde(tt.input))
		})
	}
}

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USER", "alice")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/cfg")

	assert.Equal(t, home+"/sysmon.log", Expand("${HOME}/sysmon.log"))
	assert.Equal(t, "/tmp/alice.log", Expand("/tmp/${USER}.log"))
	assert.Equal(t, filepath.Join(home, ".local", "state")+"/x.log", Expand("${XDG_STATE_HOME}/x.log"))
	assert.Equal(t, "/cfg/sysmon", Expand("${XDG_CONFIG_HOME}/sysmon"))
	assert.Equal(t, filepath.Join(home, "a"), Expand("~/a"))
	assert.Equal(t, "", Expand(""))
}
