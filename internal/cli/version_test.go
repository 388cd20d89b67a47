package cli

import (
	"bytes"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withVersionInfo(t *testing.T, v, c, d string) {
	t.Helper()
	origVersion, origCommit, origDate := version, commit, date
	t.Cleanup(func() {
		version, commit, date = origVersion, origCommit, origDate
	})
	version, commit, date = v, c, d
}

func TestVersionOutput(t *testing.T) {
	withVersionInfo(t, "1.2.3", "abc1234", "2025-01-08T12:00:00Z")

	var buf bytes.Buffer
	printVersion(&buf, false)
	output := buf.String()

	assert.Contains(t, output, "sysmon v1.2.3", "should show version with v prefix")
	assert.Contains(t, output, "commit: abc1234")
	assert.Contains(t, output, "built: 2025-01-08T12:00:00Z")
	assert.Contains(t, output, "go: "+runtime.Version())
	assert.Contains(t, output, "os/arch: "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionOutputShort(t *testing.T) {
	withVersionInfo(t, "1.2.3", "abc1234", "today")

	var buf bytes.Buffer
	printVersion(&buf, true)
	assert.Equal(t, "1.2.3", strings.TrimSpace(buf.String()))
}

func TestVersionOutputDev(t *testing.T) {
	withVersionInfo(t, "dev", "none", "unknown")

	var buf bytes.Buffer
	printVersion(&buf, false)
	assert.Contains(t, buf.String(), "sysmon dev", "dev version should not have v prefix")
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"dev", "dev"},
		{"1.0.0", "v1.0.0"},
		{"v2.3.4", "v2.3.4"},
		{"1.0.0-rc.1", "v1.0.0-rc.1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, formatVersion(tt.input))
		})
	}
}

func TestSetVersionInfo(t *testing.T) {
	withVersionInfo(t, "dev", "none", "unknown")
	origRootVersion := rootCmd.Version
	t.Cleanup(func() { rootCmd.Version = origRootVersion })

	SetVersionInfo("0.4.0", "deadbeef", "2026-01-01")

	assert.Equal(t, "0.4.0", GetVersion())
	assert.Equal(t, "deadbeef", commit)
	assert.Equal(t, "v0.4.0", rootCmd.Version)
}
