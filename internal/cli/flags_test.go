package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
)

func TestParseDurationFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Duration
		wantErr string
	}{
		{"empty", "", 0, ""},
		{"seconds", "2s", 2 * time.Second, ""},
		{"milliseconds", "500ms", 500 * time.Millisecond, ""},
		{"invalid", "fast", 0, "'fast' doesn't look like a valid --interval"},
		{"zero", "0s", 0, "--interval needs to be positive"},
		{"negative", "-1s", 0, "--interval needs to be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDurationFlag("interval", tt.value)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyMonitorFlags(t *testing.T) {
	t.Setenv("NO_COLOR", "")

	t.Run("no flags keeps config", func(t *testing.T) {
		cfg := config.DefaultConfig()
		require.NoError(t, applyMonitorFlags(cfg, MonitorFlags{}))
		assert.Equal(t, config.DefaultConfig(), cfg)
	})

	t.Run("flags override", func(t *testing.T) {
		cfg := config.DefaultConfig()
		require.NoError(t, applyMonitorFlags(cfg, MonitorFlags{
			Interval: "3s",
			Tab:      "network",
			Backend:  "tcell",
			NoColor:  true,
		}))
		assert.Equal(t, 3*time.Second, cfg.Interval)
		assert.Equal(t, config.DefaultFrameInterval, cfg.FrameInterval)
		assert.Equal(t, "network", cfg.InitialTab)
		assert.Equal(t, "tcell", cfg.Backend)
		assert.True(t, cfg.NoColor)
	})

	t.Run("short interval pulls frame interval down", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.FrameInterval = 800 * time.Millisecond
		require.NoError(t, applyMonitorFlags(cfg, MonitorFlags{Interval: "500ms"}))
		assert.Equal(t, 500*time.Millisecond, cfg.FrameInterval)
		require.NoError(t, config.Validate(cfg))
	})

	t.Run("bad interval", func(t *testing.T) {
		cfg := config.DefaultConfig()
		err := applyMonitorFlags(cfg, MonitorFlags{Interval: "soon"})
		require.Error(t, err)
		assert.Equal(t, config.DefaultInterval, cfg.Interval)
	})

	t.Run("NO_COLOR environment", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		cfg := config.DefaultConfig()
		require.NoError(t, applyMonitorFlags(cfg, MonitorFlags{}))
		assert.True(t, cfg.NoColor)
	})
}
