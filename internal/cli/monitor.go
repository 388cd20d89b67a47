package cli

import (
	"context"
	"io"
	"os"

	xterm "golang.org/x/term"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/sampler"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/term"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

// Seams replaced in tests.
var (
	newTerminal = term.New
	newSource   = localSource
	isTerminal  = stdioIsTerminal
)

// monitorCommand loads the config, takes over the terminal and runs the
// monitor until the user quits or ctx is cancelled.
func monitorCommand(ctx context.Context, flags MonitorFlags) error {
	cfg, _, err := config.LoadOrDefault(flags.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyMonitorFlags(cfg, flags); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !isTerminal() {
		return errors.New(errors.ErrTerminal,
			"sysmon needs an interactive terminal",
			"Use 'sysmon snapshot' to print metrics once, e.g. in scripts or pipes.")
	}

	log, closer := openLog(cfg.LogFile, flags.Debug)
	defer closer.Close()
	logger.SetDefault(log)
	defer logger.SetDefault(logger.Noop())

	tm, err := newTerminal(cfg.Backend, cfg.NoColor)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Can't set up the terminal backend",
			"Valid backends: tea, tcell.")
	}

	return runMonitor(ctx, cfg, tm, newSource(ctx, cfg, log), log)
}

// runMonitor wires the sampler, history and coordinator together and runs
// the loop on tm.
func runMonitor(ctx context.Context, cfg *config.Config, tm monitor.Terminal, src sampler.Source, log logger.Logger) error {
	history := monitor.NewHistory(cfg.HistorySize)
	s := sampler.New(src, snapshot.NewStore(),
		sampler.WithTimeout(cfg.EffectiveSampleTimeout()),
		sampler.WithLogger(log),
		sampler.WithRecorder(history),
	)

	// Validate has already checked the name.
	tab, _ := monitor.ParseTab(cfg.InitialTab)

	c := monitor.NewCoordinator(tm, s, monitor.Options{
		Interval:      cfg.Interval,
		FrameInterval: cfg.FrameInterval,
		InitialTab:    tab,
		Thresholds:    thresholds(cfg.Thresholds),
		History:       history,
		Logger:        log,
	})

	log.Info("monitor starting: backend=%s interval=%v frame=%v tab=%s",
		cfg.Backend, cfg.Interval, cfg.FrameInterval, tab)
	err := c.Run(ctx)
	if err != nil {
		log.Error("monitor stopped: %v", err)
		return err
	}
	log.Info("monitor stopped")
	return nil
}

// localSource returns the gopsutil source for this machine, primed so the
// first sample already has CPU percentages.
func localSource(ctx context.Context, cfg *config.Config, log logger.Logger) sampler.Source {
	src := sampler.NewGopsutilSource(
		sampler.WithTopProcesses(cfg.TopProcesses),
		sampler.WithSourceLogger(log),
	)
	src.Prime(ctx)
	return src
}

// openLog opens the log file, falling back to a logger that drops
// everything. Nothing may be written to the terminal while the monitor owns it.
func openLog(path string, debug bool) (logger.Logger, io.Closer) {
	if path == "" {
		return logger.Noop(), io.NopCloser(nil)
	}
	log, closer, err := logger.OpenFile(path, "[sysmon]", debug)
	if err != nil {
		return logger.Noop(), io.NopCloser(nil)
	}
	return log, closer
}

func stdioIsTerminal() bool {
	return xterm.IsTerminal(int(os.Stdin.Fd())) && xterm.IsTerminal(int(os.Stdout.Fd()))
}

// thresholds converts the config percentages into the renderer's form.
func thresholds(t config.ThresholdsConfig) monitor.Thresholds {
	conv := func(v config.ThresholdValues) ui.Thresholds {
		return ui.Thresholds{Warning: float64(v.Warning), Critical: float64(v.Critical)}
	}
	return monitor.Thresholds{
		CPU:    conv(t.CPU),
		Memory: conv(t.Memory),
		Disk:   conv(t.Disk),
	}
}
