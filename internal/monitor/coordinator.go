package monitor

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/sampler"
)

// Default timings.
const (
	DefaultInterval      = sampler.DefaultInterval
	DefaultFrameInterval = 250 * time.Millisecond
)

// Options configures a Coordinator.
type Options struct {
	// Interval is the sampling period.
	Interval time.Duration
	// FrameInterval bounds each input wait, and so how often the screen is
	// redrawn and how quickly cancellation is noticed.
	FrameInterval time.Duration
	InitialTab    Tab
	Keys          KeyMap
	Thresholds    Thresholds
	History       *History
	Clock         Clock
	Logger        logger.Logger

	// Spawn starts a background task. Defaults to a goroutine; tests pass
	// a synchronous version to make sampling deterministic.
	Spawn func(task func())
}

// Coordinator runs the monitor loop. It is the only place where sampler
// results are applied and commands change the UI state, so every frame sees
// a consistent pair of snapshot and state.
type Coordinator struct {
	term     Terminal
	listener *Listener
	sampler  *sampler.Sampler
	history  *History
	keys     KeyMap
	th       Thresholds
	clock    Clock
	log      logger.Logger
	spawn    func(func())

	interval      time.Duration
	frameInterval time.Duration

	state   UIState
	limits  ScrollLimits
	width   int
	height  int
	started time.Time
}

// NewCoordinator creates a coordinator drawing on term and sampling with s.
func NewCoordinator(term Terminal, s *sampler.Sampler, opts Options) *Coordinator {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = DefaultFrameInterval
	}
	if opts.FrameInterval > opts.Interval {
		opts.FrameInterval = opts.Interval
	}
	if len(opts.Keys.Quit.Keys()) == 0 {
		opts.Keys = DefaultKeyMap()
	}
	if opts.Thresholds == (Thresholds{}) {
		opts.Thresholds = DefaultThresholds()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock()
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Spawn == nil {
		opts.Spawn = func(task func()) { go task() }
	}

	return &Coordinator{
		term:          term,
		listener:      NewListener(term, opts.Keys),
		sampler:       s,
		history:       opts.History,
		keys:          opts.Keys,
		th:            opts.Thresholds,
		clock:         opts.Clock,
		log:           opts.Logger,
		spawn:         opts.Spawn,
		interval:      opts.Interval,
		frameInterval: opts.FrameInterval,
		state:         NewUIState(opts.InitialTab),
		limits:        make(ScrollLimits),
	}
}

// State returns the current UI state.
func (c *Coordinator) State() UIState {
	return c.state
}

// Run takes over the terminal and loops until the user quits, ctx is
// cancelled, or the terminal fails. The terminal is released on every path,
// including panics, which are reported as errors once it has been restored.
func (c *Coordinator) Run(ctx context.Context) (err error) {
	if err := c.term.Enter(); err != nil {
		// A partial Enter may still have changed terminal modes.
		_ = c.term.Exit()
		return errors.WrapWithCode(err, errors.ErrTerminal,
			"Can't take over the terminal",
			"Run sysmon from an interactive terminal, or use 'sysmon snapshot' for plain output")
	}

	// Deferred in this order so Exit runs before the panic is recovered.
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("monitor loop panicked: %v\n%s", r, debug.Stack())
			err = errors.New(errors.ErrRender,
				fmt.Sprintf("The monitor crashed: %v", r),
				"The terminal has been restored. Details are in the log file.")
		}
	}()
	defer func() {
		if exitErr := c.term.Exit(); exitErr != nil {
			c.log.Error("failed to restore terminal: %v", exitErr)
			if err == nil {
				err = errors.WrapWithCode(exitErr, errors.ErrTerminal, "Failed to restore the terminal", "Run 'reset' if the terminal looks wrong")
			}
		}
	}()

	return c.loop(ctx)
}

func (c *Coordinator) loop(ctx context.Context) error {
	c.started = c.clock.Now()
	c.width, c.height = c.term.Size()

	// One sample in flight at most; the buffer lets a finished sample park
	// its result even after the loop has gone.
	results := make(chan sampler.Result, 1)
	inFlight := false
	nextSample := c.started

	for {
		// (a) start a sample when one is due.
		now := c.clock.Now()
		if !inFlight && !now.Before(nextSample) {
			inFlight = true
			nextSample = now.Add(c.interval)
			c.spawn(func() { results <- c.sampler.Sample(ctx) })
		}
		inFlight = c.drain(results, inFlight)

		// (b) wait for input, at most until the next frame or sample.
		ev, cmd, ok, err := c.listener.Poll(c.pollTimeout(now, nextSample, inFlight))
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrTerminal, "Lost the terminal while reading input", "")
		}

		// (c) apply the command.
		if ok {
			if ev.Kind == EventResize {
				c.width, c.height = ev.Width, ev.Height
			}
			c.state = c.state.Apply(cmd, c.limits)
			c.log.Debug("event %q -> %s", ev.Key, cmd)
		}
		inFlight = c.drain(results, inFlight)

		if ctx.Err() != nil {
			c.state = c.state.Apply(Quit(), c.limits)
		}

		// (d) draw.
		frame := c.render()
		if err := c.term.WriteFrame(frame); err != nil {
			return errors.WrapWithCode(err, errors.ErrTerminal, "Lost the terminal while drawing", "")
		}

		// (e) stop once quit was requested.
		if !c.state.Running {
			return nil
		}
	}
}

// drain applies a finished sample, if any, and reports whether one is still
// in flight.
func (c *Coordinator) drain(results <-chan sampler.Result, inFlight bool) bool {
	if !inFlight {
		return false
	}
	select {
	case r := <-results:
		c.sampler.Apply(r)
		return false
	default:
		return true
	}
}

func (c *Coordinator) pollTimeout(now, nextSample time.Time, inFlight bool) time.Duration {
	timeout := c.frameInterval
	if !inFlight {
		if untilSample := nextSample.Sub(now); untilSample < timeout {
			timeout = untilSample
		}
	}
	if timeout < 0 {
		timeout = 0
	}
	return timeout
}

func (c *Coordinator) render() Frame {
	snap, _ := c.sampler.Store().Current()
	frame := Render(RenderInput{
		Snapshot:   snap,
		Health:     c.sampler.Health(),
		State:      c.state,
		History:    c.history,
		Keys:       c.keys,
		Thresholds: c.th,
		Width:      c.width,
		Height:     c.height,
		Now:        c.clock.Now(),
		Started:    c.started,
	})
	c.limits[frame.Tab] = frame.MaxScroll
	return frame
}
