package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/logger"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/sampler"
	"github.com/rileyhilliard/sysmon/internal/snapshot"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Output formats for "sysmon snapshot".
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// DefaultSnapshotWait is the gap between the two samples taken by
// "sysmon snapshot". CPU and network rates are measured over it.
const DefaultSnapshotWait = 500 * time.Millisecond

// snapshotProcessRows caps the process table in text output.
const snapshotProcessRows = 10

var (
	snapshotFormat string
	snapshotWait   time.Duration
)

// snapshotCmd prints one reading and exits.
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print one reading of system metrics and exit",
	Long: `Take a reading of system metrics and print it, without taking over the terminal.

Two samples are taken --wait apart so CPU usage and network rates are
measured over that window.

Examples:
  sysmon snapshot
  sysmon snapshot --format json | jq .data.snapshot.memory
  sysmon snapshot --format yaml --wait 2s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(snapshotFormat)
		if err != nil {
			return err
		}
		cfg, _, err := config.LoadOrDefault(cfgFile)
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		src := sampler.NewGopsutilSource(
			sampler.WithTopProcesses(cfg.TopProcesses),
			sampler.WithSourceLogger(logger.Noop()),
		)
		return snapshotCommand(cmd.Context(), cmd.OutOrStdout(), src, snapshotOptions{
			Format:     format,
			Wait:       snapshotWait,
			Timeout:    cfg.EffectiveSampleTimeout(),
			Thresholds: thresholds(cfg.Thresholds),
			NoColor:    cfg.NoColor || noColorFlag || noColorEnv(),
		})
	},
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "o", FormatText, "output format: text, json or yaml")
	snapshotCmd.Flags().DurationVar(&snapshotWait, "wait", DefaultSnapshotWait, "time between the two samples")
	_ = snapshotCmd.RegisterFlagCompletionFunc("format", fixedCompletion(FormatText, FormatJSON, FormatYAML))
	rootCmd.AddCommand(snapshotCmd)
}

type snapshotOptions struct {
	Format     string
	Wait       time.Duration
	Timeout    time.Duration
	Thresholds monitor.Thresholds
	NoColor    bool
}

// snapshotReport is what "sysmon snapshot" prints in json and yaml.
type snapshotReport struct {
	Snapshot     *snapshot.Snapshot    `json:"snapshot" yaml:"snapshot"`
	AverageCPU   float64               `json:"average_cpu" yaml:"average_cpu"`
	NetworkRates []monitor.NetworkRate `json:"network_rates" yaml:"network_rates"`
}

func parseFormat(s string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(s))
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	valid := []string{FormatText, FormatJSON, FormatYAML}
	hint := "Valid formats: " + strings.Join(valid, ", ") + "."
	if near := util.SuggestSimilar(f, valid, 1); len(near) > 0 {
		hint = fmt.Sprintf("Did you mean '%s'? %s", near[0], hint)
	}
	return "", errors.New(errors.ErrConfig, fmt.Sprintf("'%s' isn't an output format", s), hint)
}

// snapshotCommand samples src twice and writes the report to w.
func snapshotCommand(ctx context.Context, w io.Writer, src sampler.Source, opts snapshotOptions) error {
	report, err := takeSnapshot(ctx, src, opts.Wait, opts.Timeout)
	if err != nil {
		if opts.Format == FormatJSON {
			if werr := WriteJSONFromError(w, err); werr != nil {
				return werr
			}
			return errors.NewExitError(1)
		}
		return err
	}

	switch opts.Format {
	case FormatJSON:
		return WriteJSONSuccess(w, report)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode snapshot: %w", err)
		}
		return enc.Close()
	default:
		return writeSnapshotText(w, report, opts.Thresholds, opts.NoColor)
	}
}

// takeSnapshot runs two samples wait apart through a Sampler, so the
// second one is published with rates measured against the first.
func takeSnapshot(ctx context.Context, src sampler.Source, wait, timeout time.Duration) (*snapshotReport, error) {
	history := monitor.NewHistory(2)
	s := sampler.New(src, snapshot.NewStore(),
		sampler.WithTimeout(timeout),
		sampler.WithLogger(logger.Noop()),
		sampler.WithRecorder(history),
	)

	s.Tick(ctx)
	if wait > 0 {
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, errors.WrapWithCode(ctx.Err(), errors.ErrSample, "Interrupted while sampling", "")
		case <-t.C:
		}
	}

	if !s.Tick(ctx) {
		snap, ok := s.Store().Current()
		if !ok {
			return nil, errors.WrapWithCode(s.Health().LastError, errors.ErrSample,
				"Couldn't read system metrics",
				"Check that /proc (or the platform equivalent) is readable.")
		}
		// The first reading is still worth printing.
		return &snapshotReport{Snapshot: snap, AverageCPU: snap.AverageCPU()}, nil
	}

	snap, _ := s.Store().Current()
	return &snapshotReport{
		Snapshot:     snap,
		AverageCPU:   snap.AverageCPU(),
		NetworkRates: history.NetworkRates(),
	}, nil
}

func writeSnapshotText(w io.Writer, r *snapshotReport, th monitor.Thresholds, noColor bool) error {
	lr := lipgloss.NewRenderer(w)
	if noColor {
		lr.SetColorProfile(termenv.Ascii)
	}
	heading := lr.NewStyle().Bold(true).Foreground(ui.ColorInfo)
	muted := lr.NewStyle().Foreground(ui.ColorMuted)
	level := func(p float64, t ui.Thresholds) string {
		return lr.NewStyle().Foreground(ui.LevelColor(t.Level(p))).Render(ui.FormatPercent(p))
	}

	snap := r.Snapshot
	var b strings.Builder

	host := snap.Host.Hostname
	if host == "" {
		host = "localhost"
	}
	fmt.Fprintf(&b, "%s  %s\n", heading.Render(host),
		muted.Render(strings.TrimSpace(snap.Host.Platform+" "+snap.Host.Kernel)))
	fmt.Fprintf(&b, "up %s, load %.2f %.2f %.2f, %d %s\n\n",
		ui.FormatUptime(snap.Uptime), snap.Load.Load1, snap.Load.Load5, snap.Load.Load15,
		snap.ProcessCount, util.Pluralize(snap.ProcessCount, "process", "processes"))

	if len(snap.CPU) == 0 {
		fmt.Fprintf(&b, "%s %s\n", heading.Render("CPU   "), muted.Render("unavailable"))
	} else {
		fmt.Fprintf(&b, "%s %s  %s\n", heading.Render("CPU   "), level(r.AverageCPU, th.CPU),
			muted.Render(fmt.Sprintf("%d %s", len(snap.CPU), util.Pluralize(len(snap.CPU), "core", "cores"))))
	}
	if snap.Memory.Total == 0 {
		fmt.Fprintf(&b, "%s %s\n", heading.Render("Memory"), muted.Render("unavailable"))
	} else {
		fmt.Fprintf(&b, "%s %s  %s / %s\n", heading.Render("Memory"), level(snap.Memory.Percent(), th.Memory),
			ui.FormatBytes(snap.Memory.Used), ui.FormatBytes(snap.Memory.Total))
	}
	if snap.Swap.Total > 0 {
		fmt.Fprintf(&b, "%s %s  %s / %s\n", heading.Render("Swap  "), level(snap.Swap.Percent(), th.Memory),
			ui.FormatBytes(snap.Swap.Used), ui.FormatBytes(snap.Swap.Total))
	}

	if len(snap.Disks) > 0 {
		rows := make([][]string, 0, len(snap.Disks))
		for _, d := range snap.Disks {
			rows = append(rows, []string{d.Mount, ui.FormatBytes(d.Used), ui.FormatBytes(d.Total),
				ui.FormatPercent(d.Percent()), ui.DiskCategory(d.Percent())})
		}
		section(&b, heading, "Disks", ui.RenderTable(lr, []ui.TableColumn{
			{Title: "Mount", Width: 20}, {Title: "Used", Width: 10, Right: true}, {Title: "Size", Width: 10, Right: true},
			{Title: "Use", Width: 7, Right: true}, {Title: "Status", Width: 9},
		}, rows))
	}

	if len(snap.Processes) > 0 {
		procs := snap.Processes
		if len(procs) > snapshotProcessRows {
			procs = procs[:snapshotProcessRows]
		}
		rows := make([][]string, 0, len(procs))
		for _, p := range procs {
			rows = append(rows, []string{strconv.Itoa(int(p.PID)), p.Name,
				ui.FormatPercent(p.CPUPercent), ui.FormatBytes(p.MemoryRSS)})
		}
		section(&b, heading, "Top processes", ui.RenderTable(lr, []ui.TableColumn{
			{Title: "PID", Width: 8, Right: true}, {Title: "Name", Width: 24},
			{Title: "CPU", Width: 7, Right: true}, {Title: "Memory", Width: 10, Right: true},
		}, rows))
	}

	if len(r.NetworkRates) > 0 {
		rows := make([][]string, 0, len(r.NetworkRates))
		for _, n := range r.NetworkRates {
			rows = append(rows, []string{n.Interface,
				ui.SymbolDown + " " + ui.FormatRate(n.RecvPerSecond),
				ui.SymbolUp + " " + ui.FormatRate(n.SentPerSecond)})
		}
		section(&b, heading, "Network", ui.RenderTable(lr, []ui.TableColumn{
			{Title: "Interface", Width: 16}, {Title: "Download", Width: 14}, {Title: "Upload", Width: 14},
		}, rows))
	}

	if len(snap.Sensors) > 0 {
		sensors := append([]snapshot.Sensor(nil), snap.Sensors...)
		sort.SliceStable(sensors, func(i, j int) bool { return sensors[i].Name < sensors[j].Name })
		rows := make([][]string, 0, len(sensors))
		for _, s := range sensors {
			rows = append(rows, []string{s.Name, fmt.Sprintf("%.0f°C", s.Celsius), ui.TempCategory(s.Celsius)})
		}
		section(&b, heading, "Sensors", ui.RenderTable(lr, []ui.TableColumn{
			{Title: "Sensor", Width: 28}, {Title: "Temp", Width: 8, Right: true}, {Title: "Status", Width: 9},
		}, rows))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, heading lipgloss.Style, title, table string) {
	fmt.Fprintf(b, "\n%s\n%s\n", heading.Render(title), table)
}
