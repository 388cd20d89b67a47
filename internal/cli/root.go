package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/term"
	"github.com/rileyhilliard/sysmon/internal/util"
)

// Global flags, available to every command.
var (
	cfgFile     string
	debugFlag   bool
	noColorFlag bool
)

// Root command flags.
var (
	intervalFlag string
	tabFlag      string
	backendFlag  string
)

// rootCmd runs the monitor when called without a subcommand.
var rootCmd = &cobra.Command{
	Use:   "sysmon",
	Short: "Live system metrics in your terminal",
	Long: `sysmon takes over the terminal and shows live system metrics: CPU, memory,
disks, processes, network and temperatures, one tab at a time.

Keyboard shortcuts:
  tab / l / right      Next tab
  shift+tab / h / left Previous tab
  up/k, down/j         Scroll
  pgup, pgdown         Scroll a page
  home, end            Jump to top or bottom
  q / esc / ctrl+c     Quit

Examples:
  sysmon
  sysmon --interval 2s --tab processes
  sysmon --backend tcell --no-color`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return monitorCommand(cmd.Context(), MonitorFlags{
			ConfigPath: cfgFile,
			Interval:   intervalFlag,
			Tab:        tabFlag,
			Backend:    backendFlag,
			NoColor:    noColorFlag,
			Debug:      debugFlag,
		})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/sysmon/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write debug lines to the log file")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colour output")

	rootCmd.Flags().StringVar(&intervalFlag, "interval", "", "sampling interval (e.g., 1s, 500ms)")
	rootCmd.Flags().StringVar(&tabFlag, "tab", "", "tab to start on (overview, processes, disks, network, sensors)")
	rootCmd.Flags().StringVar(&backendFlag, "backend", "", "terminal backend (tea or tcell)")

	_ = rootCmd.RegisterFlagCompletionFunc("tab", fixedCompletion(monitor.TabNames()...))
	_ = rootCmd.RegisterFlagCompletionFunc("backend", fixedCompletion(term.Backends...))
}

// fixedCompletion completes a flag from a fixed list of values.
func fixedCompletion(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// Execute runs the command line and exits the process with its status.
// SIGINT and SIGTERM cancel the command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	rootCmd.SetArgs(os.Args[1:])
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode reports err on stderr and maps it to a process exit status:
// 0 for success, 2 for command line mistakes, 1 for everything else.
// An ExitError carries its own code and has already been reported.
func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	if code, ok := errors.GetExitCode(err); ok {
		return code
	}
	if isUnknownCommandError(err) {
		fmt.Fprintln(stderr, unknownCommandMessage(err))
		return 2
	}
	fmt.Fprintln(stderr, err)
	return 1
}

// isUnknownCommandError checks if the error is cobra's unknown command or flag error.
func isUnknownCommandError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag")
}

// extractUnknownCommand pulls the command name out of a cobra error like
// `unknown command "foo" for "sysmon"`.
func extractUnknownCommand(err error) string {
	msg := err.Error()
	start := strings.Index(msg, `"`)
	if start == -1 {
		return ""
	}
	end := strings.Index(msg[start+1:], `"`)
	if end == -1 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// unknownCommandMessage builds the message for an unknown command, with a
// suggestion when the name is close to a real one.
func unknownCommandMessage(err error) string {
	name := extractUnknownCommand(err)
	if name == "" || !strings.HasPrefix(err.Error(), "unknown command") {
		return fmt.Sprintf("%s %s\n\n  Run 'sysmon --help' for usage.", "✗", err.Error())
	}

	var names []string
	for _, c := range rootCmd.Commands() {
		if c.IsAvailableCommand() {
			names = append(names, c.Name())
		}
	}

	msg := fmt.Sprintf("✗ '%s' isn't a sysmon command", name)
	if near := util.SuggestSimilar(name, names, 1); len(near) > 0 {
		return msg + fmt.Sprintf("\n\n  Did you mean 'sysmon %s'?", near[0])
	}
	return msg + "\n\n  Available commands: " + util.JoinOrNone(names)
}
