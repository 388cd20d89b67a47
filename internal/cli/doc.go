// Package cli implements the sysmon command-line interface.
//
// The root command runs the monitor. It loads the config, lays the command
// line flags over it, checks that stdin and stdout are a terminal, opens the
// log file and hands a terminal backend, a sampler and the history to a
// monitor.Coordinator. SIGINT and SIGTERM cancel the coordinator's context,
// and it gives the terminal back before the command returns.
//
// # Command Structure
//
//	sysmon                  - Live monitor (flags: --interval, --tab, --backend)
//	sysmon snapshot         - Print one reading as text, json or yaml
//	sysmon config init      - Create the config file
//	sysmon config show      - Print the effective config
//	sysmon config set k v   - Change one value, keeping comments
//	sysmon version          - Print version information
//	sysmon completion sh    - Generate shell completion
//
// # Flag Handling
//
// Global flags (--config, --debug, --no-color) are defined on the root
// command and available to every subcommand. Flags override the config file
// and SYSMON_* environment variables; both override the defaults.
//
// # Exit Codes
//
// Execute exits 0 on a clean quit, 2 for an unknown command or flag, and 1
// for any other failure, including a terminal that cannot be taken over.
package cli
