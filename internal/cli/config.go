package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/monitor"
	"github.com/rileyhilliard/sysmon/internal/term"
	"github.com/rileyhilliard/sysmon/internal/ui"
)

var (
	configInitForce    bool
	configInitDefaults bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create, show and edit the config file",
	Long: `Manage the sysmon config file.

The file is looked up in this order:
  --config flag
  $XDG_CONFIG_HOME/sysmon/config.yaml
  ~/.config/sysmon/config.yaml

Any key can also be set through the environment, e.g. SYSMON_INTERVAL=2s
or SYSMON_THRESHOLDS_CPU_WARNING=60.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a config file",
	Long: `Create a config file, asking for the common settings.

Examples:
  sysmon config init
  sysmon config init --defaults
  sysmon config init --config ./sysmon.yaml --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.DefaultPath()
		if cfgFile != "" {
			path = config.ExpandTilde(cfgFile)
		}
		ask := promptConfig
		if configInitDefaults || !isTerminal() {
			ask = nil
		}
		return initConfig(cmd.OutOrStdout(), path, configInitForce, ask)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective config",
	Long: `Print the config sysmon would run with: the file, environment overrides
and defaults for everything else.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), cfgFile)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one value in the config file",
	Long: `Set one key in the config file, keeping comments and the rest of the file.
Nested keys use dots.

Examples:
  sysmon config set interval 2s
  sysmon config set thresholds.disk.warning 80`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setConfig(cmd.OutOrStdout(), cfgFile, args[0], args[1])
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&configInitDefaults, "defaults", false, "write the defaults without asking")

	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

// initConfig writes a new config file at path. ask fills in the values
// interactively; nil keeps the defaults.
func initConfig(w io.Writer, path string, force bool, ask func(*config.Config) error) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Config file already exists: %s", path),
			"Use --force to overwrite it, or 'sysmon config set' to change one value.")
	}

	cfg := config.DefaultConfig()
	if ask != nil {
		if err := ask(cfg); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try 'sysmon config init --defaults' and edit the file afterwards.")
		}
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}

	fmt.Fprintf(w, "%s Wrote %s\n", ui.SymbolSuccess, path)
	return nil
}

// promptConfig asks for the common settings with a huh form.
func promptConfig(cfg *config.Config) error {
	interval := cfg.Interval.String()
	tab := cfg.InitialTab
	backend := cfg.Backend
	noColor := cfg.NoColor

	tabOptions := make([]huh.Option[string], 0, len(monitor.Tabs))
	for _, t := range monitor.Tabs {
		tabOptions = append(tabOptions, huh.NewOption(t.Title(), t.String()))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Sampling interval").
				Description("How often metrics are read").
				Options(huh.NewOptions("500ms", "1s", "2s", "5s")...).
				Value(&interval),
			huh.NewSelect[string]().
				Title("Start on tab").
				Options(tabOptions...).
				Value(&tab),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Terminal backend").
				Description("tea works everywhere; tcell draws cell by cell").
				Options(huh.NewOptions(term.Backends...)...).
				Value(&backend),
			huh.NewConfirm().
				Title("Disable colours?").
				Value(&noColor),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	d, err := time.ParseDuration(interval)
	if err != nil {
		return err
	}
	cfg.Interval = d
	if cfg.FrameInterval > d {
		cfg.FrameInterval = d
	}
	cfg.InitialTab = tab
	cfg.Backend = backend
	cfg.NoColor = noColor
	return nil
}

// showConfig prints the effective config as YAML, noting where it came from.
func showConfig(w io.Writer, explicit string) error {
	cfg, path, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "defaults (no config file found)"
	}
	fmt.Fprintf(w, "# source: %s\n", source)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(w, "\n# %s\n", strings.ReplaceAll(strings.TrimSpace(err.Error()), "\n", "\n# "))
	}
	return nil
}

// setConfig sets key to value in the config file in use, or in the default
// location when there is none yet.
func setConfig(w io.Writer, explicit, key, value string) error {
	path := config.ExpandTilde(explicit)
	if path == "" {
		found, err := config.Find("")
		if err != nil {
			return err
		}
		path = found
	}
	if path == "" {
		path = config.DefaultPath()
	}

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Set %s = %s in %s\n", ui.SymbolSuccess, key, value, path)
	return nil
}
