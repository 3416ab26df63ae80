/*
PURPOSE:
  Defines the root Cobra command for the mccabe-thiele CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Every subcommand needs the same config -> logger -> table sequence, so
    it lives here as loadSettings/loadCurve.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/mccabe-thiele/main.go
  - Calls: Child commands (calc, run, sweep, azeotropes, table)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

RELATED FILES:
  - cmd/mccabe-thiele/main.go
  - internal/cli/table.go
*/

package cli

import (
	"github.com/daryltucker/mccabe-thiele/internal/config"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/spf13/cobra"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile string

	logLevel  string
	logFormat string

	systemOverride  string
	tablePath       string
	tableURL        string
	alphaOverride   float64
	samplesOverride int

	rootCmd = &cobra.Command{
		Use:   "mccabe-thiele",
		Short: "McCabe-Thiele stage calculator for binary distillation",
		Long: `Computes McCabe-Thiele diagrams for binary distillation: minimum and actual
reflux, operating lines, the Murphree-corrected equilibrium curve, and the
number of stages including the feed stage. Use 'calc --help' for a single case.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main reports the error
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is ./mccabe.yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pf.StringVar(&logFormat, "log-format", "", "log format: text or json (overrides config)")

	pf.StringVar(&systemOverride, "system", "", "VLE table source: methanol-water, ideal-binary, file, remote")
	pf.StringVar(&tablePath, "table", "", "VLE table file (.csv, .yaml, .json); implies --system file")
	pf.StringVar(&tableURL, "table-url", "", "remote VLE catalog URL; implies --system remote")
	pf.Float64Var(&alphaOverride, "alpha", 0, "relative volatility for the ideal-binary table; implies --system ideal-binary")
	pf.IntVar(&samplesOverride, "samples", 0, "point count of the generated ideal-binary table")
}

// loadSettings loads the config, applies the global overrides and installs
// the logger.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if err := output.Configure(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}

	if systemOverride != "" {
		cfg.Table.System = systemOverride
	}
	if tablePath != "" {
		cfg.Table.Path = tablePath
		if systemOverride == "" {
			cfg.Table.System = config.SystemFile
		}
	}
	if tableURL != "" {
		cfg.Table.URL = tableURL
		if systemOverride == "" {
			cfg.Table.System = config.SystemRemote
		}
	}
	if alphaOverride != 0 {
		cfg.Table.Alpha = alphaOverride
		if systemOverride == "" {
			cfg.Table.System = config.SystemIdealBinary
		}
	}
	if samplesOverride != 0 {
		cfg.Table.Samples = samplesOverride
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
