/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes every configured case against one VLE table.

REQUIREMENTS:
  User-specified:
  - Run the configured cases.
  - Specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.RunBatch()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load, table load or output setup fails.
  - Individual case failures are recorded, not returned.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> Table -> engine.RunBatch.

USAGE:
  mccabe-thiele run --config mccabe.yaml -o ./results

RELATED FILES:
  - internal/cli/root.go
  - internal/engine/runner.go
*/

package cli

import (
	"fmt"

	"github.com/daryltucker/mccabe-thiele/internal/engine"
	"github.com/spf13/cobra"
)

var (
	outputOverride     string
	outputFileOverride string
	strictRun          bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every configured case",
	Long: `Runs each entry of 'cases' in the config as an overlay on 'parameters'.
All cases share one VLE table snapshot.

Results are written to <output_dir>/<output_file> (CSV summary, one row per
case) and a .jsonl file of the same name carrying the full results, plot
geometry included.`,
	Example: `  # Run with defaults (uses mccabe.yaml)
  mccabe-thiele run

  # Cases against a custom table, results in ./out
  mccabe-thiele run --table ./acetone_water.yaml -o ./out

  # Fail the command if any case does not converge
  mccabe-thiele run --strict`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		// 2. Overrides
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
		}
		if outputFileOverride != "" {
			cfg.OutputFile = outputFileOverride
		}

		// 3. Table
		curve, err := loadCurve(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		// 4. Execution
		sum, err := engine.RunBatch(cfg, curve)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d cases: %d converged, %d infeasible, %d stage-limited, %d failed\n",
			sum.Total(), sum.Converged, sum.Infeasible, sum.StageLimited, sum.Failed)
		if strictRun && sum.Converged != sum.Total() {
			return fmt.Errorf("%d of %d cases did not converge", sum.Total()-sum.Converged, sum.Total())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (CSV/JSONL)")
	runCmd.Flags().StringVar(&outputFileOverride, "output-file", "", "CSV file name; the JSONL file takes the same base name")
	runCmd.Flags().BoolVar(&strictRun, "strict", false, "exit non-zero unless every case converges")
}
