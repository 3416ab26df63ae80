/*
PURPOSE:
  Defines the 'azeotropes' subcommand.
  Lists every point where the active VLE table crosses y = x.

REQUIREMENTS:
  User-specified:
  - Show the compositional barriers before choosing xd/xb.

  Implementation-discovered:
  - Useful validation step for user-supplied tables before a full run.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.FindAzeotropes()

USAGE:
  mccabe-thiele azeotropes --table ./ethanol_water.csv
*/

package cli

import (
	"fmt"

	"github.com/daryltucker/mccabe-thiele/internal/engine"
	"github.com/spf13/cobra"
)

var azeotropesCmd = &cobra.Command{
	Use:   "azeotropes",
	Short: "List azeotropes of the active VLE table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		curve, err := loadCurve(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		found := engine.FindAzeotropes(curve)
		out := cmd.OutOrStdout()
		if len(found) == 0 {
			fmt.Fprintln(out, "No azeotropes found")
			return nil
		}
		for _, x := range found {
			fmt.Fprintf(out, "- x = %.6f (y = %.6f)\n", x, curve.IdealY(x))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(azeotropesCmd)
}
