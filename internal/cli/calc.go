/*
PURPOSE:
  Defines the 'calc' subcommand.
  Computes a single McCabe-Thiele case and prints the summary, or the full
  result including plot geometry as JSON.

REQUIREMENTS:
  User-specified:
  - Show R_min, R, R factor, stage count, fractional stages and feed stage.
  - Infeasible separations show the offending azeotropes instead.

  Implementation-discovered:
  - Parameter flags override the config's base parameters one by one.
  - Non-converged runs still print, then exit non-zero for scripting.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config, internal/output

ERROR HANDLING:
  - Returns error on config/table failure, invalid parameters, numeric
    degeneracy, infeasibility or the stage limit.

USAGE:
  mccabe-thiele calc --xd 0.95 --xb 0.05 --r-factor 1.3

RELATED FILES:
  - internal/engine/mccabe.go
*/

package cli

import (
	"fmt"
	"io"

	"github.com/daryltucker/mccabe-thiele/internal/engine"
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/spf13/cobra"
)

var (
	calcParams model.Parameters
	calcJSON   bool
	calcPlot   bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Compute one McCabe-Thiele case",
	Example: `  # Default methanol-water case (xd=0.9, xb=0.1, zf=0.5, q=1, R=1.5 R_min)
  mccabe-thiele calc

  # Partially vaporized feed, 70% stage efficiency, 5 K subcooled reflux
  mccabe-thiele calc --q 0.6 --nm 0.7 --sc 5

  # Full result with plot geometry for a renderer
  mccabe-thiele calc --json --table ./ethanol_water.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		params := applyParameterFlags(cmd, cfg.Parameters, &calcParams)

		curve, err := loadCurve(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		res, err := engine.Run(curve, params)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if calcJSON {
			if !calcPlot {
				res.Plot = nil
			}
			if err := output.NewJSONStream(out).Write(res); err != nil {
				return err
			}
		} else {
			printSummary(out, res)
		}

		switch res.Status {
		case model.StatusInfeasible:
			return fmt.Errorf("separation crosses azeotrope(s) at x = %s", res.AzeotropeList())
		case model.StatusStageLimitExceeded:
			return fmt.Errorf("stepping did not reach xb=%.4f within %d stages (pinch?)", params.XB, engine.MaxStages)
		}
		return nil
	},
}

func printSummary(w io.Writer, res model.Result) {
	if res.Status == model.StatusInfeasible {
		fmt.Fprintf(w, "Azeotrope Error: the separation xb = %.3f .. xd = %.3f crosses the azeotropic point (x_azeo = %s).\n",
			res.Parameters.XB, res.Parameters.XD, res.AzeotropeList())
		fmt.Fprintln(w, "Separation to this purity is physically impossible.")
		return
	}

	fmt.Fprintf(w, "R_min:            %.3f\n", res.RMin)
	fmt.Fprintf(w, "R:                %.3f\n", res.R)
	fmt.Fprintf(w, "R factor:         %g\n", res.Parameters.RFactor)
	if res.SubcoolingFactor != 1 {
		fmt.Fprintf(w, "R internal:       %.3f (subcooling x%.4f)\n", res.RInternal, res.SubcoolingFactor)
	}
	fmt.Fprintf(w, "Stages:           %d\n", res.Stages)
	if res.Status == model.StatusStageLimitExceeded {
		fmt.Fprintf(w, "Stage limit:      exceeded, stepping stalled at x = %.4f\n", res.BottomsActual)
		return
	}
	fmt.Fprintf(w, "Stages (float):   %.1f\n", res.FractionalStages)
	fmt.Fprintf(w, "Feed stage:       %d\n", res.FeedStage)
	if len(res.Azeotropes) > 0 {
		fmt.Fprintf(w, "Azeotropes:       %s (outside xb..xd)\n", res.AzeotropeList())
	}
}

// addParameterFlags binds the process parameter flags of cmd to p.
func addParameterFlags(cmd *cobra.Command, p *model.Parameters) {
	f := cmd.Flags()
	f.Float64Var(&p.XD, "xd", 0, "distillate composition")
	f.Float64Var(&p.XB, "xb", 0, "bottoms composition")
	f.Float64Var(&p.ZF, "zf", 0, "feed composition")
	f.Float64Var(&p.Q, "q", 0, "feed quality (1 saturated liquid, 0 saturated vapor)")
	f.Float64Var(&p.RFactor, "r-factor", 0, "reflux ratio as a multiple of the minimum")
	f.Float64Var(&p.NM, "nm", 0, "Murphree stage efficiency (0..1)")
	f.Float64Var(&p.SC, "sc", 0, "reflux sub-cooling in K")
}

// applyParameterFlags returns base with every flag the user set applied.
func applyParameterFlags(cmd *cobra.Command, base model.Parameters, p *model.Parameters) model.Parameters {
	f := cmd.Flags()
	set := func(name string, dst *float64, v float64) {
		if f.Changed(name) {
			*dst = v
		}
	}
	set("xd", &base.XD, p.XD)
	set("xb", &base.XB, p.XB)
	set("zf", &base.ZF, p.ZF)
	set("q", &base.Q, p.Q)
	set("r-factor", &base.RFactor, p.RFactor)
	set("nm", &base.NM, p.NM)
	set("sc", &base.SC, p.SC)
	return base
}

func init() {
	rootCmd.AddCommand(calcCmd)
	addParameterFlags(calcCmd, &calcParams)
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "print the full result as JSON")
	calcCmd.Flags().BoolVar(&calcPlot, "plot", true, "include plot geometry in --json output")
}
