package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/daryltucker/mccabe-thiele/internal/engine"
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
)

var (
	sweepParams   model.Parameters
	sweepFrom     float64
	sweepTo       float64
	sweepSteps    int
	sweepOut      string
	sweepProgress bool
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Stage count over a range of reflux factors",
	Long: `Evaluates the base case at evenly spaced reflux factors (R / R_min) and
reports reflux and stage counts for each. The full rows go to a CSV file.`,
	Example: `  mccabe-thiele sweep --from 1.05 --to 4 --steps 60 --nm 0.75
  mccabe-thiele sweep --alpha 2.2 --out ./sweep.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		base := applyParameterFlags(cmd, cfg.Parameters, &sweepParams)

		s := cfg.Sweep
		if cmd.Flags().Changed("from") {
			s.From = sweepFrom
		}
		if cmd.Flags().Changed("to") {
			s.To = sweepTo
		}
		if cmd.Flags().Changed("steps") {
			s.Steps = sweepSteps
		}
		cfg.Sweep = s
		if err := cfg.Validate(); err != nil {
			return err
		}

		curve, err := loadCurve(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		path := sweepOut
		if path == "" {
			path = filepath.Join(cfg.OutputDir, "sweep_"+cfg.OutputFile)
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create output directory for %s: %w", path, err)
		}
		csvWriter, err := output.NewCSVWriter(path)
		if err != nil {
			return fmt.Errorf("failed to init CSV writer at %s: %w", path, err)
		}
		defer csvWriter.Close()

		factors := engine.Factors(s.From, s.To, s.Steps)

		var progress func(model.Result)
		if sweepProgress {
			uiprogress.Start()
			bar := uiprogress.AddBar(len(factors)).AppendCompleted().PrependElapsed()
			var current atomic.Value
			current.Store("")
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return current.Load().(string)
			})
			progress = func(r model.Result) {
				current.Store(r.Name)
				bar.Incr()
			}
		}

		results, err := engine.Sweep(curve, base, factors, progress, csvWriter)
		if sweepProgress {
			uiprogress.Stop()
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%10s %10s %8s %10s %6s  %s\n", "r_factor", "R", "stages", "fractional", "feed", "status")
		for _, r := range results {
			fmt.Fprintf(out, "%10.4f %10.4f %8d %10.2f %6d  %s\n",
				r.Parameters.RFactor, r.R, r.Stages, r.FractionalStages, r.FeedStage, r.Status)
		}
		output.Logger.Info("Sweep complete", "points", len(results), "csv", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
	addParameterFlags(sweepCmd, &sweepParams)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "first reflux factor (default from config)")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "last reflux factor (default from config)")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 0, "number of intervals between from and to (default from config)")
	sweepCmd.Flags().StringVar(&sweepOut, "out", "", "CSV path (default <output_dir>/sweep_<output_file>)")
	sweepCmd.Flags().BoolVar(&sweepProgress, "progress", true, "show a progress bar")
}
