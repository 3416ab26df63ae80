/*
PURPOSE:
  High-level runner that orchestrates a batch of cases.
  Loops through Cases -> engine.Run against one table snapshot and records
  every outcome.

REQUIREMENTS:
  User-specified:
  - Run every configured case.
  - Log results to CSV/JSON.

  Implementation-discovered:
  - All cases of a batch must see the same table, so the runner holds a
    single *vle.Curve snapshot for its lifetime.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine, internal/output, internal/config

ERROR HANDLING:
  - Logs errors but continues (resilience). A failing case is written with
    Status "error" and its message.

USAGE:
  engine.RunBatch(cfg, store.Snapshot())

RELATED FILES:
  - internal/engine/mccabe.go
*/

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/daryltucker/mccabe-thiele/internal/config"
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

// ResultWriter persists one result.
type ResultWriter interface {
	Write(model.Result) error
}

// Summary counts batch outcomes by status.
type Summary struct {
	Converged    int
	Infeasible   int
	StageLimited int
	Failed       int
}

// Total is the number of cases run.
func (s Summary) Total() int { return s.Converged + s.Infeasible + s.StageLimited + s.Failed }

// Runner runs cases against one curve and hands each result to its writers.
type Runner struct {
	Curve   *vle.Curve
	Writers []ResultWriter
}

// NewRunner creates a Runner bound to curve.
func NewRunner(curve *vle.Curve, writers ...ResultWriter) *Runner {
	return &Runner{Curve: curve, Writers: writers}
}

// RunCase runs one case and records it. Errors are folded into the result.
func (r *Runner) RunCase(c config.Case) model.Result {
	res, err := Run(r.Curve, c.Parameters)
	if err != nil {
		res = model.Result{Status: model.StatusError, Parameters: c.Parameters, Error: err.Error()}
	}
	res.Name = c.Name

	for _, w := range r.Writers {
		if werr := w.Write(res); werr != nil {
			output.Logger.Error("Failed to write result", "case", c.Name, "error", werr)
		}
	}
	return res
}

// Run executes all cases in order.
func (r *Runner) Run(cases []config.Case) ([]model.Result, Summary) {
	var sum Summary
	results := make([]model.Result, 0, len(cases))
	for _, c := range cases {
		output.Logger.Info("Running case", "case", c.Name)
		res := r.RunCase(c)
		switch res.Status {
		case model.StatusConverged:
			sum.Converged++
			output.Logger.Info("Case converged",
				"case", c.Name,
				"r_min", fmt.Sprintf("%.3f", res.RMin),
				"r", fmt.Sprintf("%.3f", res.R),
				"stages", res.Stages,
				"feed_stage", res.FeedStage,
			)
		case model.StatusInfeasible:
			sum.Infeasible++
			output.Logger.Warn("Case infeasible", "case", c.Name, "azeotropes", res.AzeotropeList())
		case model.StatusStageLimitExceeded:
			sum.StageLimited++
			output.Logger.Warn("Case hit the stage limit", "case", c.Name, "max_stages", MaxStages)
		default:
			sum.Failed++
			output.Logger.Error("Case failed", "case", c.Name, "error", res.Error)
		}
		results = append(results, res)
	}
	return results, sum
}

// RunBatch runs the configured cases on curve, writing the CSV summary and
// a JSONL file of full results into cfg.OutputDir.
func RunBatch(cfg *config.Config, curve *vle.Curve) (Summary, error) {
	cases, err := cfg.Expand()
	if err != nil {
		return Summary{}, err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return Summary{}, fmt.Errorf("failed to create output directory %s: %w", cfg.OutputDir, err)
	}

	csvPath := filepath.Join(cfg.OutputDir, cfg.OutputFile)
	csvWriter, err := output.NewCSVWriter(csvPath)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to init CSV writer at %s: %w", csvPath, err)
	}
	defer csvWriter.Close()

	jsonPath := filepath.Join(cfg.OutputDir, JSONLName(cfg.OutputFile))
	jsonWriter, err := output.NewJSONWriter(jsonPath)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to init JSON writer at %s: %w", jsonPath, err)
	}
	defer jsonWriter.Close()

	_, sum := NewRunner(curve, csvWriter, jsonWriter).Run(cases)
	output.Logger.Info("Batch complete",
		"cases", sum.Total(),
		"converged", sum.Converged,
		"infeasible", sum.Infeasible,
		"stage_limited", sum.StageLimited,
		"failed", sum.Failed,
		"csv", csvPath,
		"jsonl", jsonPath,
	)
	return sum, nil
}

// JSONLName derives the JSON Lines file name from the CSV name.
func JSONLName(csvName string) string {
	return strings.TrimSuffix(csvName, filepath.Ext(csvName)) + ".jsonl"
}
