/*
PURPOSE:
  McCabe-Thiele engine entry point. Runs the feasibility gate, builds the
  operating lines and the effective curve, steps off the stages and packs
  everything a renderer needs into a model.Result.

REQUIREMENTS:
  User-specified:
  - Azeotropes inside the separation window stop the run with an
    infeasibility result carrying them, before any line is built.
  - Stage stepping is bounded and a run that hits the bound says so.
  - Input errors, numeric degeneracy, infeasibility and the stage limit are
    distinguishable by the caller.

  Implementation-discovered:
  - Infeasible and stage-limited runs are results (Status), not errors: both
    are valid answers about the column. Bad input and broken algebra are
    errors, matched with errors.Is.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Runner, Sweep), internal/cli
  - Uses: internal/vle, internal/model, internal/output

ERROR HANDLING:
  - ErrInvalidParameters for out-of-domain input (nothing computed).
  - ErrDegenerate for zero denominators and non-monotonic effective curves.

IMPLEMENTATION RULES:
  - Synchronous and deterministic; all loops have fixed bounds.
  - The curve is an immutable snapshot; the engine keeps no state between runs.

USAGE:
  res, err := engine.Run(store.Snapshot(), params)

RELATED FILES:
  - internal/engine/lines.go
  - internal/engine/stepper.go
*/

package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/output"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

var (
	// ErrInvalidParameters marks process parameters outside their domain.
	ErrInvalidParameters = errors.New("invalid process parameters")
	// ErrDegenerate marks a computation that would divide by (nearly) zero
	// or otherwise leave the numeric core undefined.
	ErrDegenerate = errors.New("numeric degeneracy")
	// ErrNonMonotonic is returned (wrapped with ErrDegenerate) when the
	// effective curve cannot be inverted.
	ErrNonMonotonic = vle.ErrNonMonotonic
)

// ValidateParameters checks that every field is finite and inside its domain.
func ValidateParameters(p model.Parameters) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"xd", p.XD}, {"xb", p.XB}, {"zf", p.ZF}, {"q", p.Q},
		{"r_factor", p.RFactor}, {"nm", p.NM}, {"sc", p.SC},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidParameters, f.name)
		}
	}

	switch {
	case !(p.XB > 0 && p.XB < p.XD && p.XD < 1):
		return fmt.Errorf("%w: need 0 < xb < xd < 1 (xb=%v, xd=%v)", ErrInvalidParameters, p.XB, p.XD)
	case p.ZF < 0 || p.ZF > 1:
		return fmt.Errorf("%w: zf must lie in [0, 1] (zf=%v)", ErrInvalidParameters, p.ZF)
	case p.NM < 0 || p.NM > 1:
		return fmt.Errorf("%w: nm must lie in [0, 1] (nm=%v)", ErrInvalidParameters, p.NM)
	case p.RFactor <= 0:
		return fmt.Errorf("%w: r_factor must be positive (r_factor=%v)", ErrInvalidParameters, p.RFactor)
	case p.SC < 0:
		return fmt.Errorf("%w: sc must not be negative (sc=%v)", ErrInvalidParameters, p.SC)
	}
	return nil
}

// Run computes one McCabe-Thiele diagram on curve c.
func Run(c *vle.Curve, p model.Parameters) (model.Result, error) {
	if err := ValidateParameters(p); err != nil {
		return model.Result{}, err
	}
	if p.ZF <= p.XB || p.ZF >= p.XD {
		output.Logger.Warn("Unusual composition order, expected xd > zf > xb", "xd", p.XD, "zf", p.ZF, "xb", p.XB)
	}

	res := model.Result{Parameters: p}

	azeotropes := FindAzeotropes(c)
	if inside := AzeotropesBetween(azeotropes, p.XD, p.XB); len(inside) > 0 {
		res.Status = model.StatusInfeasible
		res.Azeotropes = inside
		output.Logger.Warn("Separation crosses an azeotrope", "xd", p.XD, "xb", p.XB, "azeotropes", res.AzeotropeList())
		return res, nil
	}
	res.Azeotropes = azeotropes

	ol, err := BuildOperatingLines(c, p)
	if err != nil {
		return model.Result{}, err
	}
	res.RMin = ol.RMin
	res.R = ol.R
	res.RInternal = ol.RInternal
	res.SubcoolingFactor = ol.Subcooling

	effective, err := EffectiveCurve(c, ol, p.NM)
	if err != nil {
		return model.Result{}, err
	}

	steps := StepStages(effective, ol, p.XD, p.XB)
	res.Status = steps.Status
	res.Stages = steps.Stages
	res.FeedStage = steps.FeedStage
	res.FractionalStages = steps.Fractional
	res.BottomsActual = steps.BottomsActual

	res.Plot = &model.Plot{
		IdealCurve:     c.Sample(EffectiveIntervals),
		EffectiveCurve: effective,
		Line45:         []model.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
		QLine:          []model.Point{{X: p.ZF, Y: p.ZF}, ol.Pinch},
		ESOL:           []model.Point{{X: p.XD, Y: p.XD}, ol.Feed},
		SSOL:           []model.Point{{X: p.XB, Y: p.XB}, ol.Feed},
		Steps:          steps.Segments,
	}

	if steps.Status == model.StatusStageLimitExceeded {
		output.Logger.Warn("Stage limit exceeded", "max_stages", MaxStages, "x_reached", steps.BottomsActual, "xb", p.XB)
	} else {
		output.Logger.Debug("Stepping converged",
			"stages", res.Stages,
			"fractional", fmt.Sprintf("%.2f", res.FractionalStages),
			"feed_stage", res.FeedStage,
		)
	}
	return res, nil
}
