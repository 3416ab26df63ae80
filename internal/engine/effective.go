package engine

import (
	"fmt"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

// EffectiveIntervals is the number of uniform x intervals sampled over [0,1]
// for the ideal and effective curves (EffectiveIntervals+1 points).
const EffectiveIntervals = 100

// MurphreeY moves a fraction nm of the way from the operating line towards
// equilibrium.
func MurphreeY(yOp, yIdeal, nm float64) float64 {
	return yOp + nm*(yIdeal-yOp)
}

// EffectiveCurve builds the efficiency-corrected equilibrium curve used for
// stepping. Each sample uses the operating line of its own section, so the
// curve is continuous but kinks at the feed point.
//
// The result must be non-decreasing in y for the inverse lookup; a curve that
// is not returns ErrNonMonotonic, which also matches ErrDegenerate.
func EffectiveCurve(c *vle.Curve, ol OperatingLines, nm float64) ([]model.Point, error) {
	pts := make([]model.Point, 0, EffectiveIntervals+1)
	for i := 0; i <= EffectiveIntervals; i++ {
		x := float64(i) / EffectiveIntervals
		pts = append(pts, model.Point{X: x, Y: MurphreeY(ol.Y(x), c.IdealY(x), nm)})
	}
	if err := vle.CheckMonotonic(pts); err != nil {
		return nil, fmt.Errorf("%w: effective curve (nm=%.3f): %w", ErrDegenerate, nm, err)
	}
	return pts, nil
}
