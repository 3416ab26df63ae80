package engine

import (
	"fmt"
	"math"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/numeric"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

// Reflux sub-cooling constants for liquid methanol.
const (
	CpLiquid   = 81.6  // J/(mol·K)
	LatentHeat = 35270 // J/mol
)

const (
	// qTolerance decides when the q-line is treated as vertical (q=1) or
	// horizontal (q=0).
	qTolerance = 1e-6
	// degenerateEps is the smallest denominator the line algebra accepts.
	degenerateEps = 1e-12
)

// Line is y = Slope·x + Intercept.
type Line struct {
	Slope     float64
	Intercept float64
}

// Y evaluates the line at x.
func (l Line) Y(x float64) float64 { return l.Slope*x + l.Intercept }

// LineThrough returns the line through a and b. Vertical lines are degenerate.
func LineThrough(a, b model.Point) (Line, error) {
	dx := b.X - a.X
	if math.Abs(dx) < degenerateEps {
		return Line{}, fmt.Errorf("%w: line through (%.6f, %.6f) and (%.6f, %.6f) is vertical",
			ErrDegenerate, a.X, a.Y, b.X, b.Y)
	}
	slope := (b.Y - a.Y) / dx
	return Line{Slope: slope, Intercept: a.Y - slope*a.X}, nil
}

// QLine returns the feed line y = q/(q-1)·x − zf/(q-1). It is undefined for
// q = 1, where the feed line is vertical at x = zf.
func QLine(q, zf float64) Line {
	return Line{Slope: q / (q - 1), Intercept: -zf / (q - 1)}
}

// QIntersection is where the feed line meets the equilibrium curve.
func QIntersection(c *vle.Curve, q, zf float64) model.Point {
	switch {
	case math.Abs(q-1) < qTolerance:
		return model.Point{X: zf, Y: c.IdealY(zf)}
	case math.Abs(q) < qTolerance:
		return model.Point{X: c.XForIdealY(zf), Y: zf}
	}
	ql := QLine(q, zf)
	x := numeric.BisectUnit(func(x float64) float64 { return c.IdealY(x) - ql.Y(x) })
	return model.Point{X: x, Y: c.IdealY(x)}
}

// MinimumReflux derives R_min from the slope of the line joining (xd, xd)
// to the pinch on the equilibrium curve.
func MinimumReflux(xd float64, pinch model.Point) (float64, error) {
	dx := xd - pinch.X
	if math.Abs(dx) < degenerateEps {
		return 0, fmt.Errorf("%w: pinch x (%.6f) coincides with xd", ErrDegenerate, pinch.X)
	}
	slope := (xd - pinch.Y) / dx
	if math.Abs(1-slope) < degenerateEps {
		return 0, fmt.Errorf("%w: minimum-reflux line has unit slope", ErrDegenerate)
	}
	rmin := slope / (1 - slope)
	if math.IsNaN(rmin) || math.IsInf(rmin, 0) {
		return 0, fmt.Errorf("%w: minimum reflux is not finite", ErrDegenerate)
	}
	if rmin <= 0 {
		return 0, fmt.Errorf("%w: minimum reflux %.4f is not positive (pinch y %.4f at or above xd)",
			ErrDegenerate, rmin, pinch.Y)
	}
	return rmin, nil
}

// SubcoolingFactor is the internal-reflux multiplier 1 + Cp·ΔT/λ for reflux
// returned sc kelvin below its bubble point.
func SubcoolingFactor(sc float64) float64 {
	return 1 + CpLiquid*sc/LatentHeat
}

// OperatingLines is the column geometry derived from one parameter set.
type OperatingLines struct {
	RMin      float64
	R         float64
	RInternal float64
	// Subcooling is the factor applied to R to get RInternal.
	Subcooling float64

	// Pinch is the q-line / equilibrium intersection.
	Pinch model.Point
	// Feed is the ESOL / q-line intersection, where the sections meet.
	Feed model.Point

	Rectifying Line
	Stripping  Line
}

// Y evaluates the operating line for the section x falls in: rectifying
// above the feed point, stripping at or below it.
func (o OperatingLines) Y(x float64) float64 {
	if x > o.Feed.X {
		return o.Rectifying.Y(x)
	}
	return o.Stripping.Y(x)
}

// BuildOperatingLines derives reflux and both operating lines for p.
func BuildOperatingLines(c *vle.Curve, p model.Parameters) (OperatingLines, error) {
	var ol OperatingLines

	ol.Pinch = QIntersection(c, p.Q, p.ZF)
	rmin, err := MinimumReflux(p.XD, ol.Pinch)
	if err != nil {
		return ol, err
	}
	ol.RMin = rmin
	ol.R = rmin * p.RFactor
	ol.Subcooling = SubcoolingFactor(p.SC)
	ol.RInternal = ol.R * ol.Subcooling

	ol.Rectifying = Line{
		Slope:     ol.RInternal / (ol.RInternal + 1),
		Intercept: p.XD / (ol.RInternal + 1),
	}

	if math.Abs(p.Q-1) < qTolerance {
		ol.Feed.X = p.ZF
	} else {
		ql := QLine(p.Q, p.ZF)
		den := ql.Slope - ol.Rectifying.Slope
		if math.Abs(den) < degenerateEps {
			return ol, fmt.Errorf("%w: rectifying line is parallel to the q-line", ErrDegenerate)
		}
		ol.Feed.X = (ol.Rectifying.Intercept - ql.Intercept) / den
	}
	ol.Feed.Y = ol.Rectifying.Y(ol.Feed.X)

	ol.Stripping, err = LineThrough(model.Point{X: p.XB, Y: p.XB}, ol.Feed)
	if err != nil {
		return ol, fmt.Errorf("stripping line: %w", err)
	}
	return ol, nil
}
