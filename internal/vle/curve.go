/*
PURPOSE:
  Vapor-liquid equilibrium curve: an ordered (x, y) table with forward
  interpolation (y for a given x) and inverse lookups (x for a given y).

REQUIREMENTS:
  User-specified:
  - IdealY(0) == 0 and IdealY(1) == 1 for every table.
  - Piecewise-linear interpolation between the bracketing table points.
  - Inverse lookup over generated point sequences by binary search on y.

  Implementation-discovered:
  - A Curve is immutable once built; replacement happens at the Store.
  - The q=0 intersection needs an inverse of IdealY that does not assume the
    raw table is convenient to invert directly, so XForIdealY bisects.

ARCHITECTURE INTEGRATION:
  - Used by: internal/engine, internal/cli
  - Uses: internal/numeric, internal/model

ERROR HANDLING:
  - NewCurve returns ErrInvalidTable (wrapped) for short, non-finite or
    unordered tables.
  - CheckMonotonic returns ErrNonMonotonic (wrapped) when y decreases; XForY
    itself assumes the sequence already passed that check.

RELATED FILES:
  - internal/vle/store.go
  - internal/vle/tables.go
*/

package vle

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/numeric"
)

var (
	// ErrInvalidTable marks a table the curve cannot be built from.
	ErrInvalidTable = errors.New("invalid VLE table")
	// ErrNonMonotonic marks a point sequence whose y decreases.
	ErrNonMonotonic = errors.New("point sequence is not monotonic in y")
)

// Curve is an immutable equilibrium table, strictly increasing in x.
type Curve struct {
	points []model.Point
}

// NewCurve validates points and copies them into a Curve.
func NewCurve(points []model.Point) (*Curve, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidTable, len(points))
	}
	for i, p := range points {
		if !finite(p.X) || !finite(p.Y) {
			return nil, fmt.Errorf("%w: point %d (%v, %v) is not finite", ErrInvalidTable, i, p.X, p.Y)
		}
		if i > 0 && p.X <= points[i-1].X {
			return nil, fmt.Errorf("%w: x must strictly increase (point %d: %v after %v)", ErrInvalidTable, i, p.X, points[i-1].X)
		}
	}
	cp := make([]model.Point, len(points))
	copy(cp, points)
	return &Curve{points: cp}, nil
}

// Points returns a copy of the table.
func (c *Curve) Points() []model.Point {
	cp := make([]model.Point, len(c.points))
	copy(cp, c.points)
	return cp
}

// Len is the number of table points.
func (c *Curve) Len() int { return len(c.points) }

// IdealY interpolates the equilibrium vapor fraction at liquid fraction x.
// Queries outside [0,1], or outside the table's x range, clamp to 0 below
// and 1 above.
func (c *Curve) IdealY(x float64) float64 {
	first, last := c.points[0], c.points[len(c.points)-1]
	if x <= 0 || x < first.X {
		return 0
	}
	if x >= 1 || x > last.X {
		return 1
	}

	// i == 0 only when x sits exactly on the first table point
	i := sort.Search(len(c.points), func(i int) bool { return c.points[i].X >= x })
	if i == 0 {
		i = 1
	}
	p1, p2 := c.points[i-1], c.points[i]
	slope := (p2.Y - p1.Y) / (p2.X - p1.X)
	return p1.Y + (x-p1.X)*slope
}

// XForIdealY returns the x where the interpolated curve reaches y, by
// bisection over [0,1].
func (c *Curve) XForIdealY(y float64) float64 {
	return numeric.BisectUnit(func(x float64) float64 { return c.IdealY(x) - y })
}

// Sample evaluates IdealY at n+1 uniform x values over [0,1].
func (c *Curve) Sample(n int) []model.Point {
	out := make([]model.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		x := float64(i) / float64(n)
		out = append(out, model.Point{X: x, Y: c.IdealY(x)})
	}
	return out
}

// XForY inverts a point sequence that is non-decreasing in y. Targets at or
// beyond the ends clamp to the end x values; interior targets are bracketed by
// binary search and interpolated linearly.
func XForY(points []model.Point, y float64) float64 {
	n := len(points)
	if y <= points[0].Y {
		return points[0].X
	}
	if y >= points[n-1].Y {
		return points[n-1].X
	}

	low, high := 0, n-1
	for high-low > 1 {
		mid := (low + high) / 2
		if points[mid].Y < y {
			low = mid
		} else {
			high = mid
		}
	}
	p1, p2 := points[low], points[high]
	return p1.X + (y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y)
}

// CheckMonotonic reports the first place where y decreases.
func CheckMonotonic(points []model.Point) error {
	for i := 1; i < len(points); i++ {
		if points[i].Y < points[i-1].Y {
			return fmt.Errorf("%w: y drops from %.6f to %.6f at x=%.4f",
				ErrNonMonotonic, points[i-1].Y, points[i].Y, points[i].X)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
