package engine

import (
	"math"
	"sort"

	"github.com/daryltucker/mccabe-thiele/internal/numeric"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

const (
	// AzeotropeSegments is the number of uniform scan intervals over [0,1].
	AzeotropeSegments = 1000
	// AzeotropeTolerance bounds boundary skipping, de-duplication and how
	// close a tangent touch must come to y = x.
	AzeotropeTolerance = 1e-6
)

// FindAzeotropes scans the curve against y = x and returns every interior
// crossing or tangent touch in increasing x. Contacts at the pure-component
// ends are never reported.
//
// Crossings are found by a sign change between scan points. A touch shows up
// as a scan point where |y - x| is a local minimum with the same sign on both
// sides; the minimum is refined between the neighbours and kept when it comes
// within AzeotropeTolerance of the diagonal.
func FindAzeotropes(c *vle.Curve) []float64 {
	f := func(x float64) float64 { return c.IdealY(x) - x }
	dist := func(x float64) float64 { return math.Abs(f(x)) }

	xs := make([]float64, AzeotropeSegments+1)
	fs := make([]float64, AzeotropeSegments+1)
	for i := range xs {
		xs[i] = float64(i) / AzeotropeSegments
		fs[i] = f(xs[i])
	}
	interior := func(x float64) bool {
		return math.Abs(x) >= AzeotropeTolerance && math.Abs(x-1) >= AzeotropeTolerance
	}

	var found []float64
	left := 0
	for i := 1; i <= AzeotropeSegments; i++ {
		if !interior(xs[left]) || !interior(xs[i]) {
			left = i
			continue
		}
		if fs[left]*fs[i] < 0 {
			found = append(found, numeric.Bisect(f, xs[left], xs[i], numeric.Iterations))
		}
		// an exact zero on the grid keeps the previous point as the left
		// bracket so the crossing is still seen as a sign change
		if fs[i] == 0 {
			continue
		}
		left = i
	}

	for i := 1; i < AzeotropeSegments; i++ {
		if !interior(xs[i-1]) || !interior(xs[i+1]) {
			continue
		}
		if fs[i-1]*fs[i+1] <= 0 {
			continue
		}
		d := math.Abs(fs[i])
		if d > math.Abs(fs[i-1]) || d > math.Abs(fs[i+1]) {
			continue
		}
		x := numeric.GoldenMin(dist, xs[i-1], xs[i+1], numeric.Iterations)
		if dist(x) <= AzeotropeTolerance {
			found = append(found, x)
		} else if d <= AzeotropeTolerance {
			found = append(found, xs[i])
		}
	}

	sort.Float64s(found)
	var out []float64
	for _, x := range found {
		if len(out) == 0 || x-out[len(out)-1] > AzeotropeTolerance {
			out = append(out, x)
		}
	}
	return out
}

// AzeotropesBetween returns the azeotropes lying strictly between xb and xd.
func AzeotropesBetween(azeotropes []float64, xd, xb float64) []float64 {
	lo, hi := math.Min(xd, xb), math.Max(xd, xb)
	var inside []float64
	for _, x := range azeotropes {
		if x > lo && x < hi {
			inside = append(inside, x)
		}
	}
	return inside
}
