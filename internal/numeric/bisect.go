// Package numeric holds the root finding and minimum search shared by the
// curve and engine packages.
//
// Every search runs a fixed number of halvings instead of looping to a
// tolerance, so the cost of a run does not depend on its inputs. Over [0,1],
// Iterations halvings narrow the bracket to 2^-30 (about 1e-9).
package numeric

// Iterations is the halving budget used throughout the engine.
const Iterations = 30

// Bisect narrows [low, high] towards a root of f by comparing the sign of f
// at the midpoint with the sign at low. It runs exactly iterations halvings,
// returning early only when f hits zero at a midpoint.
//
// f must have at most one root in [low, high]. When f(low) and f(high) share
// a sign no root is bracketed and the result drifts to high; callers that
// cannot guarantee a bracket have to check the residual themselves.
func Bisect(f func(float64) float64, low, high float64, iterations int) float64 {
	fLow := f(low)
	for i := 0; i < iterations; i++ {
		mid := (low + high) / 2
		fMid := f(mid)
		if fMid == 0 {
			return mid
		}
		if (fMid < 0) == (fLow < 0) {
			low, fLow = mid, fMid
		} else {
			high = mid
		}
	}
	return (low + high) / 2
}

// BisectUnit is Bisect over [0,1] with the default budget.
func BisectUnit(f func(float64) float64) float64 {
	return Bisect(f, 0, 1, Iterations)
}
