package numeric_test

import (
	"math"
	"testing"

	"github.com/daryltucker/mccabe-thiele/internal/numeric"
)

func TestGoldenMinKink(t *testing.T) {
	tests := []struct {
		name      string
		low, high float64
		at        float64
		tol       float64
	}{
		{"unit interval", 0, 1, 0.3, 1e-6},
		{"narrow bracket", 0.599, 0.601, 0.6003, 1e-9},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := numeric.GoldenMin(func(x float64) float64 { return math.Abs(x - tc.at) }, tc.low, tc.high, numeric.Iterations)
			if math.Abs(got-tc.at) > tc.tol {
				t.Errorf("expected %v, got %.12f", tc.at, got)
			}
		})
	}
}

func TestGoldenMinFixedBudget(t *testing.T) {
	calls := 0
	numeric.GoldenMin(func(x float64) float64 {
		calls++
		return (x - 0.25) * (x - 0.25)
	}, 0, 1, numeric.Iterations)
	// two interior points to start, then one per step
	if calls != numeric.Iterations+2 {
		t.Errorf("expected %d evaluations, got %d", numeric.Iterations+2, calls)
	}
}
