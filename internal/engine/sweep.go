package engine

import (
	"fmt"

	"github.com/daryltucker/mccabe-thiele/internal/config"
	"github.com/daryltucker/mccabe-thiele/internal/model"
	"github.com/daryltucker/mccabe-thiele/internal/vle"
)

// Factors spreads steps+1 reflux factors evenly over [from, to].
func Factors(from, to float64, steps int) []float64 {
	if steps < 1 {
		return []float64{from}
	}
	out := make([]float64, steps+1)
	for i := range out {
		out[i] = from + (to-from)*float64(i)/float64(steps)
	}
	return out
}

// Sweep runs base once per reflux factor on curve. progress, if not nil, is
// called after every point. The base parameters are validated up front so a
// bad input fails once instead of once per point.
func Sweep(curve *vle.Curve, base model.Parameters, factors []float64, progress func(model.Result), writers ...ResultWriter) ([]model.Result, error) {
	if err := ValidateParameters(base); err != nil {
		return nil, err
	}
	r := NewRunner(curve, writers...)
	results := make([]model.Result, 0, len(factors))
	for _, f := range factors {
		p := base
		p.RFactor = f
		res := r.RunCase(config.Case{Name: fmt.Sprintf("r_factor=%.4g", f), Parameters: p})
		results = append(results, res)
		if progress != nil {
			progress(res)
		}
	}
	return results, nil
}
