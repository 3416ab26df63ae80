package numeric

// invPhi is 1/phi, the golden-section shrink factor.
const invPhi = 0.6180339887498949

// GoldenMin narrows [low, high] towards a minimum of f with exactly
// iterations golden-section steps and returns the midpoint of the final
// bracket. f must be unimodal on [low, high].
func GoldenMin(f func(float64) float64, low, high float64, iterations int) float64 {
	c := high - invPhi*(high-low)
	d := low + invPhi*(high-low)
	fc, fd := f(c), f(d)
	for i := 0; i < iterations; i++ {
		if fc < fd {
			high, d, fd = d, c, fc
			c = high - invPhi*(high-low)
			fc = f(c)
		} else {
			low, c, fc = c, d, fd
			d = low + invPhi*(high-low)
			fd = f(d)
		}
	}
	return (low + high) / 2
}
