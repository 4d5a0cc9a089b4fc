package filter

// Apply runs the filter causally over x using the transposed direct form II
// structure with zero initial state. The output has the same length as x.
// No zero-phase correction is applied, so the output lags the input.
func (c *Coefficients) Apply(x []float64) []float64 {
	n := len(c.A)
	if len(c.B) > n {
		n = len(c.B)
	}
	b := pad(c.B, n)
	a := pad(c.A, n)
	if a[0] != 1 {
		a0 := a[0]
		for i := range a {
			a[i] /= a0
			b[i] /= a0
		}
	}

	y := make([]float64, len(x))
	state := make([]float64, n) // state[n-1] stays zero
	for i, xi := range x {
		yi := b[0]*xi + state[0]
		for k := 1; k < n; k++ {
			state[k-1] = b[k]*xi - a[k]*yi + state[k]
		}
		y[i] = yi
	}
	return y
}

// Bandpass filters samples through the default 1-50 Hz third-order
// Butterworth bandpass at sample rate fs.
func Bandpass(samples []float64, fs float64) ([]float64, error) {
	c, err := Design(DefaultOrder, DefaultLowHz, DefaultHighHz, fs)
	if err != nil {
		return nil, err
	}
	return c.Apply(samples), nil
}

func pad(v []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, v)
	return out
}
