package filter

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Default band edges and order used for EEG preprocessing.
const (
	DefaultOrder      = 3
	DefaultLowHz      = 1.0
	DefaultHighHz     = 50.0
	DefaultSampleRate = 256.0
)

// Coefficients holds a digital IIR transfer function b(z)/a(z) with a[0] == 1.
type Coefficients struct {
	B []float64
	A []float64
}

// Design computes a digital Butterworth bandpass of the given order passing
// lowHz..highHz at sample rate fs. The resulting filter has order 2*order.
//
// The design follows the classical route: analog lowpass prototype,
// lowpass-to-bandpass transform, then bilinear transform with pre-warped
// band edges so the -3 dB points land exactly on lowHz and highHz.
func Design(order int, lowHz, highHz, fs float64) (*Coefficients, error) {
	if order < 1 {
		return nil, fmt.Errorf("filter: order must be positive, got %d", order)
	}
	nyq := fs / 2
	if !(lowHz > 0 && lowHz < highHz && highHz < nyq) {
		return nil, fmt.Errorf("filter: band %g-%g Hz invalid for sample rate %g Hz", lowHz, highHz, fs)
	}

	// Work in the normalized domain where fs = 2 (Nyquist = 1).
	const fsNorm = 2.0
	wLow := 2 * fsNorm * math.Tan(math.Pi*(lowHz/nyq)/fsNorm)
	wHigh := 2 * fsNorm * math.Tan(math.Pi*(highHz/nyq)/fsNorm)
	bw := wHigh - wLow
	wo := math.Sqrt(wLow * wHigh)

	poles := prototypePoles(order)
	zeros, poles, gain := lowpassToBandpass(poles, wo, bw)
	zeros, poles, gain = bilinear(zeros, poles, gain, fsNorm)

	b := poly(zeros)
	a := poly(poles)
	c := &Coefficients{B: make([]float64, len(b)), A: make([]float64, len(a))}
	for i := range b {
		c.B[i] = gain * real(b[i])
	}
	for i := range a {
		c.A[i] = real(a[i])
	}
	return c, nil
}

// prototypePoles returns the poles of an analog Butterworth lowpass with
// unit cutoff. The prototype has no zeros and unit gain.
func prototypePoles(order int) []complex128 {
	p := make([]complex128, 0, order)
	for m := -order + 1; m < order; m += 2 {
		theta := math.Pi * float64(m) / float64(2*order)
		p = append(p, -cmplx.Exp(complex(0, theta)))
	}
	return p
}

// lowpassToBandpass maps an all-pole analog lowpass onto a bandpass centred
// at wo with bandwidth bw. Each pole splits into two and order zeros are
// placed at the origin.
func lowpassToBandpass(poles []complex128, wo, bw float64) (zeros, out []complex128, gain float64) {
	degree := len(poles)
	out = make([]complex128, 0, 2*degree)
	scaled := make([]complex128, degree)
	for i, p := range poles {
		scaled[i] = p * complex(bw/2, 0)
	}
	wo2 := complex(wo*wo, 0)
	for _, p := range scaled {
		out = append(out, p+cmplx.Sqrt(p*p-wo2))
	}
	for _, p := range scaled {
		out = append(out, p-cmplx.Sqrt(p*p-wo2))
	}
	zeros = make([]complex128, degree)
	gain = math.Pow(bw, float64(degree))
	return zeros, out, gain
}

// bilinear maps analog zeros/poles to the z-plane. Missing zeros (poles in
// excess of zeros) are placed at z = -1, i.e. at the Nyquist frequency.
func bilinear(zeros, poles []complex128, gain, fs float64) ([]complex128, []complex128, float64) {
	fs2 := complex(2*fs, 0)
	zz := make([]complex128, 0, len(poles))
	pz := make([]complex128, 0, len(poles))
	num, den := complex(1, 0), complex(1, 0)
	for _, z := range zeros {
		zz = append(zz, (fs2+z)/(fs2-z))
		num *= fs2 - z
	}
	for _, p := range poles {
		pz = append(pz, (fs2+p)/(fs2-p))
		den *= fs2 - p
	}
	for len(zz) < len(pz) {
		zz = append(zz, -1)
	}
	return zz, pz, gain * real(num/den)
}

// poly expands the monic polynomial with the given roots, highest power first.
func poly(roots []complex128) []complex128 {
	c := []complex128{1}
	for _, r := range roots {
		next := make([]complex128, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= v * r
		}
		c = next
	}
	return c
}

// Gain returns |H(f)| of the digital filter at frequency freq for sample rate fs.
func (c *Coefficients) Gain(freq, fs float64) float64 {
	w := 2 * math.Pi * freq / fs
	eval := func(coef []float64) complex128 {
		var s complex128
		for k, v := range coef {
			s += complex(v, 0) * cmplx.Exp(complex(0, -w*float64(k)))
		}
		return s
	}
	return cmplx.Abs(eval(c.B) / eval(c.A))
}
