package filter

import (
	"math"
	"testing"
)

func defaultDesign(t *testing.T) *Coefficients {
	t.Helper()
	c, err := Design(DefaultOrder, DefaultLowHz, DefaultHighHz, DefaultSampleRate)
	if err != nil {
		t.Fatalf("Design error: %v", err)
	}
	return c
}

func sine(freq, fs float64, n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * freq * float64(i) / fs)
	}
	return x
}

func TestDesignCoefficients(t *testing.T) {
	c := defaultDesign(t)

	wantB := []float64{0.0888046444078639, 0, -0.2664139332235916, 0, 0.2664139332235916, 0, -0.0888046444078639}
	wantA := []float64{1, -3.6139904629873696, 5.32277294092586, -4.314305264458155, 2.184895607671676, -0.6470950062954903, 0.06773325939521226}

	if len(c.B) != 7 || len(c.A) != 7 {
		t.Fatalf("got %d/%d coefficients, want 7/7", len(c.B), len(c.A))
	}
	for i := range wantB {
		if math.Abs(c.B[i]-wantB[i]) > 1e-9 {
			t.Errorf("B[%d] = %v, want %v", i, c.B[i], wantB[i])
		}
		if math.Abs(c.A[i]-wantA[i]) > 1e-9 {
			t.Errorf("A[%d] = %v, want %v", i, c.A[i], wantA[i])
		}
	}
}

func TestDesignFrequencyResponse(t *testing.T) {
	c := defaultDesign(t)

	tests := []struct {
		freq     float64
		want     float64
		tolerate float64
	}{
		{0, 0, 1e-9},
		{1, 1 / math.Sqrt2, 1e-6},
		{10, 1, 1e-3},
		{20, 1, 1e-3},
		{50, 1 / math.Sqrt2, 1e-6},
		{100, 0.0152, 1e-3},
		{128, 0, 1e-9},
	}
	for _, tt := range tests {
		got := c.Gain(tt.freq, DefaultSampleRate)
		if math.Abs(got-tt.want) > tt.tolerate {
			t.Errorf("Gain(%v Hz) = %v, want %v ± %v", tt.freq, got, tt.want, tt.tolerate)
		}
	}
}

func TestDesignRejectsInvalidBand(t *testing.T) {
	tests := []struct {
		name            string
		order           int
		low, high, rate float64
	}{
		{"zero order", 0, 1, 50, 256},
		{"low not positive", 3, 0, 50, 256},
		{"inverted band", 3, 50, 1, 256},
		{"high at nyquist", 3, 1, 128, 256},
		{"high above nyquist", 3, 1, 50, 80},
	}
	for _, tt := range tests {
		if _, err := Design(tt.order, tt.low, tt.high, tt.rate); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestApplyPreservesLength(t *testing.T) {
	c := defaultDesign(t)
	for _, n := range []int{0, 1, 7, 256, 500, 4096} {
		out := c.Apply(sine(10, DefaultSampleRate, n))
		if len(out) != n {
			t.Errorf("len(Apply(%d samples)) = %d", n, len(out))
		}
	}
}

func TestApplyPassesInBandSine(t *testing.T) {
	c := defaultDesign(t)
	out := c.Apply(sine(10, DefaultSampleRate, 500))

	// Past the transient the 10 Hz tone keeps unit amplitude.
	var peak float64
	for _, v := range out[200:] {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak < 0.95 || peak > 1.05 {
		t.Errorf("steady-state peak = %v, want ≈1", peak)
	}
}

func TestApplyRemovesDCOffset(t *testing.T) {
	c := defaultDesign(t)
	x := make([]float64, 2000)
	for i := range x {
		x[i] = 5
	}
	out := c.Apply(x)
	if last := out[len(out)-1]; math.Abs(last) > 1e-6 {
		t.Errorf("DC not rejected: last output = %v", last)
	}
}

func TestApplyIsCausal(t *testing.T) {
	c := defaultDesign(t)
	x := make([]float64, 64)
	x[10] = 1
	out := c.Apply(x)
	for i := 0; i < 10; i++ {
		if out[i] != 0 {
			t.Fatalf("output[%d] = %v before the impulse arrived", i, out[i])
		}
	}
	if out[10] != c.B[0] {
		t.Errorf("output[10] = %v, want b0 = %v", out[10], c.B[0])
	}
}

func TestApplyNormalizesLeadingCoefficient(t *testing.T) {
	c := defaultDesign(t)
	scaled := &Coefficients{B: make([]float64, len(c.B)), A: make([]float64, len(c.A))}
	for i := range c.B {
		scaled.B[i] = 2 * c.B[i]
		scaled.A[i] = 2 * c.A[i]
	}
	x := sine(10, DefaultSampleRate, 100)
	want := c.Apply(x)
	got := scaled.Apply(x)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: %v != %v", i, got[i], want[i])
		}
	}
	if scaled.A[0] != 2*c.A[0] {
		t.Error("Apply mutated the receiver's coefficients")
	}
}

func TestBandpass(t *testing.T) {
	out, err := Bandpass(sine(10, 256, 500), 256)
	if err != nil {
		t.Fatalf("Bandpass error: %v", err)
	}
	if len(out) != 500 {
		t.Fatalf("len = %d, want 500", len(out))
	}

	if _, err := Bandpass([]float64{1, 2, 3}, 90); err == nil {
		t.Error("expected error when 50 Hz exceeds the Nyquist frequency")
	}
}
