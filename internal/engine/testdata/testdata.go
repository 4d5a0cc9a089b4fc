package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
)

//go:embed corpus.json
var corpusJSON []byte

// CorpusEntry describes a synthetic EEG window used to validate the
// preprocessing path.
type CorpusEntry struct {
	Name        string  `json:"name"`
	Generator   string  `json:"generator"` // sine, spikes, noise, flat
	FreqHz      float64 `json:"freq_hz"`
	Amplitude   float64 `json:"amplitude"`
	Offset      float64 `json:"offset"`
	Seed        uint64  `json:"seed"`
	N           int     `json:"samples"`
	Degenerate  bool    `json:"degenerate"` // normalization must reject it
	Description string  `json:"description"`
}

// LoadCorpus parses the embedded corpus.json and returns all entries.
func LoadCorpus() ([]CorpusEntry, error) {
	var entries []CorpusEntry
	if err := json.Unmarshal(corpusJSON, &entries); err != nil {
		return nil, fmt.Errorf("parse corpus.json: %w", err)
	}
	return entries, nil
}

// Samples renders the entry at sample rate fs.
func (e CorpusEntry) Samples(fs float64) ([]float64, error) {
	x := make([]float64, e.N)
	switch e.Generator {
	case "sine":
		for i := range x {
			x[i] = e.Amplitude * math.Sin(2*math.Pi*e.FreqHz*float64(i)/fs)
		}
	case "spikes":
		period := int(fs / e.FreqHz)
		if period < 1 {
			return nil, fmt.Errorf("%s: spike rate %v Hz too high for %v Hz", e.Name, e.FreqHz, fs)
		}
		for i := range x {
			// Sharp 20 ms transient followed by a slow negative wave.
			phase := i % period
			switch {
			case float64(phase) < 0.02*fs:
				x[i] = e.Amplitude
			case phase < period/2:
				x[i] = -0.3 * e.Amplitude * math.Sin(math.Pi*float64(phase)/float64(period/2))
			}
		}
	case "noise":
		r := rand.New(rand.NewPCG(e.Seed, e.Seed))
		for i := range x {
			x[i] = e.Amplitude * (2*r.Float64() - 1)
		}
	case "flat":
	default:
		return nil, fmt.Errorf("%s: unknown generator %q", e.Name, e.Generator)
	}
	for i := range x {
		x[i] += e.Offset
	}
	return x, nil
}

// Sine returns n samples of a unit sine at freq Hz sampled at fs.
func Sine(freq, fs float64, n int) []float64 {
	return CorpusEntry{Generator: "sine", FreqHz: freq, Amplitude: 1, N: n}.mustSamples(fs)
}

func (e CorpusEntry) mustSamples(fs float64) []float64 {
	x, err := e.Samples(fs)
	if err != nil {
		panic(err)
	}
	return x
}
