package normalize

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrDegenerateSignal is returned when a signal has no variance to scale by.
var ErrDegenerateSignal = errors.New("normalize: signal is empty or constant")

// ZScore returns (x - mean(x)) / std(x) using the population standard
// deviation. x is not modified. Empty or constant input yields
// ErrDegenerateSignal rather than non-finite output.
func ZScore(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrDegenerateSignal
	}
	mean, std := stat.PopMeanStdDev(x, nil)
	if std == 0 || math.IsNaN(std) || math.IsInf(std, 0) {
		return nil, ErrDegenerateSignal
	}

	out := make([]float64, len(x))
	copy(out, x)
	floats.AddConst(-mean, out)
	floats.Scale(1/std, out)
	return out, nil
}
