package hubness

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// finiteValues returns the finite entries of x. Aggregate statistics in this
// package operate on best-effort data: NaN and infinite contributions are
// skipped at aggregation rather than propagated.
func finiteValues(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// meanOf returns the mean of the finite entries of x, 0 if there are none.
func meanOf(x []float64) float64 {
	f := finiteValues(x)
	if len(f) == 0 {
		return 0
	}
	return stat.Mean(f, nil)
}

// stDevOf returns the population standard deviation of the finite entries
// of x, 0 if there are fewer than two.
func stDevOf(x []float64) float64 {
	f := finiteValues(x)
	if len(f) < 2 {
		return 0
	}
	return stat.PopStdDev(f, nil)
}

// skewOf returns the sample skewness of the finite entries of x, 0 when it
// is not computable (fewer than three entries or zero variance).
func skewOf(x []float64) float64 {
	f := finiteValues(x)
	if len(f) < 3 {
		return 0
	}
	s := stat.Skew(f, nil)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// kurtosisOf returns the excess kurtosis of the finite entries of x, 0 when
// it is not computable (fewer than four entries or zero variance).
func kurtosisOf(x []float64) float64 {
	f := finiteValues(x)
	if len(f) < 4 {
		return 0
	}
	k := stat.ExKurtosis(f, nil)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}

// entropyBase2 returns the base-2 Shannon entropy of the distribution
// obtained by normalizing the histogram. A histogram with no mass has
// entropy 0.
func entropyBase2(hist []float64) float64 {
	total := floats.Sum(hist)
	if total <= 0 {
		return 0
	}
	p := make([]float64, len(hist))
	for c, h := range hist {
		p[c] = h / total
	}
	return stat.Entropy(p) / math.Ln2
}
