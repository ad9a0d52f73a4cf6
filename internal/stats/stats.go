// Package stats holds the small set of descriptive statistics shared by the
// cleaning, preprocessing and analysis stages. Moments come from gonum; the
// quantile uses linear interpolation between order statistics so results
// line up with common dataframe libraries.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sorted returns a sorted copy of vals.
func Sorted(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}

// Quantile expects sorted input. Empty input yields 0.
func Quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// Median returns the median and false when vals is empty.
func Median(vals []float64) (float64, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	return Quantile(Sorted(vals), 0.5), true
}

// MedianOr returns the median, or def when vals is empty.
func MedianOr(vals []float64, def float64) float64 {
	if m, ok := Median(vals); ok {
		return m
	}
	return def
}

func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// StdSample is the n-1 standard deviation. NaN for fewer than two values.
func StdSample(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

// StdPop is the population (n) standard deviation.
func StdPop(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return math.Sqrt(stat.PopVariance(vals, nil))
}

// Skew is the bias-corrected sample skewness. NaN for fewer than three values.
func Skew(vals []float64) float64 {
	if len(vals) < 3 {
		return math.NaN()
	}
	return stat.Skew(vals, nil)
}

// Kurtosis is the bias-corrected excess kurtosis. NaN for fewer than four values.
func Kurtosis(vals []float64) float64 {
	if len(vals) < 4 {
		return math.NaN()
	}
	return stat.ExKurtosis(vals, nil)
}

// Pearson computes the correlation over pairwise-complete observations.
// NaN entries in either slice drop the pair.
func Pearson(x, y []float64) (float64, int) {
	var xs, ys []float64
	for i := range x {
		if i >= len(y) || math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN(), len(xs)
	}
	return stat.Correlation(xs, ys, nil), len(xs)
}

// MinMax returns the extremes of vals; ok is false for empty input.
func MinMax(vals []float64) (lo, hi float64, ok bool) {
	if len(vals) == 0 {
		return 0, 0, false
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, true
}

// Summary is the describe() view of a numeric column.
type Summary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	Q1    float64 `json:"q1"`
	Q2    float64 `json:"median"`
	Q3    float64 `json:"q3"`
	Max   float64 `json:"max"`
}

// Describe summarises vals. Std is the sample standard deviation.
func Describe(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	s := Sorted(vals)
	return Summary{
		Count: len(s),
		Mean:  Mean(s),
		Std:   StdSample(s),
		Min:   s[0],
		Q1:    Quantile(s, 0.25),
		Q2:    Quantile(s, 0.5),
		Q3:    Quantile(s, 0.75),
		Max:   s[len(s)-1],
	}
}

// IQRBounds returns Q1-k*IQR and Q3+k*IQR.
func IQRBounds(vals []float64, k float64) (lower, upper float64) {
	s := Sorted(vals)
	q1 := Quantile(s, 0.25)
	q3 := Quantile(s, 0.75)
	iqr := q3 - q1
	return q1 - k*iqr, q3 + k*iqr
}
