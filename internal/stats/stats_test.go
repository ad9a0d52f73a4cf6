package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuantileLinear(t *testing.T) {
	s := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.75, Quantile(s, 0.25), 1e-12)
	assert.InDelta(t, 2.5, Quantile(s, 0.5), 1e-12)
	assert.InDelta(t, 3.25, Quantile(s, 0.75), 1e-12)
	assert.Equal(t, 0.0, Quantile(nil, 0.5))
}

func TestMedian(t *testing.T) {
	m, ok := Median([]float64{10, 5, 7})
	assert.True(t, ok)
	assert.Equal(t, 7.0, m)
	assert.Equal(t, 0.0, MedianOr(nil, 0))
}

func TestStd(t *testing.T) {
	v := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdPop(v), 1e-12)
	assert.InDelta(t, 2.138089935299395, StdSample(v), 1e-12)
	assert.True(t, math.IsNaN(StdSample([]float64{1})))
}

func TestPearsonPairwise(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4}
	y := []float64{2, 4, 100, 8}
	r, n := Pearson(x, y)
	assert.Equal(t, 3, n)
	assert.InDelta(t, 1.0, r, 1e-12)
}

func TestIQRBounds(t *testing.T) {
	lo, hi := IQRBounds([]float64{1, 2, 3, 4}, 1.5)
	assert.InDelta(t, 1.75-2.25, lo, 1e-12)
	assert.InDelta(t, 3.25+2.25, hi, 1e-12)
}

func TestCountsAndMode(t *testing.T) {
	vals := []string{"b", "a", "b", "a", "c"}
	c := Counts(vals)
	assert.Equal(t, []Count{{"a", 2}, {"b", 2}, {"c", 1}}, c)
	m, ok := Mode(vals)
	assert.True(t, ok)
	assert.Equal(t, "a", m)
	_, ok = Mode(nil)
	assert.False(t, ok)
	assert.Len(t, Top(vals, 2), 2)
}

func TestDescribe(t *testing.T) {
	d := Describe([]float64{4, 1, 3, 2})
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 1.0, d.Min)
	assert.Equal(t, 4.0, d.Max)
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, 2.5, d.Q2, 1e-12)
}
