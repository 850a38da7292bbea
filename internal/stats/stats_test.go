package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanMedianMinMax(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, Mean(xs))
	assert.Equal(t, 3.0, Median(xs))
	assert.Equal(t, 1.0, Min(xs))
	assert.Equal(t, 5.0, Max(xs))
}

func TestMedian_EvenCount(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	assert.Equal(t, 2.5, Median(xs))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	xs := []float64{3, 1, 2}
	_ = Median(xs)
	assert.Equal(t, []float64{3, 1, 2}, xs)
}

func TestStdDev_SingleSample(t *testing.T) {
	assert.Equal(t, 0.0, StdDev([]float64{5}, 5))
}

func TestStdDev_KnownValue(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	mean := Mean(xs)
	assert.InDelta(t, 2.1381, StdDev(xs, mean), 1e-4)
}
