package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifiedZScores_SlowFirstSample(t *testing.T) {
	xs := []float64{5.0, 0.1, 0.1, 0.1, 0.1, 0.1}
	scores := ModifiedZScores(xs)
	require.Len(t, scores, len(xs))
	assert.Greater(t, scores[0], OutlierThreshold)
	for _, s := range scores[1:] {
		assert.LessOrEqual(t, s, OutlierThreshold)
	}
}

func TestModifiedZScores_MiddleOutlier(t *testing.T) {
	xs := []float64{0.1, 0.1, 3.0, 0.1, 0.1, 0.1}
	scores := ModifiedZScores(xs)
	assert.LessOrEqual(t, scores[0], OutlierThreshold)
	assert.Greater(t, scores[2], OutlierThreshold)
}

func TestModifiedZScores_DuplicatingFirstSampleDrivesItToZero(t *testing.T) {
	xs := []float64{5.0}
	for i := 0; i < 50; i++ {
		xs = append(xs, 5.0)
	}
	scores := ModifiedZScores(xs)
	assert.Equal(t, 0.0, scores[0])
}

func TestModifiedZScores_AllEqual(t *testing.T) {
	xs := []float64{1, 1, 1, 1}
	scores := ModifiedZScores(xs)
	for _, s := range scores {
		assert.Equal(t, 0.0, s)
	}
}

func TestModifiedZScores_EmptyInput(t *testing.T) {
	assert.Nil(t, ModifiedZScores(nil))
}
