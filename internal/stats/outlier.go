package stats

import "math"

// OutlierThreshold is the modified z-score cutoff used to flag an anomalous
// sample, the value recommended by Iglewicz & Hoaglin and carried by the
// tool this core is modeled on.
const OutlierThreshold = 3.5

// consistencyConstant scales the median absolute deviation so it estimates
// the standard deviation of a normal distribution; 1/0.6745.
const consistencyConstant = 0.6745

// meanADConsistencyConstant is the analogous scale factor for the mean
// absolute deviation, used as a fallback when the MAD is zero (e.g. more
// than half the samples share the exact same value).
const meanADConsistencyConstant = 0.7979

// ModifiedZScores computes the modified z-score of every element of xs
// using the median and the median absolute deviation (MAD). If the MAD is
// zero, it falls back to scaling by the mean absolute deviation so a
// dataset with many ties still produces finite scores instead of dividing
// by zero.
func ModifiedZScores(xs []float64) []float64 {
	if len(xs) == 0 {
		return nil
	}

	med := Median(xs)

	absDevs := make([]float64, len(xs))
	for i, x := range xs {
		absDevs[i] = math.Abs(x - med)
	}
	mad := Median(absDevs)

	scores := make([]float64, len(xs))
	if mad == 0 {
		meanAD := Mean(absDevs)
		if meanAD == 0 {
			return scores // all zero: every sample equals the median
		}
		for i, x := range xs {
			scores[i] = meanADConsistencyConstant * (x - med) / meanAD
		}
		return scores
	}

	for i, x := range xs {
		scores[i] = consistencyConstant * (x - med) / mad
	}
	return scores
}
