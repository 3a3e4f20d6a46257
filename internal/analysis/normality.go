package analysis

import (
	"math"
	"sort"

	"statkit/domain/stats"
)

// Sample-size boundary between the exact small-sample test and the
// large-sample goodness-of-fit test.
const ksSampleThreshold = 50

// NormalityTester diagnoses whether each sample plausibly came from a
// normal distribution, choosing the test by sample size:
// n < 3 insufficient, 3 <= n < 50 Shapiro-Wilk, n >= 50 Kolmogorov-Smirnov
// against the standard normal after standardization.
type NormalityTester struct {
	dist *Distributions
}

// NewNormalityTester creates a new normality tester
func NewNormalityTester() *NormalityTester {
	return &NormalityTester{dist: NewDistributions()}
}

// TestAll runs the diagnostic on every sample independently and folds the
// per-sample flags. A sample with insufficient data counts as not normal.
func (t *NormalityTester) TestAll(samples []stats.Sample, alpha float64) stats.NormalityReport {
	results := make([]stats.NormalityResult, len(samples))
	allNormal := true
	for i, sample := range samples {
		results[i] = t.Test(sample, alpha)
		allNormal = allNormal && results[i].IsNormal
	}
	return stats.NormalityReport{Results: results, AllNormal: allNormal}
}

// Test runs the diagnostic for a single sample
func (t *NormalityTester) Test(sample stats.Sample, alpha float64) stats.NormalityResult {
	n := sample.N()
	result := stats.NormalityResult{
		Label:    sample.Label,
		Skewness: skewness(sample.Values),
		Kurtosis: excessKurtosis(sample.Values),
	}

	if n < 3 {
		result.Test = stats.NormalityInsufficient
		result.Statistic = stats.Undefined()
		result.PValue = stats.Undefined()
		result.IsNormal = false
		result.Interpretation = "Too few observations to assess normality"
		return result
	}

	var statistic, pValue float64
	var err error
	if n < ksSampleThreshold {
		result.Test = stats.NormalityShapiroWilk
		statistic, pValue, err = t.shapiroWilk(sample.Values)
	} else {
		result.Test = stats.NormalityKolmogorovSmirnov
		statistic, pValue, err = t.kolmogorovSmirnov(sample.Values)
	}

	if err != nil {
		// Zero-variance sample: the test statistic has no meaning, and a
		// constant sample is not normally distributed.
		result.Statistic = stats.Undefined()
		result.PValue = stats.Undefined()
		result.IsNormal = false
		result.Interpretation = "Normality test undefined for degenerate sample"
		return result
	}

	result.Statistic = stats.Defined(statistic)
	result.PValue = stats.Defined(pValue)
	result.IsNormal = pValue > alpha
	if result.IsNormal {
		result.Interpretation = "Consistent with a normal distribution"
	} else {
		result.Interpretation = "Deviates from a normal distribution"
	}
	return result
}

// kolmogorovSmirnov standardizes the sample (n-1 divisor) and computes the
// one-sample KS statistic against the standard normal, with the asymptotic
// Kolmogorov p-value.
func (t *NormalityTester) kolmogorovSmirnov(data []float64) (dStat, p float64, err error) {
	n := len(data)
	m := mean(data)
	sd := stdDev(data)
	if sd == 0 {
		return 0, 0, errDegenerateSample
	}

	standardized := make([]float64, n)
	for i, v := range data {
		standardized[i] = (v - m) / sd
	}
	sort.Float64s(standardized)

	// D = sup over the empirical CDF steps of the distance to Phi.
	dStat = 0.0
	nf := float64(n)
	for i, v := range standardized {
		cdf := t.dist.NormalCDF(v)
		dPlus := float64(i+1)/nf - cdf
		dMinus := cdf - float64(i)/nf
		dStat = math.Max(dStat, math.Max(dPlus, dMinus))
	}

	return dStat, t.dist.KolmogorovUpperTail(dStat, n), nil
}
