package analysis

import (
	"math"

	montanaflynn "github.com/montanaflynn/stats"

	"statkit/domain/stats"
)

// DescriptiveCalculator computes per-sample summary statistics.
// Pure: one sample in, one summary out, no retained state.
type DescriptiveCalculator struct {
	dist *Distributions
}

// NewDescriptiveCalculator creates a new descriptive statistics calculator
func NewDescriptiveCalculator() *DescriptiveCalculator {
	return &DescriptiveCalculator{dist: NewDistributions()}
}

// Summarize computes the descriptive summary for one sample. The confidence
// interval uses the two-sided t critical value at df = n-1.
func (c *DescriptiveCalculator) Summarize(sample stats.Sample, confidence float64) stats.DescriptiveSummary {
	data := sample.Values
	n := len(data)

	m, _ := montanaflynn.Mean(data)
	median, _ := montanaflynn.Median(data)
	minVal, _ := montanaflynn.Min(data)
	maxVal, _ := montanaflynn.Max(data)
	q1 := quantileLinear(data, 0.25)
	q3 := quantileLinear(data, 0.75)

	sd := stdDev(data)
	se := sd / math.Sqrt(float64(n))

	summary := stats.DescriptiveSummary{
		Label:  sample.Label,
		N:      n,
		Mean:   m,
		Median: median,
		Std:    sd,
		SE:     se,
		Min:    minVal,
		Max:    maxVal,
		Q1:     q1,
		Q3:     q3,
		IQR:    q3 - q1,
	}

	// CI needs at least two observations for a t critical value.
	if n > 1 {
		tCritical := c.dist.TQuantile((1+confidence)/2, float64(n-1))
		summary.CILower = stats.Defined(m - tCritical*se)
		summary.CIUpper = stats.Defined(m + tCritical*se)
	} else {
		summary.CILower = stats.Undefined()
		summary.CIUpper = stats.Undefined()
	}

	// Coefficient of variation in percent, undefined for zero mean.
	if m != 0 {
		summary.CV = stats.Defined(sd / m * 100)
	} else {
		summary.CV = stats.Undefined()
	}

	return summary
}
