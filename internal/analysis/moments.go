package analysis

import (
	"errors"
	"math"
	"sort"

	"statkit/domain/stats"
)

// errDegenerateSample marks a computation that divides by sample spread
// encountering zero variance
var errDegenerateSample = errors.New("degenerate sample: zero variance")

// Basic moment helpers shared across the pipeline. Sample variance always
// uses the n-1 divisor.

func mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

func variance(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}
	m := mean(data)
	sumSq := 0.0
	for _, v := range data {
		diff := v - m
		sumSq += diff * diff
	}
	return sumSq / float64(len(data)-1)
}

func stdDev(data []float64) float64 {
	return math.Sqrt(variance(data))
}

// sumSquaredDeviations returns the within-sample sum of squares
func sumSquaredDeviations(data []float64) float64 {
	m := mean(data)
	sum := 0.0
	for _, v := range data {
		diff := v - m
		sum += diff * diff
	}
	return sum
}

// skewness computes the bias-corrected (adjusted Fisher-Pearson) skewness.
// Undefined for n < 3 or zero spread.
func skewness(data []float64) stats.OptionalFloat {
	n := float64(len(data))
	if n < 3 {
		return stats.Undefined()
	}
	m := mean(data)
	m2 := 0.0
	m3 := 0.0
	for _, v := range data {
		d := v - m
		m2 += d * d
		m3 += d * d * d
	}
	m2 /= n
	m3 /= n
	if m2 == 0 {
		return stats.Undefined()
	}
	g1 := m3 / math.Pow(m2, 1.5)
	correction := math.Sqrt(n*(n-1)) / (n - 2)
	return stats.Defined(g1 * correction)
}

// excessKurtosis computes the bias-corrected excess kurtosis.
// Undefined for n < 4 or zero spread.
func excessKurtosis(data []float64) stats.OptionalFloat {
	n := float64(len(data))
	if n < 4 {
		return stats.Undefined()
	}
	m := mean(data)
	m2 := 0.0
	m4 := 0.0
	for _, v := range data {
		d := v - m
		sq := d * d
		m2 += sq
		m4 += sq * sq
	}
	m2 /= n
	m4 /= n
	if m2 == 0 {
		return stats.Undefined()
	}
	g2 := m4/(m2*m2) - 3
	corrected := ((n+1)*g2 + 6) * (n - 1) / ((n - 2) * (n - 3))
	return stats.Defined(corrected)
}

// averageRanks assigns 1-based ranks to the data, averaging over ties
func averageRanks(data []float64) []float64 {
	n := len(data)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return data[order[a]] < data[order[b]]
	})

	ranks := make([]float64, n)
	i := 0
	for i < n {
		j := i
		for j+1 < n && data[order[j+1]] == data[order[i]] {
			j++
		}
		// Positions i..j share the same value; average their ranks.
		avg := float64(i+j+2) / 2.0
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// tieCorrectionTerm computes sum(t^3 - t) over groups of tied values
func tieCorrectionTerm(data []float64) float64 {
	counts := make(map[float64]int, len(data))
	for _, v := range data {
		counts[v]++
	}
	term := 0.0
	for _, t := range counts {
		if t > 1 {
			tf := float64(t)
			term += tf*tf*tf - tf
		}
	}
	return term
}

// pooledValues concatenates group values in group order
// quantileLinear computes the p-quantile with linear interpolation between
// the two closest order statistics, the numpy default convention.
func quantileLinear(data []float64, p float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[hi]-sorted[lo])
}

func pooledValues(groups [][]float64) []float64 {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	pooled := make([]float64, 0, total)
	for _, g := range groups {
		pooled = append(pooled, g...)
	}
	return pooled
}
