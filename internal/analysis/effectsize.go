package analysis

import (
	"fmt"
	"math"

	"statkit/domain/stats"
)

// EffectSizeCalculator implements the effect-size family keyed by the
// selected test. Each variant guards its denominator and reports an
// explicit undefined value on degeneracy.
type EffectSizeCalculator struct{}

// NewEffectSizeCalculator creates a new effect size calculator
func NewEffectSizeCalculator() *EffectSizeCalculator {
	return &EffectSizeCalculator{}
}

// CohensD computes the standardized mean difference with pooled standard
// deviation
func (c *EffectSizeCalculator) CohensD(g1, g2 []float64) stats.EffectSize {
	n1, n2 := float64(len(g1)), float64(len(g2))
	if n1+n2 <= 2 {
		return undefinedEffect(stats.EffectCohensD)
	}
	v1, v2 := variance(g1), variance(g2)
	pooledStd := math.Sqrt(((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2))
	if pooledStd == 0 {
		return undefinedEffect(stats.EffectCohensD)
	}
	d := (mean(g1) - mean(g2)) / pooledStd
	return newEffect(stats.EffectCohensD, d, dMagnitude(d))
}

// CohensDOneSample computes Cohen's d for a single sample against zero
func (c *EffectSizeCalculator) CohensDOneSample(g []float64) stats.EffectSize {
	sd := stdDev(g)
	if sd == 0 {
		return undefinedEffect(stats.EffectCohensDOneSample)
	}
	d := mean(g) / sd
	return newEffect(stats.EffectCohensDOneSample, d, dMagnitude(d))
}

// EtaSquared computes SS_between / SS_total for a one-way layout
func (c *EffectSizeCalculator) EtaSquared(groups [][]float64) stats.EffectSize {
	grandMean := mean(pooledValues(groups))
	ssBetween := 0.0
	ssTotal := 0.0
	for _, g := range groups {
		gMean := mean(g)
		ssBetween += float64(len(g)) * (gMean - grandMean) * (gMean - grandMean)
		for _, v := range g {
			ssTotal += (v - grandMean) * (v - grandMean)
		}
	}
	if ssTotal == 0 {
		return undefinedEffect(stats.EffectEtaSquared)
	}
	etaSq := ssBetween / ssTotal
	return newEffect(stats.EffectEtaSquared, etaSq, varianceExplainedMagnitude(etaSq))
}

// OmegaSquared computes the less biased variance-explained estimate from
// the one-way F statistic, floored at zero
func (c *EffectSizeCalculator) OmegaSquared(groups [][]float64) stats.EffectSize {
	k := len(groups)
	n := totalCount(groups)
	f, ok := oneWayFStatistic(groups)
	if !ok {
		return undefinedEffect(stats.EffectOmegaSquared)
	}
	dfBetween := float64(k - 1)
	dfWithin := float64(n - k)
	omegaSq := (f - 1) / (f + (dfWithin+1)/dfBetween)
	omegaSq = math.Max(0, omegaSq)
	return newEffect(stats.EffectOmegaSquared, omegaSq, varianceExplainedMagnitude(omegaSq))
}

// RankBiserial computes r = 1 - 2U/(n1*n2) from the Mann-Whitney U
// statistic of the first group
func (c *EffectSizeCalculator) RankBiserial(u float64, n1, n2 int) stats.EffectSize {
	if n1 == 0 || n2 == 0 {
		return undefinedEffect(stats.EffectRankBiserial)
	}
	r := 1 - 2*u/float64(n1*n2)
	return newEffect(stats.EffectRankBiserial, r, rankBiserialMagnitude(r))
}

// EpsilonSquared computes H/(N-1) for the Kruskal-Wallis statistic
func (c *EffectSizeCalculator) EpsilonSquared(h stats.OptionalFloat, n int) stats.EffectSize {
	hVal, ok := h.Float()
	if !ok || n < 2 {
		return undefinedEffect(stats.EffectEpsilonSquared)
	}
	epsilonSq := hVal / float64(n-1)
	return newEffect(stats.EffectEpsilonSquared, epsilonSq, varianceExplainedMagnitude(epsilonSq))
}

// oneWayFStatistic computes just the one-way ANOVA F statistic, shared by
// the omega-squared derivation
func oneWayFStatistic(groups [][]float64) (float64, bool) {
	k := len(groups)
	n := totalCount(groups)
	if k < 2 || n <= k {
		return 0, false
	}
	grandMean := mean(pooledValues(groups))
	ssBetween := 0.0
	ssWithin := 0.0
	for _, g := range groups {
		gMean := mean(g)
		ssBetween += float64(len(g)) * (gMean - grandMean) * (gMean - grandMean)
		ssWithin += sumSquaredDeviations(g)
	}
	if ssWithin == 0 {
		return 0, false
	}
	return (ssBetween / float64(k-1)) / (ssWithin / float64(n-k)), true
}

// Magnitude thresholds, on the absolute value.

func dMagnitude(d float64) stats.Magnitude {
	abs := math.Abs(d)
	switch {
	case abs >= 0.8:
		return stats.MagnitudeLarge
	case abs >= 0.5:
		return stats.MagnitudeMedium
	case abs >= 0.2:
		return stats.MagnitudeSmall
	default:
		return stats.MagnitudeNegligible
	}
}

// varianceExplainedMagnitude has no negligible tier: any variance
// explained below the medium cut point counts as small.
func varianceExplainedMagnitude(v float64) stats.Magnitude {
	switch {
	case v >= 0.14:
		return stats.MagnitudeLarge
	case v >= 0.06:
		return stats.MagnitudeMedium
	default:
		return stats.MagnitudeSmall
	}
}

func rankBiserialMagnitude(r float64) stats.Magnitude {
	abs := math.Abs(r)
	switch {
	case abs >= 0.5:
		return stats.MagnitudeLarge
	case abs >= 0.3:
		return stats.MagnitudeMedium
	case abs >= 0.1:
		return stats.MagnitudeSmall
	default:
		return stats.MagnitudeNegligible
	}
}

func newEffect(effectType stats.EffectSizeType, value float64, magnitude stats.Magnitude) stats.EffectSize {
	return stats.EffectSize{
		Type:           effectType,
		Value:          stats.Defined(value),
		Magnitude:      magnitude,
		Interpretation: fmt.Sprintf("%s = %.3f (%s effect)", effectType.Symbol(), value, magnitude),
	}
}

func undefinedEffect(effectType stats.EffectSizeType) stats.EffectSize {
	return stats.EffectSize{
		Type:           effectType,
		Value:          stats.Undefined(),
		Magnitude:      stats.MagnitudeNegligible,
		Interpretation: fmt.Sprintf("%s undefined for degenerate input", effectType.Symbol()),
	}
}
