package analysis

import (
	"math"

	"statkit/domain/stats"
)

// TestSelector maps the assumption diagnostics to exactly one hypothesis
// test and runs it. The selection is a flat decision table over
// (group count, all-normal, equal-variance) so every branch can be
// exercised on its own.
type TestSelector struct {
	dist    *Distributions
	effects *EffectSizeCalculator
}

// NewTestSelector creates a new test selector
func NewTestSelector() *TestSelector {
	return &TestSelector{
		dist:    NewDistributions(),
		effects: NewEffectSizeCalculator(),
	}
}

// SelectTestType resolves the decision table. Normality decides the
// parametric/nonparametric split; equal variance picks the pooled or
// Welch-corrected variant inside the parametric branch.
func SelectTestType(groupCount int, allNormal, equalVariance bool) stats.TestType {
	switch {
	case groupCount == 1:
		return stats.TestOneSampleT
	case groupCount == 2 && !allNormal:
		return stats.TestMannWhitney
	case groupCount == 2 && equalVariance:
		return stats.TestIndependentT
	case groupCount == 2:
		return stats.TestWelchT
	case !allNormal:
		return stats.TestKruskalWallis
	case equalVariance:
		return stats.TestOneWayANOVA
	default:
		return stats.TestWelchANOVA
	}
}

// Run selects and executes the hypothesis test, attaching the matching
// effect size. Significant is p < alpha; an undefined p-value is never
// significant.
func (s *TestSelector) Run(samples []stats.Sample, allNormal, equalVariance bool, alpha float64) stats.TestResult {
	groups := make([][]float64, len(samples))
	for i, sample := range samples {
		groups[i] = sample.Values
	}

	testType := SelectTestType(len(groups), allNormal, equalVariance)

	var statistic, pValue stats.OptionalFloat
	var effect stats.EffectSize

	switch testType {
	case stats.TestOneSampleT:
		statistic, pValue = s.oneSampleT(groups[0])
		effect = s.effects.CohensDOneSample(groups[0])
	case stats.TestIndependentT:
		statistic, pValue = s.pooledT(groups[0], groups[1])
		effect = s.effects.CohensD(groups[0], groups[1])
	case stats.TestWelchT:
		statistic, pValue = s.welchT(groups[0], groups[1])
		effect = s.effects.CohensD(groups[0], groups[1])
	case stats.TestMannWhitney:
		var u float64
		u, statistic, pValue = s.mannWhitneyU(groups[0], groups[1])
		effect = s.effects.RankBiserial(u, len(groups[0]), len(groups[1]))
	case stats.TestOneWayANOVA:
		statistic, pValue = s.OneWayANOVA(groups)
		effect = s.effects.EtaSquared(groups)
	case stats.TestWelchANOVA:
		statistic, pValue = s.welchANOVA(groups)
		effect = s.effects.OmegaSquared(groups)
	case stats.TestKruskalWallis:
		var h stats.OptionalFloat
		h, pValue = s.KruskalWallis(groups)
		statistic = h
		effect = s.effects.EpsilonSquared(h, totalCount(groups))
	}

	significant := false
	if p, ok := pValue.Float(); ok {
		significant = p < alpha
	}

	return stats.TestResult{
		TestType:       testType,
		TestName:       testType.DisplayName(),
		Statistic:      statistic,
		PValue:         pValue,
		Significant:    significant,
		EffectSize:     effect,
		Interpretation: interpretTest(testType, significant, effect),
	}
}

// oneSampleT tests the sample mean against zero
func (s *TestSelector) oneSampleT(g []float64) (stats.OptionalFloat, stats.OptionalFloat) {
	n := float64(len(g))
	sd := stdDev(g)
	if sd == 0 || n < 2 {
		return stats.Undefined(), stats.Undefined()
	}
	t := mean(g) / (sd / math.Sqrt(n))
	p := s.dist.TTwoSidedPValue(t, n-1)
	return stats.Defined(t), stats.Defined(p)
}

// pooledT is the equal-variance two-sample t-test
func (s *TestSelector) pooledT(g1, g2 []float64) (stats.OptionalFloat, stats.OptionalFloat) {
	n1, n2 := float64(len(g1)), float64(len(g2))
	if n1 < 2 || n2 < 2 {
		return stats.Undefined(), stats.Undefined()
	}
	v1, v2 := variance(g1), variance(g2)
	pooled := ((n1-1)*v1 + (n2-1)*v2) / (n1 + n2 - 2)
	se := math.Sqrt(pooled * (1/n1 + 1/n2))
	diff := mean(g1) - mean(g2)
	if se == 0 {
		if diff == 0 {
			// Two identical constant groups: no difference, maximal p.
			return stats.Defined(0), stats.Defined(1)
		}
		return stats.Undefined(), stats.Undefined()
	}
	t := diff / se
	p := s.dist.TTwoSidedPValue(t, n1+n2-2)
	return stats.Defined(t), stats.Defined(p)
}

// welchT is the unequal-variance two-sample t-test with
// Welch-Satterthwaite degrees of freedom
func (s *TestSelector) welchT(g1, g2 []float64) (stats.OptionalFloat, stats.OptionalFloat) {
	n1, n2 := float64(len(g1)), float64(len(g2))
	if n1 < 2 || n2 < 2 {
		return stats.Undefined(), stats.Undefined()
	}
	v1, v2 := variance(g1), variance(g2)
	seSq := v1/n1 + v2/n2
	diff := mean(g1) - mean(g2)
	if seSq == 0 {
		if diff == 0 {
			return stats.Defined(0), stats.Defined(1)
		}
		return stats.Undefined(), stats.Undefined()
	}
	t := diff / math.Sqrt(seSq)
	df := seSq * seSq / ((v1/n1)*(v1/n1)/(n1-1) + (v2/n2)*(v2/n2)/(n2-1))
	p := s.dist.TTwoSidedPValue(t, df)
	return stats.Defined(t), stats.Defined(p)
}

// mannWhitneyU is the two-sided rank-sum test. The returned u is the U
// statistic of the first group; the p-value uses the tie-corrected normal
// approximation with continuity correction.
func (s *TestSelector) mannWhitneyU(g1, g2 []float64) (float64, stats.OptionalFloat, stats.OptionalFloat) {
	n1, n2 := float64(len(g1)), float64(len(g2))
	pooled := pooledValues([][]float64{g1, g2})
	ranks := averageRanks(pooled)

	r1 := 0.0
	for i := range g1 {
		r1 += ranks[i]
	}
	u := r1 - n1*(n1+1)/2

	nTotal := n1 + n2
	tieTerm := tieCorrectionTerm(pooled)
	varU := n1 * n2 / 12 * ((nTotal + 1) - tieTerm/(nTotal*(nTotal-1)))
	if varU <= 0 {
		// Every pooled observation is identical.
		return u, stats.Defined(u), stats.Defined(1)
	}

	z := (math.Abs(u-n1*n2/2) - 0.5) / math.Sqrt(varU)
	if z < 0 {
		z = 0
	}
	p := clampProbability(2 * s.dist.NormalCDF(-z))
	return u, stats.Defined(u), stats.Defined(p)
}

// OneWayANOVA computes the classic equal-variance F test. Exported because
// the post-hoc stage and the omega-squared derivation reuse it.
func (s *TestSelector) OneWayANOVA(groups [][]float64) (stats.OptionalFloat, stats.OptionalFloat) {
	k := len(groups)
	n := totalCount(groups)
	if k < 2 || n <= k {
		return stats.Undefined(), stats.Undefined()
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
		if ssBetween == 0 {
			return stats.Defined(0), stats.Defined(1)
		}
		return stats.Undefined(), stats.Undefined()
	}

	df1 := float64(k - 1)
	df2 := float64(n - k)
	f := (ssBetween / df1) / (ssWithin / df2)
	p := s.dist.FUpperTail(f, df1, df2)
	return stats.Defined(f), stats.Defined(p)
}

// welchANOVA computes Welch's heteroscedastic F test:
// weights w_i = n_i/var_i, weighted grand mean, lambda correction, and the
// F reference at (k-1, 1/lambda).
func (s *TestSelector) welchANOVA(groups [][]float64) (stats.OptionalFloat, stats.OptionalFloat) {
	k := float64(len(groups))
	if k < 2 {
		return stats.Undefined(), stats.Undefined()
	}

	weights := make([]float64, len(groups))
	means := make([]float64, len(groups))
	wSum := 0.0
	for i, g := range groups {
		ni := float64(len(g))
		vi := variance(g)
		if vi == 0 || ni < 2 {
			// A zero-variance group gives an infinite weight.
			return stats.Undefined(), stats.Undefined()
		}
		weights[i] = ni / vi
		means[i] = mean(g)
		wSum += weights[i]
	}

	grandMean := 0.0
	for i := range groups {
		grandMean += weights[i] * means[i]
	}
	grandMean /= wSum

	numerator := 0.0
	lambda := 0.0
	for i, g := range groups {
		d := means[i] - grandMean
		numerator += weights[i] * d * d
		frac := 1 - weights[i]/wSum
		lambda += frac * frac / float64(len(g)-1)
	}
	numerator /= k - 1
	lambda *= 3 / (k*k - 1)

	if lambda <= 0 {
		return stats.Undefined(), stats.Undefined()
	}

	denominator := 1 + (2*(k-2)*lambda)/(k*k-1)
	f := numerator / denominator
	p := s.dist.FUpperTail(f, k-1, 1/lambda)
	return stats.Defined(f), stats.Defined(p)
}

// KruskalWallis computes the tie-corrected H statistic referred to the
// chi-squared distribution at k-1 degrees of freedom. Exported because the
// epsilon-squared effect size and Dunn's post-hoc test share its ranking.
func (s *TestSelector) KruskalWallis(groups [][]float64) (stats.OptionalFloat, stats.OptionalFloat) {
	k := len(groups)
	n := totalCount(groups)
	if k < 2 || n < 2 {
		return stats.Undefined(), stats.Undefined()
	}

	pooled := pooledValues(groups)
	ranks := averageRanks(pooled)
	nf := float64(n)

	h := 0.0
	offset := 0
	for _, g := range groups {
		rSum := 0.0
		for j := range g {
			rSum += ranks[offset+j]
		}
		h += rSum * rSum / float64(len(g))
		offset += len(g)
	}
	h = 12/(nf*(nf+1))*h - 3*(nf+1)

	correction := 1 - tieCorrectionTerm(pooled)/(nf*nf*nf-nf)
	if correction <= 0 {
		// All pooled observations identical: no rank information.
		return stats.Defined(0), stats.Defined(1)
	}
	h /= correction

	p := s.dist.ChiSquaredUpperTail(h, float64(k-1))
	return stats.Defined(h), stats.Defined(p)
}

func totalCount(groups [][]float64) int {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	return total
}
