package analysis

import (
	"math"

	montanaflynn "github.com/montanaflynn/stats"

	"statkit/domain/stats"
)

// HomogeneityTester checks whether groups share a common variance. Both
// Levene's test (median-centered, robust to non-normality) and Bartlett's
// test (assumes normality) are computed, but the binding equal-variance
// decision uses Levene only.
type HomogeneityTester struct {
	dist *Distributions
}

// NewHomogeneityTester creates a new homogeneity tester
func NewHomogeneityTester() *HomogeneityTester {
	return &HomogeneityTester{dist: NewDistributions()}
}

// Test runs both variance diagnostics across all samples. With fewer than
// two groups the question is moot: equal variance holds trivially and no
// test results are attached.
func (t *HomogeneityTester) Test(samples []stats.Sample, alpha float64) stats.HomogeneityReport {
	if len(samples) < 2 {
		return stats.HomogeneityReport{
			EqualVariance:  true,
			Recommendation: "Single group: homogeneity of variance not applicable",
		}
	}

	groups := make([][]float64, len(samples))
	for i, s := range samples {
		groups[i] = s.Values
	}

	levene := t.levene(groups, alpha)
	bartlett := t.bartlett(groups, alpha)

	// Levene drives the decision; when its statistic is degenerate there is
	// no evidence against equal variances.
	equalVariance := true
	if p, ok := levene.PValue.Float(); ok {
		equalVariance = p > alpha
	}

	return stats.HomogeneityReport{
		Levene:         &levene,
		Bartlett:       &bartlett,
		EqualVariance:  equalVariance,
		Recommendation: "Decision based on Levene's test (no normality assumption required)",
	}
}

// levene computes the median-centered (Brown-Forsythe) Levene statistic:
// an ANOVA over absolute deviations from each group's median, referred to
// the F distribution at (k-1, N-k).
func (t *HomogeneityTester) levene(groups [][]float64, alpha float64) stats.VarianceTest {
	k := len(groups)
	totalN := 0
	for _, g := range groups {
		totalN += len(g)
	}

	absDev := make([][]float64, k)
	for i, g := range groups {
		med, _ := montanaflynn.Median(g)
		z := make([]float64, len(g))
		for j, v := range g {
			z[j] = math.Abs(v - med)
		}
		absDev[i] = z
	}

	grandMean := mean(pooledValues(absDev))
	between := 0.0
	within := 0.0
	for _, z := range absDev {
		zMean := mean(z)
		between += float64(len(z)) * (zMean - grandMean) * (zMean - grandMean)
		for _, v := range z {
			within += (v - zMean) * (v - zMean)
		}
	}

	if within == 0 || totalN <= k {
		return stats.VarianceTest{
			Statistic:      stats.Undefined(),
			PValue:         stats.Undefined(),
			Interpretation: "Levene's test undefined for degenerate groups",
		}
	}

	w := (float64(totalN-k) / float64(k-1)) * (between / within)
	p := t.dist.FUpperTail(w, float64(k-1), float64(totalN-k))

	return stats.VarianceTest{
		Statistic:      stats.Defined(w),
		PValue:         stats.Defined(p),
		Interpretation: varianceInterpretation(p, alpha),
	}
}

// bartlett computes Bartlett's chi-squared statistic for equal variances
func (t *HomogeneityTester) bartlett(groups [][]float64, alpha float64) stats.VarianceTest {
	k := len(groups)
	totalN := 0
	for _, g := range groups {
		totalN += len(g)
	}
	dfError := float64(totalN - k)

	pooledVar := 0.0
	logSum := 0.0
	reciprocalSum := 0.0
	degenerate := false
	for _, g := range groups {
		ni := float64(len(g))
		if ni < 2 {
			degenerate = true
			break
		}
		vi := variance(g)
		if vi == 0 {
			// log(0) would blow up the statistic.
			degenerate = true
			break
		}
		pooledVar += (ni - 1) * vi
		logSum += (ni - 1) * math.Log(vi)
		reciprocalSum += 1 / (ni - 1)
	}

	if degenerate || dfError <= 0 {
		return stats.VarianceTest{
			Statistic:      stats.Undefined(),
			PValue:         stats.Undefined(),
			Interpretation: "Bartlett's test undefined for degenerate groups",
		}
	}

	pooledVar /= dfError
	correction := 1 + (reciprocalSum-1/dfError)/(3*float64(k-1))
	statistic := (dfError*math.Log(pooledVar) - logSum) / correction
	p := t.dist.ChiSquaredUpperTail(statistic, float64(k-1))

	return stats.VarianceTest{
		Statistic:      stats.Defined(statistic),
		PValue:         stats.Defined(p),
		Interpretation: varianceInterpretation(p, alpha),
	}
}

func varianceInterpretation(p, alpha float64) string {
	if p > alpha {
		return "Equal-variance assumption holds"
	}
	return "Equal-variance assumption violated"
}
