package analysis

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"statkit/domain/stats"
)

// Approximate studentized-range critical value used for the Tukey HSD
// confidence interval. A fixed constant rather than a quantile lookup; the
// p-value itself uses the normal approximation below.
const tukeyApproxCritical = 3.5

// PostHocAnalyzer runs multiple-comparison-corrected pairwise tests after a
// significant omnibus result on more than two groups. The method follows
// the omnibus test: Tukey HSD for the equal-variance parametric branch,
// Games-Howell for the Welch branch, Dunn for the rank-based branch.
type PostHocAnalyzer struct {
	dist *Distributions
}

// NewPostHocAnalyzer creates a new post-hoc analyzer
func NewPostHocAnalyzer() *PostHocAnalyzer {
	return &PostHocAnalyzer{dist: NewDistributions()}
}

// pairContext carries the shared per-group quantities each pairwise
// comparison reads. Computed once, read-only afterwards.
type pairContext struct {
	means    []float64
	vars     []float64
	ns       []int
	mse      float64 // Tukey: pooled mean-square error
	mseOK    bool
	meanRank []float64 // Dunn: per-group mean ranks
	rankVar  float64   // Dunn: tie-corrected rank variance
}

// Analyze computes every unordered pairwise comparison with Bonferroni
// adjustment. Pairs run concurrently and merge back in canonical order
// (i ascending, then j ascending, i<j).
func (a *PostHocAnalyzer) Analyze(ctx context.Context, samples []stats.Sample, testType stats.TestType, equalVariance bool, alpha float64) (*stats.PostHocResult, error) {
	k := len(samples)
	if k <= 2 {
		return nil, nil
	}

	var method stats.PostHocMethod
	switch {
	case testType.IsANOVAFamily() && equalVariance:
		method = stats.PostHocTukeyHSD
	case testType.IsANOVAFamily():
		method = stats.PostHocGamesHowell
	case testType == stats.TestKruskalWallis:
		method = stats.PostHocDunn
	default:
		return nil, nil
	}

	groups := make([][]float64, k)
	for i, s := range samples {
		groups[i] = s.Values
	}
	pc := a.prepare(groups, method)

	type pair struct{ i, j int }
	pairs := make([]pair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			pairs = append(pairs, pair{i, j})
		}
	}

	nComparisons := float64(len(pairs))
	comparisons := make([]stats.PairwiseComparison, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	for idx, pr := range pairs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			cmp := a.comparePair(pc, pr.i, pr.j, method, alpha)
			cmp.Group1 = samples[pr.i].Label
			cmp.Group2 = samples[pr.j].Label

			// Bonferroni: multiply the raw p by the comparison count,
			// capped at one.
			if raw, ok := cmp.PValue.Float(); ok {
				adjusted := math.Min(raw*nComparisons, 1.0)
				cmp.AdjustedP = stats.Defined(adjusted)
				cmp.Significant = adjusted < alpha
			} else {
				cmp.AdjustedP = stats.Undefined()
				cmp.Significant = false
			}

			comparisons[idx] = cmp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &stats.PostHocResult{
		Method:          method,
		Comparisons:     comparisons,
		BonferroniAlpha: alpha / nComparisons,
	}, nil
}

// prepare computes the shared quantities once per analysis
func (a *PostHocAnalyzer) prepare(groups [][]float64, method stats.PostHocMethod) *pairContext {
	k := len(groups)
	pc := &pairContext{
		means: make([]float64, k),
		vars:  make([]float64, k),
		ns:    make([]int, k),
	}
	for i, g := range groups {
		pc.means[i] = mean(g)
		pc.vars[i] = variance(g)
		pc.ns[i] = len(g)
	}

	switch method {
	case stats.PostHocTukeyHSD:
		sse := 0.0
		total := 0
		for _, g := range groups {
			sse += sumSquaredDeviations(g)
			total += len(g)
		}
		dfError := total - k
		if dfError > 0 && sse > 0 {
			pc.mse = sse / float64(dfError)
			pc.mseOK = true
		}

	case stats.PostHocDunn:
		pooled := pooledValues(groups)
		ranks := averageRanks(pooled)
		n := float64(len(pooled))

		pc.meanRank = make([]float64, k)
		offset := 0
		for i, g := range groups {
			sum := 0.0
			for j := range g {
				sum += ranks[offset+j]
			}
			pc.meanRank[i] = sum / float64(len(g))
			offset += len(g)
		}

		tieTerm := tieCorrectionTerm(pooled)
		if tieTerm > 0 {
			pc.rankVar = (n*(n+1)*(2*n+1)/6 - tieTerm/2) / (n - 1)
		} else {
			pc.rankVar = n * (n + 1) / 12
		}
	}

	return pc
}

// comparePair computes one raw pairwise comparison. MeanDiff is always the
// signed group1 - group2 difference regardless of method.
func (a *PostHocAnalyzer) comparePair(pc *pairContext, i, j int, method stats.PostHocMethod, alpha float64) stats.PairwiseComparison {
	cmp := stats.PairwiseComparison{
		MeanDiff: pc.means[i] - pc.means[j],
		CILower:  stats.Undefined(),
		CIUpper:  stats.Undefined(),
	}

	switch method {
	case stats.PostHocTukeyHSD:
		a.tukeyPair(&cmp, pc, i, j)
	case stats.PostHocGamesHowell:
		a.gamesHowellPair(&cmp, pc, i, j, alpha)
	case stats.PostHocDunn:
		a.dunnPair(&cmp, pc, i, j)
	}
	return cmp
}

// tukeyPair approximates Tukey's HSD: the studentized-range statistic q is
// referred to the normal distribution via p = 2*(1 - Phi(q/sqrt2)), and the
// interval uses the fixed approximate critical value. Both are documented
// approximations, not the exact studentized-range distribution.
func (a *PostHocAnalyzer) tukeyPair(cmp *stats.PairwiseComparison, pc *pairContext, i, j int) {
	if !pc.mseOK {
		cmp.PValue = stats.Undefined()
		return
	}
	se := math.Sqrt(pc.mse * (1/float64(pc.ns[i]) + 1/float64(pc.ns[j])) / 2)
	if se == 0 {
		cmp.PValue = stats.Undefined()
		return
	}

	q := math.Abs(cmp.MeanDiff) / se
	p := clampProbability(2 * a.dist.NormalCDF(-q/math.Sqrt2))
	cmp.PValue = stats.Defined(p)

	margin := tukeyApproxCritical * se
	cmp.CILower = stats.Defined(cmp.MeanDiff - margin)
	cmp.CIUpper = stats.Defined(cmp.MeanDiff + margin)
}

// gamesHowellPair uses per-group variances with Welch-Satterthwaite degrees
// of freedom
func (a *PostHocAnalyzer) gamesHowellPair(cmp *stats.PairwiseComparison, pc *pairContext, i, j int, alpha float64) {
	ni, nj := float64(pc.ns[i]), float64(pc.ns[j])
	if ni < 2 || nj < 2 {
		cmp.PValue = stats.Undefined()
		return
	}
	vi, vj := pc.vars[i]/ni, pc.vars[j]/nj
	seSq := vi + vj
	if seSq == 0 {
		cmp.PValue = stats.Undefined()
		return
	}
	se := math.Sqrt(seSq)
	df := seSq * seSq / (vi*vi/(ni-1) + vj*vj/(nj-1))

	t := math.Abs(cmp.MeanDiff) / se
	cmp.PValue = stats.Defined(a.dist.TTwoSidedPValue(t, df))

	tCritical := a.dist.TQuantile(1-alpha/2, df)
	margin := tCritical * se
	cmp.CILower = stats.Defined(cmp.MeanDiff - margin)
	cmp.CIUpper = stats.Defined(cmp.MeanDiff + margin)
}

// dunnPair compares mean ranks with the shared tie-corrected rank variance.
// No confidence interval is produced for this method.
func (a *PostHocAnalyzer) dunnPair(cmp *stats.PairwiseComparison, pc *pairContext, i, j int) {
	rankDiff := math.Abs(pc.meanRank[i] - pc.meanRank[j])
	if pc.rankVar <= 0 {
		// Complete ties drain all rank variance.
		if rankDiff == 0 {
			cmp.PValue = stats.Defined(1)
		} else {
			cmp.PValue = stats.Undefined()
		}
		return
	}

	se := math.Sqrt(pc.rankVar * (1/float64(pc.ns[i]) + 1/float64(pc.ns[j])))
	z := rankDiff / se
	cmp.PValue = stats.Defined(clampProbability(2 * a.dist.NormalCDF(-z)))
}
