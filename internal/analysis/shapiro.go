package analysis

import (
	"fmt"
	"math"
	"sort"
)

// shapiroWilk computes the Shapiro-Wilk W statistic and its p-value using
// Royston's AS R94 approximation (valid for 3 <= n <= 5000). The n = 3 case
// uses the exact small-sample formula.
func (t *NormalityTester) shapiroWilk(data []float64) (w, p float64, err error) {
	n := len(data)
	if n < 3 {
		return 0, 0, fmt.Errorf("shapiro-wilk requires at least 3 observations, got %d", n)
	}

	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)

	ssd := sumSquaredDeviations(sorted)
	if ssd == 0 {
		return 0, 0, errDegenerateSample
	}

	weights := t.shapiroWeights(n)

	// W = (sum a_i x_(i))^2 / sum (x_i - mean)^2
	num := 0.0
	for i, v := range sorted {
		num += weights[i] * v
	}
	w = num * num / ssd
	if w > 1 {
		w = 1
	}

	p = t.shapiroPValue(w, n)
	return w, p, nil
}

// shapiroWeights computes the coefficient vector a using the expected normal
// order statistics approximation m_i = Phi^-1((i - 3/8) / (n + 1/4)) and
// Royston's polynomial corrections for the two extreme coefficients.
func (t *NormalityTester) shapiroWeights(n int) []float64 {
	nf := float64(n)
	m := make([]float64, n)
	ssq := 0.0
	for i := 0; i < n; i++ {
		m[i] = t.dist.NormalQuantile((float64(i+1) - 0.375) / (nf + 0.25))
		ssq += m[i] * m[i]
	}

	a := make([]float64, n)
	if n == 3 {
		a[0] = -math.Sqrt(0.5)
		a[1] = 0
		a[2] = math.Sqrt(0.5)
		return a
	}

	u := 1 / math.Sqrt(nf)
	rootSsq := math.Sqrt(ssq)

	an := m[n-1]/rootSsq +
		u*(0.221157+u*(-0.147981+u*(-2.071190+u*(4.434685+u*(-2.706056)))))

	if n > 5 {
		an1 := m[n-2]/rootSsq +
			u*(0.042981+u*(-0.293762+u*(-1.752461+u*(5.682633+u*(-3.582633)))))

		phi := (ssq - 2*m[n-1]*m[n-1] - 2*m[n-2]*m[n-2]) /
			(1 - 2*an*an - 2*an1*an1)
		rootPhi := math.Sqrt(phi)

		a[n-1] = an
		a[n-2] = an1
		a[0] = -an
		a[1] = -an1
		for i := 2; i < n-2; i++ {
			a[i] = m[i] / rootPhi
		}
		return a
	}

	// n = 4 or 5: only the outermost coefficient is corrected.
	phi := (ssq - 2*m[n-1]*m[n-1]) / (1 - 2*an*an)
	rootPhi := math.Sqrt(phi)

	a[n-1] = an
	a[0] = -an
	for i := 1; i < n-1; i++ {
		a[i] = m[i] / rootPhi
	}
	return a
}

// shapiroPValue transforms W to an approximately standard normal deviate and
// returns the upper-tail probability (Royston 1995)
func (t *NormalityTester) shapiroPValue(w float64, n int) float64 {
	nf := float64(n)

	if n == 3 {
		// Exact small-sample distribution.
		p := (6 / math.Pi) * (math.Asin(math.Sqrt(w)) - math.Asin(math.Sqrt(0.75)))
		return clampProbability(p)
	}

	oneMinusW := 1 - w
	if oneMinusW <= 0 {
		return 1.0
	}

	var z float64
	if n <= 11 {
		gamma := -2.273 + 0.459*nf
		arg := gamma - math.Log(oneMinusW)
		if arg <= 0 {
			return 0.0
		}
		wTrans := -math.Log(arg)
		mu := 0.5440 + nf*(-0.39978+nf*(0.025054+nf*(-0.0006714)))
		sigma := math.Exp(1.3822 + nf*(-0.77857+nf*(0.062767+nf*(-0.0020322))))
		z = (wTrans - mu) / sigma
	} else {
		lnN := math.Log(nf)
		wTrans := math.Log(oneMinusW)
		mu := -1.5861 + lnN*(-0.31082+lnN*(-0.083751+lnN*0.0038915))
		sigma := math.Exp(-0.4803 + lnN*(-0.082676+lnN*0.0030302))
		z = (wTrans - mu) / sigma
	}

	return clampProbability(t.dist.NormalCDF(-z))
}
