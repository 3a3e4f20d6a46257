package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalCDFReferencePoints(t *testing.T) {
	d := NewDistributions()

	assert.InDelta(t, 0.5, d.NormalCDF(0), 1e-12)
	assert.InDelta(t, 0.975, d.NormalCDF(1.959964), 1e-5)
	assert.InDelta(t, 1.959964, d.NormalQuantile(0.975), 1e-5)
}

func TestTDistributionReferencePoints(t *testing.T) {
	d := NewDistributions()

	assert.InDelta(t, 1.0, d.TTwoSidedPValue(0, 10), 1e-12)
	assert.InDelta(t, 0.05, d.TTwoSidedPValue(2.228139, 10), 1e-5)
	assert.InDelta(t, 2.228139, d.TQuantile(0.975, 10), 1e-5)
}

func TestFUpperTailEqualDegrees(t *testing.T) {
	d := NewDistributions()

	// F with equal numerator and denominator df has median 1.
	assert.InDelta(t, 0.5, d.FUpperTail(1, 5, 5), 1e-9)
	assert.Less(t, d.FUpperTail(10, 3, 20), 0.01)
}

func TestChiSquaredUpperTailReferencePoint(t *testing.T) {
	d := NewDistributions()

	assert.InDelta(t, 0.05, d.ChiSquaredUpperTail(3.841459, 1), 1e-5)
}

func TestFUpperTailKeepsPrecisionInFarTail(t *testing.T) {
	d := NewDistributions()

	// The iris sepal-length ANOVA statistic; its p-value sits near 1.67e-31,
	// far below where 1 - CDF would round to zero.
	p := d.FUpperTail(119.2645, 2, 147)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-30)
	assert.Greater(t, p, 1e-32)
}

func TestChiSquaredUpperTailKeepsPrecisionInFarTail(t *testing.T) {
	d := NewDistributions()

	// With df = 2 the survival function is exactly exp(-x/2).
	p := d.ChiSquaredUpperTail(200, 2)
	assert.InEpsilon(t, math.Exp(-100), p, 1e-9)
}

func TestTTwoSidedPValueKeepsPrecisionInFarTail(t *testing.T) {
	d := NewDistributions()

	p := d.TTwoSidedPValue(50, 10)
	assert.Greater(t, p, 0.0)
	assert.Less(t, p, 1e-10)
}

func TestKolmogorovUpperTailMonotone(t *testing.T) {
	d := NewDistributions()

	small := d.KolmogorovUpperTail(0.05, 100)
	large := d.KolmogorovUpperTail(0.2, 100)

	assert.Greater(t, small, large)
	assert.GreaterOrEqual(t, small, 0.0)
	assert.LessOrEqual(t, small, 1.0)
}

func TestClampProbabilityBounds(t *testing.T) {
	assert.Equal(t, 0.0, clampProbability(-0.3))
	assert.Equal(t, 1.0, clampProbability(1.7))
	assert.Equal(t, 0.42, clampProbability(0.42))
}
