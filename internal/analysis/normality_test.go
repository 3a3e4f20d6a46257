package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/stats"
	"statkit/internal/testkit"
)

func TestNormalityInsufficientSample(t *testing.T) {
	tester := NewNormalityTester()

	result := tester.Test(newSample(t, "tiny", []float64{1, 2}), 0.05)

	assert.Equal(t, stats.NormalityInsufficient, result.Test)
	assert.False(t, result.Statistic.Defined)
	assert.False(t, result.PValue.Defined)
	assert.False(t, result.IsNormal)
}

func TestShapiroWilkSymmetricTriple(t *testing.T) {
	tester := NewNormalityTester()

	// n=3 has a closed form; an evenly spaced triple reaches W = 1.
	result := tester.Test(newSample(t, "triple", []float64{1, 2, 3}), 0.05)

	assert.Equal(t, stats.NormalityShapiroWilk, result.Test)
	w, ok := result.Statistic.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, w, 1e-9)
	p, ok := result.PValue.Float()
	require.True(t, ok)
	assert.InDelta(t, 1.0, p, 1e-6)
	assert.True(t, result.IsNormal)
}

func TestShapiroWilkAcceptsNormalData(t *testing.T) {
	tester := NewNormalityTester()

	result := tester.Test(newSample(t, "ref", testkit.ReferenceGroup1), 0.05)

	assert.Equal(t, stats.NormalityShapiroWilk, result.Test)
	w, ok := result.Statistic.Float()
	require.True(t, ok)
	assert.Greater(t, w, 0.8)
	assert.LessOrEqual(t, w, 1.0)
	assert.True(t, result.IsNormal)
}

func TestShapiroWilkRejectsSkewedData(t *testing.T) {
	tester := NewNormalityTester()
	skewed := []float64{1, 1, 1, 2, 2, 2, 3, 3, 4, 5, 8, 15, 40, 90, 250}

	result := tester.Test(newSample(t, "skewed", skewed), 0.05)

	assert.Equal(t, stats.NormalityShapiroWilk, result.Test)
	p, ok := result.PValue.Float()
	require.True(t, ok)
	assert.Less(t, p, 0.05)
	assert.False(t, result.IsNormal)
}

func TestKolmogorovSmirnovLargeSample(t *testing.T) {
	tester := NewNormalityTester()
	gen := testkit.NewNormalGenerator(42)

	result := tester.Test(newSample(t, "big", gen.Sample(80, 10, 2)), 0.05)

	assert.Equal(t, stats.NormalityKolmogorovSmirnov, result.Test)
	d, ok := result.Statistic.Float()
	require.True(t, ok)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 0.2)
	assert.True(t, result.IsNormal)
}

func TestNormalityDegenerateSample(t *testing.T) {
	tester := NewNormalityTester()
	constant := make([]float64, 60)
	for i := range constant {
		constant[i] = 3.14
	}

	result := tester.Test(newSample(t, "const", constant), 0.05)

	assert.False(t, result.Statistic.Defined)
	assert.False(t, result.PValue.Defined)
	assert.False(t, result.IsNormal)
}

func TestTestAllFoldsInsufficientAsNotNormal(t *testing.T) {
	tester := NewNormalityTester()
	samples := []stats.Sample{
		newSample(t, "ok", testkit.ReferenceGroup1),
		newSample(t, "tiny", []float64{1, 2}),
	}

	report := tester.TestAll(samples, 0.05)

	require.Len(t, report.Results, 2)
	assert.True(t, report.Results[0].IsNormal)
	assert.False(t, report.Results[1].IsNormal)
	assert.False(t, report.AllNormal)
}

func TestSkewnessAndKurtosisAttached(t *testing.T) {
	tester := NewNormalityTester()

	result := tester.Test(newSample(t, "ref", testkit.ReferenceGroup2), 0.05)

	assert.True(t, result.Skewness.Defined)
	assert.True(t, result.Kurtosis.Defined)

	// Too few observations for the bias-corrected moments.
	small := tester.Test(newSample(t, "pair", []float64{1, 5}), 0.05)
	assert.False(t, small.Skewness.Defined)
	assert.False(t, small.Kurtosis.Defined)
}
