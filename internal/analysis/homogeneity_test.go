package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/stats"
	"statkit/internal/testkit"
)

func TestHomogeneitySingleGroup(t *testing.T) {
	tester := NewHomogeneityTester()

	report := tester.Test([]stats.Sample{newSample(t, "only", []float64{1, 2, 3})}, 0.05)

	assert.True(t, report.EqualVariance)
	assert.Nil(t, report.Levene)
	assert.Nil(t, report.Bartlett)
}

func TestHomogeneityEqualSpread(t *testing.T) {
	tester := NewHomogeneityTester()
	gen := testkit.NewNormalGenerator(7)
	samples := []stats.Sample{
		newSample(t, "A", gen.Sample(30, 0, 1)),
		newSample(t, "B", gen.Sample(30, 5, 1)),
	}

	report := tester.Test(samples, 0.05)

	require.NotNil(t, report.Levene)
	require.NotNil(t, report.Bartlett)
	p, ok := report.Levene.PValue.Float()
	require.True(t, ok)
	assert.Greater(t, p, 0.05)
	assert.True(t, report.EqualVariance)
}

func TestHomogeneityUnequalSpread(t *testing.T) {
	tester := NewHomogeneityTester()
	gen := testkit.NewNormalGenerator(7)
	samples := []stats.Sample{
		newSample(t, "narrow", gen.Sample(40, 0, 1)),
		newSample(t, "wide", gen.Sample(40, 0, 12)),
	}

	report := tester.Test(samples, 0.05)

	require.NotNil(t, report.Levene)
	p, ok := report.Levene.PValue.Float()
	require.True(t, ok)
	assert.Less(t, p, 0.05)
	assert.False(t, report.EqualVariance)
}

func TestHomogeneityIrisRejectsEqualVariance(t *testing.T) {
	tester := NewHomogeneityTester()
	groups, labels := testkit.IrisGroups()
	samples := make([]stats.Sample, len(groups))
	for i := range groups {
		var err error
		samples[i], err = stats.NewSample(labels[i], groups[i])
		require.NoError(t, err)
	}

	report := tester.Test(samples, 0.05)

	// The iris sepal-length variances differ across species; the
	// median-centered Levene test rejects at 0.05.
	p, ok := report.Levene.PValue.Float()
	require.True(t, ok)
	assert.Less(t, p, 0.05)
	assert.False(t, report.EqualVariance)
}

func TestHomogeneityDegenerateGroups(t *testing.T) {
	tester := NewHomogeneityTester()
	samples := []stats.Sample{
		newSample(t, "A", []float64{5, 5, 5}),
		newSample(t, "B", []float64{5, 5, 5}),
	}

	report := tester.Test(samples, 0.05)

	// No spread means no evidence against equal variances.
	assert.False(t, report.Levene.Statistic.Defined)
	assert.False(t, report.Bartlett.Statistic.Defined)
	assert.True(t, report.EqualVariance)
}
