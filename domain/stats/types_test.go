package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statkit/domain/core"
)

func TestOptionalFloatCollapsesNonFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		f := Defined(v)
		assert.False(t, f.Defined, "non-finite %v must collapse to undefined", v)
	}

	f := Defined(1.5)
	value, ok := f.Float()
	assert.True(t, ok)
	assert.Equal(t, 1.5, value)
}

func TestOptionalFloatJSONNull(t *testing.T) {
	encoded, err := json.Marshal(Undefined())
	require.NoError(t, err)
	assert.Equal(t, "null", string(encoded))

	encoded, err = json.Marshal(Defined(2.25))
	require.NoError(t, err)
	assert.Equal(t, "2.25", string(encoded))

	var decoded OptionalFloat
	require.NoError(t, json.Unmarshal([]byte("null"), &decoded))
	assert.False(t, decoded.Defined)

	require.NoError(t, json.Unmarshal([]byte("3.5"), &decoded))
	value, ok := decoded.Float()
	assert.True(t, ok)
	assert.Equal(t, 3.5, value)
}

func TestNewSampleValidation(t *testing.T) {
	_, err := NewSample("empty", nil)
	assert.Error(t, err)

	_, err = NewSample("bad", []float64{1, math.NaN()})
	assert.Error(t, err)

	values := []float64{1, 2, 3}
	sample, err := NewSample("ok", values)
	require.NoError(t, err)
	assert.Equal(t, 3, sample.N())

	// The sample owns its values.
	values[0] = 99
	assert.Equal(t, 1.0, sample.Values[0])
}

func TestAnalysisOptionsValidate(t *testing.T) {
	assert.NoError(t, DefaultOptions().Validate())

	for _, options := range []AnalysisOptions{
		{Alpha: 0, Confidence: 0.95},
		{Alpha: 1, Confidence: 0.95},
		{Alpha: 0.05, Confidence: 0},
		{Alpha: 0.05, Confidence: 1},
		{Alpha: -0.1, Confidence: 0.95},
	} {
		assert.Error(t, options.Validate(), "options %+v should be rejected", options)
	}
}

func TestNewAnalysisRequestDefaultLabels(t *testing.T) {
	request, err := NewAnalysisRequest([][]float64{{1, 2}, {3, 4}}, nil, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, core.GroupLabel("Group 1"), request.Samples[0].Label)
	assert.Equal(t, core.GroupLabel("Group 2"), request.Samples[1].Label)
	assert.Equal(t, 2, request.GroupCount())
	assert.Equal(t, 4, request.TotalN())
}

func TestNewAnalysisRequestRejectsBadInput(t *testing.T) {
	_, err := NewAnalysisRequest(nil, nil, DefaultOptions())
	assert.Error(t, err)

	_, err = NewAnalysisRequest([][]float64{{1}}, []core.GroupLabel{"A", "B"}, DefaultOptions())
	assert.Error(t, err)

	_, err = NewAnalysisRequest([][]float64{{1}, {}}, nil, DefaultOptions())
	assert.Error(t, err)

	_, err = NewAnalysisRequest([][]float64{{1}}, nil, AnalysisOptions{Alpha: 2, Confidence: 0.95})
	assert.Error(t, err)
}

func TestTestTypeDisplayName(t *testing.T) {
	cases := map[TestType]string{
		TestOneSampleT:    "One-sample t-test",
		TestIndependentT:  "Independent t-test",
		TestWelchT:        "Welch's t-test",
		TestMannWhitney:   "Mann-Whitney U test",
		TestOneWayANOVA:   "One-way ANOVA",
		TestWelchANOVA:    "Welch's ANOVA",
		TestKruskalWallis: "Kruskal-Wallis H test",
	}
	for testType, want := range cases {
		assert.Equal(t, want, testType.DisplayName())
	}

	assert.True(t, TestOneWayANOVA.IsANOVAFamily())
	assert.True(t, TestWelchANOVA.IsANOVAFamily())
	assert.False(t, TestKruskalWallis.IsANOVAFamily())
	assert.False(t, TestIndependentT.IsANOVAFamily())
}
