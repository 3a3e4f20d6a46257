package stats

import (
	"encoding/json"
	"fmt"
	"math"

	"statkit/domain/core"
)

// ============================================================================
// NUMERIC PRIMITIVES
// ============================================================================

// OptionalFloat is a numeric result that is either a finite value or
// explicitly undefined. Degenerate computations (zero variance, zero mean
// denominators) produce the undefined state instead of NaN/Inf, and the
// undefined state serializes as JSON null.
type OptionalFloat struct {
	Value   float64
	Defined bool
}

// Defined wraps a finite value. Non-finite input collapses to Undefined so
// NaN can never leak into a result.
func Defined(v float64) OptionalFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return OptionalFloat{Value: v, Defined: true}
}

// Undefined returns the explicit "no value" marker
func Undefined() OptionalFloat {
	return OptionalFloat{}
}

// Float returns the value and whether it is defined
func (f OptionalFloat) Float() (float64, bool) {
	return f.Value, f.Defined
}

func (f OptionalFloat) MarshalJSON() ([]byte, error) {
	if !f.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

func (f *OptionalFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = Defined(v)
	return nil
}

// ============================================================================
// REQUEST MODEL
// ============================================================================

// Sample is one labeled group of observations. Values are copied on
// construction and never mutated afterwards.
type Sample struct {
	Label  core.GroupLabel `json:"label"`
	Values []float64       `json:"values"`
}

// NewSample creates a sample with validation
func NewSample(label core.GroupLabel, values []float64) (Sample, error) {
	if len(values) == 0 {
		return Sample{}, fmt.Errorf("sample %q must contain at least one value", label)
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Sample{}, fmt.Errorf("sample %q contains non-finite value at index %d", label, i)
		}
	}
	owned := make([]float64, len(values))
	copy(owned, values)
	return Sample{Label: label, Values: owned}, nil
}

// N returns the number of observations
func (s Sample) N() int {
	return len(s.Values)
}

// AnalysisOptions holds the significance and confidence configuration
type AnalysisOptions struct {
	Alpha      float64 `json:"alpha"`
	Confidence float64 `json:"confidence"`
}

// DefaultOptions returns the standard alpha 0.05 / confidence 0.95 setup
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{Alpha: 0.05, Confidence: 0.95}
}

// Validate checks both levels lie strictly inside (0, 1)
func (o AnalysisOptions) Validate() error {
	if o.Alpha <= 0 || o.Alpha >= 1 {
		return fmt.Errorf("alpha must be in (0, 1), got %g", o.Alpha)
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		return fmt.Errorf("confidence must be in (0, 1), got %g", o.Confidence)
	}
	return nil
}

// AnalysisRequest is the immutable input for one engine invocation
type AnalysisRequest struct {
	Samples []Sample        `json:"samples"`
	Options AnalysisOptions `json:"options"`
}

// NewAnalysisRequest creates a request with validation. Labels default to
// "Group 1", "Group 2", ... when empty.
func NewAnalysisRequest(groups [][]float64, labels []core.GroupLabel, options AnalysisOptions) (AnalysisRequest, error) {
	if len(groups) == 0 {
		return AnalysisRequest{}, fmt.Errorf("at least one group is required")
	}
	if len(labels) > 0 && len(labels) != len(groups) {
		return AnalysisRequest{}, fmt.Errorf("labels length %d does not match groups length %d", len(labels), len(groups))
	}
	if err := options.Validate(); err != nil {
		return AnalysisRequest{}, err
	}

	samples := make([]Sample, 0, len(groups))
	for i, g := range groups {
		label := core.DefaultGroupLabel(i)
		if len(labels) > 0 && labels[i] != "" {
			label = labels[i]
		}
		sample, err := NewSample(label, g)
		if err != nil {
			return AnalysisRequest{}, err
		}
		samples = append(samples, sample)
	}

	return AnalysisRequest{Samples: samples, Options: options}, nil
}

// GroupCount returns the number of samples in the request
func (r AnalysisRequest) GroupCount() int {
	return len(r.Samples)
}

// TotalN returns the pooled observation count
func (r AnalysisRequest) TotalN() int {
	total := 0
	for _, s := range r.Samples {
		total += s.N()
	}
	return total
}

// ============================================================================
// DESCRIPTIVE STATISTICS
// ============================================================================

// DescriptiveSummary contains per-sample summary statistics.
// CV is reported in percent and undefined when the mean is zero.
type DescriptiveSummary struct {
	Label   core.GroupLabel `json:"label"`
	N       int             `json:"n"`
	Mean    float64         `json:"mean"`
	Median  float64         `json:"median"`
	Std     float64         `json:"std"`
	SE      float64         `json:"se"`
	Min     float64         `json:"min"`
	Max     float64         `json:"max"`
	Q1      float64         `json:"q1"`
	Q3      float64         `json:"q3"`
	IQR     float64         `json:"iqr"`
	CILower OptionalFloat   `json:"ci_lower"`
	CIUpper OptionalFloat   `json:"ci_upper"`
	CV      OptionalFloat   `json:"cv"`
}

// ============================================================================
// ASSUMPTION DIAGNOSTICS
// ============================================================================

// NormalityTestName identifies which normality diagnostic ran
type NormalityTestName string

const (
	NormalityShapiroWilk       NormalityTestName = "Shapiro-Wilk"
	NormalityKolmogorovSmirnov NormalityTestName = "Kolmogorov-Smirnov"
	NormalityInsufficient      NormalityTestName = "insufficient_sample"
)

// NormalityResult is the per-sample normality diagnostic.
// Samples with n < 3 carry the insufficient marker and count as not normal.
type NormalityResult struct {
	Label          core.GroupLabel   `json:"label"`
	Test           NormalityTestName `json:"test"`
	Statistic      OptionalFloat     `json:"statistic"`
	PValue         OptionalFloat     `json:"p_value"`
	IsNormal       bool              `json:"is_normal"`
	Skewness       OptionalFloat     `json:"skewness"`
	Kurtosis       OptionalFloat     `json:"kurtosis"`
	Interpretation string            `json:"interpretation"`
}

// NormalityReport aggregates per-sample diagnostics.
// AllNormal is the AND across samples; an insufficient-data sample forces it
// false, steering the pipeline toward nonparametric tests.
type NormalityReport struct {
	Results   []NormalityResult `json:"results"`
	AllNormal bool              `json:"all_normal"`
}

// VarianceTest holds one homogeneity test outcome
type VarianceTest struct {
	Statistic      OptionalFloat `json:"statistic"`
	PValue         OptionalFloat `json:"p_value"`
	Interpretation string        `json:"interpretation"`
}

// HomogeneityReport carries both variance diagnostics. The binding
// EqualVariance decision uses Levene only; Bartlett is reported for
// reference because it assumes normality.
type HomogeneityReport struct {
	Levene         *VarianceTest `json:"levene,omitempty"`
	Bartlett       *VarianceTest `json:"bartlett,omitempty"`
	EqualVariance  bool          `json:"equal_variance"`
	Recommendation string        `json:"recommendation"`
}

// ============================================================================
// TEST SELECTION & EFFECT SIZES
// ============================================================================

// TestType tags which hypothesis test the decision table selected
type TestType string

const (
	TestOneSampleT    TestType = "one_sample_ttest"
	TestIndependentT  TestType = "independent_ttest"
	TestWelchT        TestType = "welch_ttest"
	TestMannWhitney   TestType = "mann_whitney_u"
	TestOneWayANOVA   TestType = "one_way_anova"
	TestWelchANOVA    TestType = "welch_anova"
	TestKruskalWallis TestType = "kruskal_wallis"
)

// DisplayName returns the human-readable test name
func (t TestType) DisplayName() string {
	switch t {
	case TestOneSampleT:
		return "One-sample t-test"
	case TestIndependentT:
		return "Independent t-test"
	case TestWelchT:
		return "Welch's t-test"
	case TestMannWhitney:
		return "Mann-Whitney U test"
	case TestOneWayANOVA:
		return "One-way ANOVA"
	case TestWelchANOVA:
		return "Welch's ANOVA"
	case TestKruskalWallis:
		return "Kruskal-Wallis H test"
	default:
		return string(t)
	}
}

// IsANOVAFamily reports whether the test is a parametric k-group omnibus
func (t TestType) IsANOVAFamily() bool {
	return t == TestOneWayANOVA || t == TestWelchANOVA
}

// Magnitude categorizes an effect size
type Magnitude string

const (
	MagnitudeNegligible Magnitude = "negligible"
	MagnitudeSmall      Magnitude = "small"
	MagnitudeMedium     Magnitude = "medium"
	MagnitudeLarge      Magnitude = "large"
)

// EffectSizeType identifies the effect-size family member that was computed
type EffectSizeType string

const (
	EffectCohensD          EffectSizeType = "cohens_d"
	EffectCohensDOneSample EffectSizeType = "cohens_d_one_sample"
	EffectEtaSquared       EffectSizeType = "eta_squared"
	EffectOmegaSquared     EffectSizeType = "omega_squared"
	EffectRankBiserial     EffectSizeType = "rank_biserial"
	EffectEpsilonSquared   EffectSizeType = "epsilon_squared"
)

// Symbol returns the conventional notation for the effect size
func (e EffectSizeType) Symbol() string {
	switch e {
	case EffectCohensD, EffectCohensDOneSample:
		return "Cohen's d"
	case EffectEtaSquared:
		return "η²"
	case EffectOmegaSquared:
		return "ω²"
	case EffectRankBiserial:
		return "r"
	case EffectEpsilonSquared:
		return "ε²"
	default:
		return string(e)
	}
}

// EffectSize is a standardized magnitude of difference
type EffectSize struct {
	Type           EffectSizeType `json:"type"`
	Value          OptionalFloat  `json:"value"`
	Magnitude      Magnitude      `json:"magnitude"`
	Interpretation string         `json:"interpretation"`
}

// TestResult is the omnibus test outcome
type TestResult struct {
	TestType       TestType      `json:"test_type"`
	TestName       string        `json:"test_name"`
	Statistic      OptionalFloat `json:"statistic"`
	PValue         OptionalFloat `json:"p_value"`
	Significant    bool          `json:"significant"`
	EffectSize     EffectSize    `json:"effect_size"`
	Interpretation string        `json:"interpretation"`
}

// ============================================================================
// POST-HOC ANALYSIS
// ============================================================================

// PostHocMethod identifies the pairwise comparison method
type PostHocMethod string

const (
	PostHocTukeyHSD    PostHocMethod = "Tukey HSD"
	PostHocGamesHowell PostHocMethod = "Games-Howell"
	PostHocDunn        PostHocMethod = "Dunn's test"
)

// PairwiseComparison is one i<j group comparison. MeanDiff is always signed
// group1 − group2. Confidence bounds are absent for rank-based methods.
type PairwiseComparison struct {
	Group1      core.GroupLabel `json:"group1"`
	Group2      core.GroupLabel `json:"group2"`
	MeanDiff    float64         `json:"mean_diff"`
	PValue      OptionalFloat   `json:"p_value"`
	AdjustedP   OptionalFloat   `json:"adjusted_p"`
	Significant bool            `json:"significant"`
	CILower     OptionalFloat   `json:"ci_lower"`
	CIUpper     OptionalFloat   `json:"ci_upper"`
}

// PostHocResult holds all pairwise comparisons in canonical (i asc, j asc,
// i<j) order, with the Bonferroni-corrected alpha
type PostHocResult struct {
	Method          PostHocMethod        `json:"method"`
	Comparisons     []PairwiseComparison `json:"comparisons"`
	BonferroniAlpha float64              `json:"bonferroni_alpha"`
}

// ============================================================================
// AGGREGATE RESULT
// ============================================================================

// AnalysisResult is the complete outcome of one invocation, constructed once
// and never mutated afterwards
type AnalysisResult struct {
	ID          core.AnalysisID      `json:"id"`
	Success     bool                 `json:"success"`
	Descriptive []DescriptiveSummary `json:"descriptive"`
	Normality   NormalityReport      `json:"normality"`
	Homogeneity HomogeneityReport    `json:"homogeneity"`
	Test        TestResult           `json:"test"`
	PostHoc     *PostHocResult       `json:"post_hoc"`
	Summary     string               `json:"summary"`
	CreatedAt   core.Timestamp       `json:"created_at"`
}
