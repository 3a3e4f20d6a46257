package analysis

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/errors"
)

// Engine runs the full adaptive pipeline: descriptive statistics and
// normality per group, homogeneity of variance across groups, decision-table
// test selection with effect size, then post-hoc comparisons when the
// omnibus result warrants them. The engine holds no per-request state; the
// same request always produces the same result apart from ID and timestamp.
type Engine struct {
	descriptive *DescriptiveCalculator
	normality   *NormalityTester
	homogeneity *HomogeneityTester
	selector    *TestSelector
	postHoc     *PostHocAnalyzer
	logger      *internal.Logger

	// postHocTimeout bounds only the pairwise comparison phase; zero
	// disables the bound.
	postHocTimeout time.Duration
}

// NewEngine creates a fully wired analysis engine
func NewEngine(logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{
		descriptive: NewDescriptiveCalculator(),
		normality:   NewNormalityTester(),
		homogeneity: NewHomogeneityTester(),
		selector:    NewTestSelector(),
		postHoc:     NewPostHocAnalyzer(),
		logger:      logger,
	}
}

// WithPostHocTimeout bounds the post-hoc phase and returns the engine
func (e *Engine) WithPostHocTimeout(d time.Duration) *Engine {
	e.postHocTimeout = d
	return e
}

// groupDiagnostics is the per-group fan-out result
type groupDiagnostics struct {
	descriptive stats.DescriptiveSummary
	normality   stats.NormalityResult
}

// Analyze executes one analysis end to end. Validation failures and internal
// panics both come back as errors, never as a partially filled result.
func (e *Engine) Analyze(ctx context.Context, request stats.AnalysisRequest) (result *stats.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("analysis panicked: %v", r)
			result = nil
			err = errors.InternalError("analysis failed unexpectedly")
		}
	}()

	if err := request.Options.Validate(); err != nil {
		return nil, err
	}
	if len(request.Samples) == 0 {
		return nil, errors.InvalidInput("at least one sample is required")
	}

	id := core.NewAnalysisID()
	alpha := request.Options.Alpha
	e.logger.Debug("analysis %s: %d groups, alpha=%.3f", id, len(request.Samples), alpha)

	diagnostics, err := e.runGroupDiagnostics(ctx, request.Samples, request.Options)
	if err != nil {
		return nil, err
	}

	descriptive := make([]stats.DescriptiveSummary, len(diagnostics))
	normalityResults := make([]stats.NormalityResult, len(diagnostics))
	allNormal := true
	for i, d := range diagnostics {
		descriptive[i] = d.descriptive
		normalityResults[i] = d.normality
		allNormal = allNormal && d.normality.IsNormal
	}
	normality := stats.NormalityReport{Results: normalityResults, AllNormal: allNormal}

	homogeneity := e.homogeneity.Test(request.Samples, alpha)

	test := e.selector.Run(request.Samples, normality.AllNormal, homogeneity.EqualVariance, alpha)
	e.logger.Info("analysis %s: selected %s (significant=%t)", id, test.TestType, test.Significant)

	var postHoc *stats.PostHocResult
	if len(request.Samples) > 2 && test.Significant {
		phCtx := ctx
		if e.postHocTimeout > 0 {
			var cancel context.CancelFunc
			phCtx, cancel = context.WithTimeout(ctx, e.postHocTimeout)
			defer cancel()
		}
		postHoc, err = e.postHoc.Analyze(phCtx, request.Samples, test.TestType, homogeneity.EqualVariance, alpha)
		if err != nil {
			return nil, errors.Wrap(err, "post-hoc analysis failed")
		}
	}

	return &stats.AnalysisResult{
		ID:          id,
		Success:     true,
		Descriptive: descriptive,
		Normality:   normality,
		Homogeneity: homogeneity,
		Test:        test,
		PostHoc:     postHoc,
		Summary:     BuildSummary(request.Samples, test, postHoc),
		CreatedAt:   core.Now(),
	}, nil
}

// runGroupDiagnostics computes descriptive statistics and the normality
// diagnostic for every group concurrently, one goroutine per group, and
// joins before anything downstream reads the results.
func (e *Engine) runGroupDiagnostics(ctx context.Context, samples []stats.Sample, options stats.AnalysisOptions) ([]groupDiagnostics, error) {
	diagnostics := make([]groupDiagnostics, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	for i, sample := range samples {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			diagnostics[i] = groupDiagnostics{
				descriptive: e.descriptive.Summarize(sample, options.Confidence),
				normality:   e.normality.Test(sample, options.Alpha),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "group diagnostics failed")
	}
	return diagnostics, nil
}
