package ports

import (
	"context"

	"statkit/domain/core"
	"statkit/domain/stats"
)

// AnalyzerPort runs one statistical analysis. The engine behind it is
// stateless; callers own the request lifecycle.
type AnalyzerPort interface {
	Analyze(ctx context.Context, request stats.AnalysisRequest) (*stats.AnalysisResult, error)
}

// AnalysisRepositoryPort persists finished analysis results for later
// retrieval. Results are immutable once saved.
type AnalysisRepositoryPort interface {
	Save(ctx context.Context, result *stats.AnalysisResult) error
	Get(ctx context.Context, id core.AnalysisID) (*stats.AnalysisResult, error)
	List(ctx context.Context, filters AnalysisFilters) ([]AnalysisSummary, error)
}

// AnalysisFilters for querying stored analyses
type AnalysisFilters struct {
	TestType *stats.TestType
	Limit    int
	Offset   int
}

// AnalysisSummary is the listing row for a stored analysis
type AnalysisSummary struct {
	ID         core.AnalysisID `json:"id"`
	TestType   stats.TestType  `json:"test_type"`
	GroupCount int             `json:"group_count"`
	CreatedAt  core.Timestamp  `json:"created_at"`
}
