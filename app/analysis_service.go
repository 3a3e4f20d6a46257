package app

import (
	"context"
	"time"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/ports"
)

// AnalysisService ties the analysis engine to optional persistence. The
// engine does the work; the service owns the request lifecycle and records
// the finished result when a repository is wired.
type AnalysisService struct {
	analyzer   ports.AnalyzerPort
	repository ports.AnalysisRepositoryPort
	logger     *internal.Logger
}

// NewAnalysisService creates an analysis service. The repository may be nil;
// results are then returned without being stored.
func NewAnalysisService(analyzer ports.AnalyzerPort, repository ports.AnalysisRepositoryPort, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &AnalysisService{
		analyzer:   analyzer,
		repository: repository,
		logger:     logger,
	}
}

// Analyze runs one analysis and stores the result when persistence is
// available. Storage failures are logged, not surfaced: the caller still
// gets the computed result.
func (s *AnalysisService) Analyze(ctx context.Context, request stats.AnalysisRequest) (*stats.AnalysisResult, error) {
	startTime := time.Now()

	result, err := s.analyzer.Analyze(ctx, request)
	if err != nil {
		return nil, err
	}

	if s.repository != nil {
		if saveErr := s.repository.Save(ctx, result); saveErr != nil {
			s.logger.Warn("failed to persist analysis %s: %v", result.ID, saveErr)
		}
	}

	s.logger.Info("analysis %s completed in %dms", result.ID, time.Since(startTime).Milliseconds())
	return result, nil
}

// Get loads a stored analysis by ID
func (s *AnalysisService) Get(ctx context.Context, id core.AnalysisID) (*stats.AnalysisResult, error) {
	return s.repository.Get(ctx, id)
}

// List returns stored analysis summaries
func (s *AnalysisService) List(ctx context.Context, filters ports.AnalysisFilters) ([]ports.AnalysisSummary, error) {
	return s.repository.List(ctx, filters)
}

// HasRepository reports whether persistence is wired
func (s *AnalysisService) HasRepository() bool {
	return s.repository != nil
}
