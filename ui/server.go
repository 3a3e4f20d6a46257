package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"statkit/app"
	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/errors"
	"statkit/internal/report"
	"statkit/ports"
)

// Server exposes the analysis engine over HTTP
type Server struct {
	router  *gin.Engine
	service *app.AnalysisService
	reports *report.Generator
	logger  *internal.Logger
}

// analyzeRequest is the JSON request body for POST /api/v1/analyze
type analyzeRequest struct {
	Groups  [][]float64 `json:"groups"`
	Labels  []string    `json:"labels"`
	Options struct {
		Alpha      *float64 `json:"alpha"`
		Confidence *float64 `json:"confidence"`
	} `json:"options"`
}

// NewServer creates the API server with all routes registered
func NewServer(service *app.AnalysisService, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router:  gin.Default(),
		service: service,
		reports: report.NewGenerator(),
		logger:  logger,
	}
	s.registerRoutes()
	return s
}

// Router returns the underlying gin engine, mainly for tests
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the server on the given address and blocks
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.POST("/analyze", s.handleAnalyze)
	api.GET("/analyses", s.handleListAnalyses)
	api.GET("/analyses/:id", s.handleGetAnalysis)
	api.GET("/analyses/:id/report", s.handleAnalysisReport)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleAnalyze runs one analysis. Failures of any kind come back as
// {success: false, error: string}; a filled result always has success true.
func (s *Server) handleAnalyze(c *gin.Context) {
	var body analyzeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.respondError(c, http.StatusBadRequest, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	options := stats.DefaultOptions()
	if body.Options.Alpha != nil {
		options.Alpha = *body.Options.Alpha
	}
	if body.Options.Confidence != nil {
		options.Confidence = *body.Options.Confidence
	}

	labels := make([]core.GroupLabel, len(body.Labels))
	for i, l := range body.Labels {
		labels[i] = core.GroupLabel(l)
	}

	request, err := stats.NewAnalysisRequest(body.Groups, labels, options)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	result, err := s.service.Analyze(c.Request.Context(), request)
	if err != nil {
		s.respondError(c, statusForError(err), err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	result, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleAnalysisReport(c *gin.Context) {
	result, ok := s.loadAnalysis(c)
	if !ok {
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", s.reports.HTML(result))
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	if !s.service.HasRepository() {
		s.respondError(c, http.StatusNotImplemented, errors.UnsupportedConfiguration("result storage is not configured"))
		return
	}

	var filters ports.AnalysisFilters
	if raw := c.Query("test_type"); raw != "" {
		testType := stats.TestType(raw)
		filters.TestType = &testType
	}

	summaries, err := s.service.List(c.Request.Context(), filters)
	if err != nil {
		s.respondError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": summaries})
}

func (s *Server) loadAnalysis(c *gin.Context) (*stats.AnalysisResult, bool) {
	if !s.service.HasRepository() {
		s.respondError(c, http.StatusNotImplemented, errors.UnsupportedConfiguration("result storage is not configured"))
		return nil, false
	}

	id, err := core.ParseAnalysisID(c.Param("id"))
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	result, err := s.service.Get(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, statusForError(err), err)
		return nil, false
	}
	return result, true
}

func (s *Server) respondError(c *gin.Context, status int, err error) {
	s.logger.Warn("request failed: %v", err)
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

// statusForError maps domain error codes onto HTTP statuses
func statusForError(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeInsufficientData, errors.CodeUnsupportedConfig:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
