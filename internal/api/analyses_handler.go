package api

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/a11yscan/internal/analyzer"
	"github.com/jonesrussell/a11yscan/internal/config"
	"github.com/jonesrussell/a11yscan/internal/engine"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/orchestrator"
	"github.com/jonesrussell/a11yscan/internal/wcag"
	"github.com/jonesrussell/a11yscan/internal/worker"
)

// eventBufferSize buffers progress events between the pipeline and the
// SSE writer.
const eventBufferSize = 32

// AnalysesHandler serves analysis lifecycle endpoints. Finished sessions
// stay in memory for follow-up report, CSV, and answer requests; nothing
// is persisted across process restarts.
type AnalysesHandler struct {
	cfg    config.AnalysisConfig
	logger logger.Interface
	pool   *worker.Pool

	mu       sync.RWMutex
	sessions map[string]*analyzer.Session
}

// NewAnalysesHandler creates the handler with a running analysis pool.
func NewAnalysesHandler(cfg config.AnalysisConfig, log logger.Interface) *AnalysesHandler {
	pool := worker.NewPool(cfg.MaxConcurrent, log)
	_ = pool.Start()

	return &AnalysesHandler{
		cfg:      cfg,
		logger:   log.WithComponent("api"),
		pool:     pool,
		sessions: make(map[string]*analyzer.Session),
	}
}

// Pool exposes the analysis pool, mainly for draining on shutdown.
func (h *AnalysesHandler) Pool() *worker.Pool {
	return h.pool
}

type startRequest struct {
	URL string `json:"url" binding:"required"`
}

// Start handles POST /api/v1/analyses. It runs the pipeline and relays
// progress plus the terminal complete/error event as SSE, verbatim from
// the pipeline's notifier.
func (h *AnalysesHandler) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	registry, err := engine.NewFileRegistry(h.cfg.ResultsDir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	session := analyzer.NewSession(registry, h.cfg, h.logger)
	h.mu.Lock()
	h.sessions[session.ID()] = session
	h.mu.Unlock()

	notifier := orchestrator.NewChannelNotifier(eventBufferSize)
	submitErr := h.pool.Submit(c.Request.Context(), func(ctx context.Context) error {
		// Analyze emits the terminal event itself; errors are already
		// on the stream.
		_, err := session.Analyze(ctx, &engine.Page{URL: req.URL}, notifier)
		return err
	})
	if submitErr != nil {
		// The session never ran; keeping it would leave a permanent
		// nil-report entry behind.
		h.mu.Lock()
		delete(h.sessions, session.ID())
		h.mu.Unlock()
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis capacity unavailable"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Analysis-ID", session.ID())

	c.Stream(func(w io.Writer) bool {
		event, ok := <-notifier.Events()
		if !ok {
			return false
		}
		c.SSEvent(string(event.Type), event)
		return event.Type == orchestrator.EventProgress
	})
}

// GetReport handles GET /api/v1/analyses/:id.
func (h *AnalysesHandler) GetReport(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	rep := session.Report()
	if rep == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "analysis still running"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

// GetCoverageCSV handles GET /api/v1/analyses/:id/coverage.csv.
func (h *AnalysesHandler) GetCoverageCSV(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	rep := session.Report()
	if rep == nil || rep.Coverage == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "coverage not available"})
		return
	}

	csv := wcag.ExportCSV(rep.Coverage)
	c.Header("Content-Disposition", `attachment; filename="coverage.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// GetItems handles GET /api/v1/analyses/:id/items.
func (h *AnalysesHandler) GetItems(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    session.Items(),
		"progress": session.Progress(),
	})
}

type answerRequest struct {
	ItemID string `json:"itemId" binding:"required"`
	Answer string `json:"answer" binding:"required"`
}

// validAnswers guards the closed answer set at the API boundary.
var validAnswers = map[wcag.Answer]struct{}{
	wcag.AnswerAppropriate:     {},
	wcag.AnswerInappropriate:   {},
	wcag.AnswerCannotDetermine: {},
}

// RecordAnswer handles POST /api/v1/analyses/:id/answers. Recording
// overwrites any earlier answer for the item and returns the recomputed
// coverage.
func (h *AnalysesHandler) RecordAnswer(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId and answer are required"})
		return
	}

	answer := wcag.Answer(req.Answer)
	if _, valid := validAnswers[answer]; !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid answer"})
		return
	}

	coverage := session.RecordAnswer(req.ItemID, answer)
	if coverage == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "analysis still running"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coverage": coverage,
		"progress": session.Progress(),
	})
}

// session resolves the :id path parameter, replying 404 when unknown.
func (h *AnalysesHandler) session(c *gin.Context) (*analyzer.Session, bool) {
	id := c.Param("id")

	h.mu.RLock()
	session, ok := h.sessions[id]
	h.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return nil, false
	}
	return session, true
}
