// Package analyzer ties the pipeline together: orchestrated engine
// fan-out, dedup, coverage, and semi-auto extraction, owned by one
// analysis session.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/a11yscan/internal/config"
	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/engine"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/metrics"
	"github.com/jonesrussell/a11yscan/internal/orchestrator"
	"github.com/jonesrussell/a11yscan/internal/report"
	"github.com/jonesrussell/a11yscan/internal/semiauto"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

// Session runs analyses and tracks semi-auto answers for one caller. A
// session owns its report, extractor, and metrics exclusively; callers
// serialize access.
type Session struct {
	id           string
	cfg          config.AnalysisConfig
	orchestrator *orchestrator.Orchestrator
	extractor    *semiauto.Extractor
	metrics      *metrics.SessionMetrics
	logger       logger.Interface

	mu     sync.Mutex
	report *report.Report
}

// NewSession creates an analysis session over the registered engines.
func NewSession(
	registry *engine.Registry,
	cfg config.AnalysisConfig,
	log logger.Interface,
) *Session {
	id := uuid.NewString()
	sessionLog := log.WithAnalysisID(id)
	return &Session{
		id:           id,
		cfg:          cfg,
		orchestrator: orchestrator.New(registry, sessionLog),
		extractor:    semiauto.NewExtractor(cfg.SemiAutoOptions(), sessionLog),
		metrics:      metrics.NewSessionMetrics(),
		logger:       sessionLog.WithComponent("analyzer"),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Metrics exposes the session's counters.
func (s *Session) Metrics() *metrics.SessionMetrics {
	return s.metrics
}

// Analyze runs the full pipeline against the page. A degraded report
// (fewer tool contributions) is still a report; the only error is
// cancellation of the whole pipeline. Progress and the terminal
// complete/error event go to the notifier.
func (s *Session) Analyze(
	ctx context.Context,
	page *engine.Page,
	notifier orchestrator.Notifier,
) (*report.Report, error) {
	if notifier == nil {
		notifier = orchestrator.NoopNotifier{}
	}

	s.extractor.Clear()
	s.metrics.Reset()
	start := time.Now()

	opts := engine.Options{
		WCAGVersion: s.cfg.WCAGVersion,
		Level:       s.cfg.Level,
	}

	results, err := s.orchestrator.Run(ctx, page, opts, s.cfg.EnabledTools(), notifier)
	if err != nil {
		notifier.Error(err.Error())
		return nil, fmt.Errorf("run engines: %w", err)
	}

	merged := dedup.Deduplicate(results, s.cfg.DedupOptions())
	flagExperimental(merged)

	rep := s.buildReport(page, results, merged, start)

	s.mu.Lock()
	s.report = rep
	s.mu.Unlock()

	s.logger.Info("analysis complete",
		"url", page.URL,
		"violations", len(rep.Violations),
		"passes", len(rep.Passes),
		"incomplete", len(rep.Incomplete),
		"tools_used", len(rep.ToolsUsed),
		"duration", rep.TotalDuration,
	)

	notifier.Complete(rep)
	return rep, nil
}

// buildReport assembles the composed report from the pipeline outputs.
func (s *Session) buildReport(
	page *engine.Page,
	results []*finding.EngineRunResult,
	merged *dedup.Result,
	start time.Time,
) *report.Report {
	rep := &report.Report{
		ID:              s.id,
		URL:             page.URL,
		Timestamp:       start,
		EngineSummary:   merged.EngineSummary,
		Violations:      merged.Violations,
		Passes:          merged.Passes,
		Incomplete:      merged.Incomplete,
		EngineDurations: make(map[finding.ToolSource]time.Duration),
	}

	var rawCount int
	for _, r := range results {
		contributed := r.Contributed()
		s.metrics.RecordEngine(contributed)
		if !contributed {
			continue
		}
		rep.ToolsUsed = append(rep.ToolsUsed, r.Tool)
		rep.EngineDurations[r.Tool] = r.Duration
		rawCount += len(r.Violations) + len(r.Passes) + len(r.Incomplete)
		// wave runs against a rate-limited remote API; track its calls.
		if r.Tool == finding.ToolWave {
			s.metrics.RecordAPICall()
		}
	}

	mergedCount := len(merged.Violations) + len(merged.Passes) + len(merged.Incomplete)
	s.metrics.RecordFindings(rawCount, mergedCount)

	if s.cfg.SemiAuto {
		rep.SemiAutoResults = s.extractor.ExtractItems(merged.Violations, merged.Incomplete)
	}

	rep.Coverage = wcag.CalculateCoverage(merged, s.extractor.Answers())
	rep.TotalDuration = time.Since(start)
	return rep
}

// RecordAnswer stores a reviewer verdict and recomputes the coverage
// matrix from scratch with the accumulated answers. Unknown item ids are
// ignored.
func (s *Session) RecordAnswer(id string, answer wcag.Answer) *wcag.CoverageMatrix {
	s.extractor.RecordAnswer(id, answer)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.report == nil {
		return nil
	}

	merged := &dedup.Result{
		Violations:    s.report.Violations,
		Passes:        s.report.Passes,
		Incomplete:    s.report.Incomplete,
		EngineSummary: s.report.EngineSummary,
	}
	s.report.Coverage = wcag.CalculateCoverage(merged, s.extractor.Answers())
	return s.report.Coverage
}

// Report returns the session's latest report, nil before the first
// analysis completes.
func (s *Session) Report() *report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Progress reports the semi-auto answering progress.
func (s *Session) Progress() semiauto.Progress {
	return s.extractor.GetProgress()
}

// Items returns a snapshot of the session's semi-auto items.
func (s *Session) Items() []semiauto.Item {
	return s.extractor.Items()
}

// flagExperimental marks findings mapped to any criterion introduced by
// the newest standard revision.
func flagExperimental(merged *dedup.Result) {
	for _, bucket := range [][]finding.Finding{merged.Violations, merged.Passes, merged.Incomplete} {
		for i := range bucket {
			for _, c := range bucket[i].WCAGCriteria {
				if wcag.IsRevision22(c) {
					bucket[i].IsExperimental = true
					break
				}
			}
		}
	}
}
