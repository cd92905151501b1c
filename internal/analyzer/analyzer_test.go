package analyzer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/a11yscan/internal/analyzer"
	"github.com/jonesrussell/a11yscan/internal/config"
	"github.com/jonesrussell/a11yscan/internal/engine"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

type stubEngine struct {
	name   finding.ToolSource
	result *finding.EngineRunResult
	err    error
}

func (s *stubEngine) Name() finding.ToolSource { return s.name }

func (s *stubEngine) Analyze(
	ctx context.Context,
	page *engine.Page,
	opts engine.Options,
) (*finding.EngineRunResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func analysisConfig() config.AnalysisConfig {
	return config.AnalysisConfig{
		Engines: map[string]bool{
			string(finding.ToolAxeCore): true,
			string(finding.ToolIBM):     true,
		},
		WCAGVersion: "2.2",
		Level:       "AA",
		SemiAuto:    true,
	}
}

func axeResult() *finding.EngineRunResult {
	return &finding.EngineRunResult{
		Tool: finding.ToolAxeCore,
		Violations: []finding.Finding{
			{
				ID:           "image-alt",
				Description:  "Images must have alternate text",
				Impact:       finding.ImpactCritical,
				WCAGCriteria: []string{"1.1.1"},
				ToolSource:   finding.ToolAxeCore,
				Nodes: []finding.NodeInfo{
					{Target: "img.hero", HTML: `<img class="hero" src="h.jpg">`},
				},
				NodeCount: 1,
			},
			{
				ID:           "target-size",
				Description:  "Touch targets must be large enough",
				Impact:       finding.ImpactModerate,
				WCAGCriteria: []string{"2.5.8"},
				ToolSource:   finding.ToolAxeCore,
			},
		},
		Passes: []finding.Finding{
			{
				ID:           "document-title",
				Description:  "Document has a title",
				WCAGCriteria: []string{"2.4.2"},
				ToolSource:   finding.ToolAxeCore,
			},
		},
		Incomplete: []finding.Finding{},
		Duration:   2 * time.Second,
	}
}

func newSession(t *testing.T) *analyzer.Session {
	t.Helper()

	registry := engine.NewRegistry()
	require.NoError(t, registry.Register(&stubEngine{
		name:   finding.ToolAxeCore,
		result: axeResult(),
	}))
	require.NoError(t, registry.Register(&stubEngine{
		name: finding.ToolIBM,
		err:  errors.New("checker unavailable"),
	}))

	return analyzer.NewSession(registry, analysisConfig(), logger.NewNoOp())
}

func TestAnalyze_ProducesReport(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	rep, err := s.Analyze(context.Background(), &engine.Page{URL: "https://example.com"}, nil)
	require.NoError(t, err)

	assert.Equal(t, s.ID(), rep.ID)
	assert.Equal(t, "https://example.com", rep.URL)

	// The failed engine is absent from toolsUsed and engineSummary, not
	// an error.
	assert.Equal(t, []finding.ToolSource{finding.ToolAxeCore}, rep.ToolsUsed)
	assert.NotContains(t, rep.EngineSummary, finding.ToolIBM)
	assert.Len(t, rep.Violations, 2)
	assert.Len(t, rep.Passes, 1)

	require.NotNil(t, rep.Coverage)
	assert.Len(t, rep.Coverage.Criteria, wcag.CriterionCount)

	succeeded, failed := s.Metrics().GetEngineCounts()
	assert.Equal(t, int64(1), succeeded)
	assert.Equal(t, int64(1), failed)
}

func TestAnalyze_FlagsExperimentalFindings(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	rep, err := s.Analyze(context.Background(), &engine.Page{URL: "https://example.com"}, nil)
	require.NoError(t, err)

	var experimental, stable *finding.Finding
	for i := range rep.Violations {
		switch rep.Violations[i].ID {
		case "target-size":
			experimental = &rep.Violations[i]
		case "image-alt":
			stable = &rep.Violations[i]
		}
	}
	require.NotNil(t, experimental)
	require.NotNil(t, stable)

	// 2.5.8 is a WCAG 2.2 criterion.
	assert.True(t, experimental.IsExperimental)
	assert.False(t, stable.IsExperimental)
}

func TestAnalyze_SemiAutoItemsExtracted(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	rep, err := s.Analyze(context.Background(), &engine.Page{URL: "https://example.com"}, nil)
	require.NoError(t, err)

	require.Len(t, rep.SemiAutoResults, 1)
	assert.Equal(t, "image-alt", rep.SemiAutoResults[0].RuleID)
}

func TestRecordAnswer_RecomputesCoverage(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	rep, err := s.Analyze(context.Background(), &engine.Page{URL: "https://example.com"}, nil)
	require.NoError(t, err)
	require.Len(t, rep.SemiAutoResults, 1)

	// 1.1.1 already has automatic evidence; the answer must not move it.
	matrix := s.RecordAnswer(rep.SemiAutoResults[0].ID, wcag.AnswerAppropriate)
	require.NotNil(t, matrix)

	for _, row := range matrix.Criteria {
		if row.Criterion == "1.1.1" {
			assert.Equal(t, wcag.ResultFail, row.Result)
			assert.Equal(t, wcag.MethodAuto, row.Method)
		}
	}

	progress := s.Progress()
	assert.Equal(t, 1, progress.Completed)
	assert.Equal(t, 1, progress.Total)
}

func TestAnalyze_Cancelled(t *testing.T) {
	t.Parallel()

	s := newSession(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Analyze(ctx, &engine.Page{URL: "https://example.com"}, nil)
	assert.Error(t, err)
}
