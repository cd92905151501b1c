package dedup_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/finding"
)

func nodeFinding(id string, tool finding.ToolSource, impact finding.Impact, criteria []string, target string) finding.Finding {
	return finding.Finding{
		ID:           id,
		Description:  "finding " + id,
		Impact:       impact,
		WCAGCriteria: criteria,
		ToolSource:   tool,
		Nodes:        []finding.NodeInfo{{Target: target}},
		NodeCount:    1,
	}
}

func runResult(tool finding.ToolSource, violations ...finding.Finding) *finding.EngineRunResult {
	return &finding.EngineRunResult{
		Tool:       tool,
		Violations: violations,
		Passes:     []finding.Finding{},
		Incomplete: []finding.Finding{},
		Duration:   time.Second,
	}
}

func TestDeduplicate_MergesMatchingFindings(t *testing.T) {
	t.Parallel()

	axe := nodeFinding("color-contrast", finding.ToolAxeCore, finding.ImpactModerate,
		[]string{"1.4.3"}, "div.content")
	ibm := nodeFinding("text_contrast_sufficient", finding.ToolIBM, finding.ImpactCritical,
		[]string{"1.4.3"}, "div.content")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, axe),
		runResult(finding.ToolIBM, ibm),
	}, dedup.DefaultOptions())

	require.Len(t, result.Violations, 1)
	merged := result.Violations[0]

	assert.Equal(t, []finding.ToolSource{finding.ToolAxeCore, finding.ToolIBM}, merged.ToolSources)
	assert.Equal(t, finding.ImpactCritical, merged.Impact)
	assert.Equal(t, 1, merged.NodeCount)
	assert.Len(t, merged.Nodes, 1)
}

func TestDeduplicate_DisjointCriteriaNeverMerge(t *testing.T) {
	t.Parallel()

	a := nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious,
		[]string{"1.4.3"}, "div.content")
	b := nodeFinding("rule-b", finding.ToolIBM, finding.ImpactSerious,
		[]string{"2.4.7"}, "div.content")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolIBM, b),
	}, dedup.DefaultOptions())

	assert.Len(t, result.Violations, 2)
}

func TestDeduplicate_EmptyCriteriaNeverMerge(t *testing.T) {
	t.Parallel()

	a := nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious, nil, "div.content")
	b := nodeFinding("rule-b", finding.ToolIBM, finding.ImpactSerious, nil, "div.content")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolIBM, b),
	}, dedup.DefaultOptions())

	assert.Len(t, result.Violations, 2)
}

func TestDeduplicate_SimilarSelectorsMerge(t *testing.T) {
	t.Parallel()

	a := nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious,
		[]string{"1.1.1"}, "main > div.article-body > img.hero-image")
	b := nodeFinding("rule-b", finding.ToolIBM, finding.ImpactSerious,
		[]string{"1.1.1"}, "main>div.article-body>img.hero-img")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolIBM, b),
	}, dedup.DefaultOptions())

	assert.Len(t, result.Violations, 1)
}

func TestDeduplicate_DescriptionFallback(t *testing.T) {
	t.Parallel()

	// Neither finding carries nodes, so descriptions decide.
	a := finding.Finding{
		ID:           "html-has-lang",
		Description:  "The html element must have a lang attribute",
		WCAGCriteria: []string{"3.1.1"},
		ToolSource:   finding.ToolAxeCore,
	}
	b := finding.Finding{
		ID:           "page-lang",
		Description:  "The html element must have a lang attribute set",
		WCAGCriteria: []string{"3.1.1"},
		ToolSource:   finding.ToolHTMLCS,
	}

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolHTMLCS, b),
	}, dedup.DefaultOptions())

	require.Len(t, result.Violations, 1)
	// Longer description wins.
	assert.Equal(t, b.Description, result.Violations[0].Description)
}

func TestDeduplicate_NodeUnionFirstWins(t *testing.T) {
	t.Parallel()

	a := finding.Finding{
		ID:           "image-alt",
		Description:  "Images must have alternate text",
		Impact:       finding.ImpactCritical,
		WCAGCriteria: []string{"1.1.1"},
		ToolSource:   finding.ToolAxeCore,
		Nodes: []finding.NodeInfo{
			{Target: "img.logo", HTML: "<img class=\"logo\">"},
		},
		NodeCount: 1,
	}
	b := finding.Finding{
		ID:           "img_alt_valid",
		Description:  "Images must have alternate text",
		Impact:       finding.ImpactCritical,
		WCAGCriteria: []string{"1.1.1"},
		ToolSource:   finding.ToolIBM,
		Nodes: []finding.NodeInfo{
			{Target: "img.logo", HTML: "<img class=\"logo\" src=\"x\">"},
			{Target: "img.banner"},
		},
		NodeCount: 2,
	}

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolIBM, b),
	}, dedup.DefaultOptions())

	require.Len(t, result.Violations, 1)
	merged := result.Violations[0]

	require.Equal(t, 2, merged.NodeCount)
	require.Len(t, merged.Nodes, 2)
	// First occurrence of img.logo wins.
	assert.Equal(t, "<img class=\"logo\">", merged.Nodes[0].HTML)
	assert.Equal(t, "img.banner", merged.Nodes[1].Target)
}

func TestDeduplicate_CriteriaUnionSorted(t *testing.T) {
	t.Parallel()

	a := nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious,
		[]string{"1.4.6", "1.4.3"}, "p.text")
	b := nodeFinding("rule-b", finding.ToolIBM, finding.ImpactSerious,
		[]string{"1.4.3", "1.4.11"}, "p.text")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolIBM, b),
	}, dedup.DefaultOptions())

	require.Len(t, result.Violations, 1)
	assert.Equal(t, []string{"1.4.11", "1.4.3", "1.4.6"}, result.Violations[0].WCAGCriteria)
}

func TestDeduplicate_EngineSummaryPreMerge(t *testing.T) {
	t.Parallel()

	axe := runResult(finding.ToolAxeCore,
		nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious, []string{"1.4.3"}, "div.a"),
		nodeFinding("rule-b", finding.ToolAxeCore, finding.ImpactSerious, []string{"1.4.3"}, "div.a"),
	)
	axe.Passes = []finding.Finding{
		{ID: "document-title", WCAGCriteria: []string{"2.4.2"}, ToolSource: finding.ToolAxeCore},
	}
	ibm := runResult(finding.ToolIBM,
		nodeFinding("rule-c", finding.ToolIBM, finding.ImpactSerious, []string{"1.4.3"}, "div.a"),
	)

	result := dedup.Deduplicate([]*finding.EngineRunResult{axe, ibm}, dedup.DefaultOptions())

	// Raw counts survive even though the violations all merged into one.
	assert.Equal(t, dedup.EngineCounts{Violations: 2, Passes: 1}, result.EngineSummary[finding.ToolAxeCore])
	assert.Equal(t, dedup.EngineCounts{Violations: 1}, result.EngineSummary[finding.ToolIBM])
	assert.Len(t, result.Violations, 1)
}

func TestDeduplicate_ExperimentalOR(t *testing.T) {
	t.Parallel()

	a := nodeFinding("focus-appearance", finding.ToolAxeCore, finding.ImpactModerate,
		[]string{"2.4.13"}, "button.cta")
	a.IsExperimental = true
	b := nodeFinding("focus_visible_enhanced", finding.ToolQualWeb, finding.ImpactModerate,
		[]string{"2.4.13"}, "button.cta")

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		runResult(finding.ToolAxeCore, a),
		runResult(finding.ToolQualWeb, b),
	}, dedup.DefaultOptions())

	require.Len(t, result.Violations, 1)
	assert.True(t, result.Violations[0].IsExperimental)
}

func TestDeduplicate_FailedEngineAbsentFromSummary(t *testing.T) {
	t.Parallel()

	ok := runResult(finding.ToolAxeCore,
		nodeFinding("rule-a", finding.ToolAxeCore, finding.ImpactSerious, []string{"1.4.3"}, "div.a"))

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		ok,
		finding.EmptyRunResult(finding.ToolIBM),
	}, dedup.DefaultOptions())

	// A crashed engine settles to an empty zero-duration result and must
	// not surface in the summary, not even with zero counts.
	_, present := result.EngineSummary[finding.ToolIBM]
	assert.False(t, present)
	assert.Equal(t, dedup.EngineCounts{Violations: 1}, result.EngineSummary[finding.ToolAxeCore])
}

func TestDeduplicate_NilResultsSkipped(t *testing.T) {
	t.Parallel()

	result := dedup.Deduplicate([]*finding.EngineRunResult{
		nil,
		runResult(finding.ToolAxeCore),
	}, dedup.DefaultOptions())

	assert.Empty(t, result.Violations)
	assert.Empty(t, result.Passes)
	assert.Empty(t, result.Incomplete)
}
