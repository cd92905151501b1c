package semiauto_test

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/semiauto"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

func newExtractor() *semiauto.Extractor {
	return semiauto.NewExtractor(semiauto.Options{}, logger.NewNoOp())
}

func imageAltFinding() finding.Finding {
	return finding.Finding{
		ID:           "image-alt",
		Description:  "Images must have alternate text",
		Impact:       finding.ImpactCritical,
		WCAGCriteria: []string{"1.1.1"},
		ToolSource:   finding.ToolAxeCore,
		Nodes: []finding.NodeInfo{
			{
				Target: "img.scenery",
				HTML:   `<img class="scenery" src="view.jpg" alt="美しい風景">`,
			},
		},
		NodeCount: 1,
	}
}

func TestExtractItems_AltText(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)

	require.Len(t, items, 1)
	item := items[0]

	assert.Equal(t, "image-alt", item.RuleID)
	assert.Equal(t, semiauto.CategoryAltText, item.Category)
	assert.NotEmpty(t, item.Question)
	assert.Contains(t, item.Question, "美しい風景")
	assert.Equal(t, "img.scenery", item.Selector)
	assert.NotEmpty(t, item.ElementDescription)
	assert.Contains(t, item.ElementDescription, "img")
}

func TestExtractItems_AltTextMissing(t *testing.T) {
	t.Parallel()

	f := imageAltFinding()
	f.Nodes[0].HTML = `<img src="view.jpg">`

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{f}, nil)

	require.Len(t, items, 1)
	// No alt value to interpolate; the necessity question is asked.
	assert.NotContains(t, items[0].Question, "「")
	assert.NotEmpty(t, items[0].Question)
}

func TestExtractItems_OneItemPerNode(t *testing.T) {
	t.Parallel()

	f := imageAltFinding()
	f.Nodes = append(f.Nodes, finding.NodeInfo{
		Target: "img.banner",
		HTML:   `<img class="banner" src="b.png" alt="">`,
	})
	f.NodeCount = 2

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{f}, nil)
	assert.Len(t, items, 2)
}

func TestExtractItems_SkipsUnmappedAndNodeless(t *testing.T) {
	t.Parallel()

	unmapped := finding.Finding{
		ID:           "color-contrast",
		WCAGCriteria: []string{"1.4.3"},
		Nodes:        []finding.NodeInfo{{Target: "p.low"}},
		NodeCount:    1,
	}
	nodeless := finding.Finding{
		ID:           "image-alt",
		WCAGCriteria: []string{"1.1.1"},
	}

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{unmapped, nodeless}, nil)
	assert.Empty(t, items)
}

func TestExtractItems_DisabledCategory(t *testing.T) {
	t.Parallel()

	e := semiauto.NewExtractor(semiauto.Options{
		EnabledCategories: map[semiauto.Category]bool{
			semiauto.CategoryLinkText: true,
		},
	}, logger.NewNoOp())

	items := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	assert.Empty(t, items)
}

func TestExtractItems_IncompleteBucketIncluded(t *testing.T) {
	t.Parallel()

	incomplete := finding.Finding{
		ID:           "link-name",
		WCAGCriteria: []string{"2.4.4"},
		ToolSource:   finding.ToolAxeCore,
		Nodes: []finding.NodeInfo{
			{Target: "a.more", HTML: `<a class="more" href="/x">続きを読む</a>`},
		},
		NodeCount: 1,
	}

	e := newExtractor()
	items := e.ExtractItems(nil, []finding.Finding{incomplete})

	require.Len(t, items, 1)
	assert.Equal(t, semiauto.CategoryLinkText, items[0].Category)
	assert.Contains(t, items[0].ElementDescription, "続きを読む")
}

func TestRecordAnswerAndProgress(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Len(t, items, 1)

	assert.Equal(t, semiauto.Progress{Completed: 0, Total: 1}, e.GetProgress())

	e.RecordAnswer(items[0].ID, wcag.AnswerAppropriate)
	assert.Equal(t, semiauto.Progress{Completed: 1, Total: 1}, e.GetProgress())

	// Overwriting is idempotent, not additive.
	e.RecordAnswer(items[0].ID, wcag.AnswerInappropriate)
	assert.Equal(t, semiauto.Progress{Completed: 1, Total: 1}, e.GetProgress())

	got := e.Items()[0]
	require.NotNil(t, got.Answer)
	assert.Equal(t, wcag.AnswerInappropriate, *got.Answer)
	assert.NotNil(t, got.AnsweredAt)
}

func TestRecordAnswer_UnknownIDNoOp(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)

	e.RecordAnswer("sa-does-not-exist", wcag.AnswerAppropriate)
	assert.Equal(t, semiauto.Progress{Completed: 0, Total: 1}, e.GetProgress())
}

func TestStableIDsAcrossReextraction(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	first := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Len(t, first, 1)

	e.RecordAnswer(first[0].ID, wcag.AnswerAppropriate)

	// Re-extracting the same findings keeps the item and its answer.
	second := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, semiauto.Progress{Completed: 1, Total: 1}, e.GetProgress())
}

func TestAnswers(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Len(t, items, 1)

	assert.Empty(t, e.Answers())

	e.RecordAnswer(items[0].ID, wcag.AnswerCannotDetermine)
	answers := e.Answers()
	require.Len(t, answers, 1)
	assert.Equal(t, wcag.AnswerCannotDetermine, answers[0].Answer)
	assert.Equal(t, []string{"1.1.1"}, answers[0].WCAGCriteria)
}

func TestItems_ReturnsSnapshots(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Len(t, items, 1)

	before := e.Items()
	e.RecordAnswer(items[0].ID, wcag.AnswerAppropriate)

	// A snapshot taken before the answer stays unanswered; a fresh one
	// carries it.
	assert.Nil(t, before[0].Answer)
	after := e.Items()
	require.NotNil(t, after[0].Answer)
	assert.Equal(t, wcag.AnswerAppropriate, *after[0].Answer)
}

func TestItems_SafeToSerializeWhileAnswering(t *testing.T) {
	t.Parallel()

	f := imageAltFinding()
	f.Nodes = append(f.Nodes, finding.NodeInfo{
		Target: "img.banner",
		HTML:   `<img class="banner" src="b.png">`,
	})
	f.NodeCount = 2

	e := newExtractor()
	items := e.ExtractItems([]finding.Finding{f}, nil)
	require.Len(t, items, 2)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			e.RecordAnswer(items[0].ID, wcag.AnswerAppropriate)
			e.RecordAnswer(items[1].ID, wcag.AnswerInappropriate)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_, err := json.Marshal(e.Items())
			assert.NoError(t, err)
		}
	}()
	wg.Wait()

	assert.Equal(t, semiauto.Progress{Completed: 2, Total: 2}, e.GetProgress())
}

func TestClear(t *testing.T) {
	t.Parallel()

	e := newExtractor()
	e.ExtractItems([]finding.Finding{imageAltFinding()}, nil)
	require.Equal(t, 1, e.GetProgress().Total)

	e.Clear()
	assert.Equal(t, semiauto.Progress{}, e.GetProgress())
	assert.Empty(t, e.Items())
}
