package wcag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/a11yscan/internal/wcag"
)

func TestMasterCriteriaCount(t *testing.T) {
	t.Parallel()

	criteria := wcag.MasterCriteria()
	assert.Len(t, criteria, wcag.CriterionCount)

	// Criterion ids must be unique.
	seen := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		_, dup := seen[c.ID]
		assert.False(t, dup, "duplicate criterion %s", c.ID)
		seen[c.ID] = struct{}{}
		assert.NotEmpty(t, c.Title, "criterion %s has no title", c.ID)
	}
}

func TestLevelTotals(t *testing.T) {
	t.Parallel()

	totals := wcag.LevelTotals()
	assert.Equal(t, 32, totals[wcag.LevelA])
	assert.Equal(t, 24, totals[wcag.LevelAA])
	assert.Equal(t, 31, totals[wcag.LevelAAA])
}

func TestLookupCriterion(t *testing.T) {
	t.Parallel()

	c, ok := wcag.LookupCriterion("1.4.3")
	require.True(t, ok)
	assert.Equal(t, wcag.LevelAA, c.Level)
	assert.Equal(t, "コントラスト（最低限）", c.Title)

	_, ok = wcag.LookupCriterion("9.9.9")
	assert.False(t, ok)
}

func TestIsRevision22(t *testing.T) {
	t.Parallel()

	assert.True(t, wcag.IsRevision22("2.4.11"))
	assert.True(t, wcag.IsRevision22("3.3.8"))
	assert.False(t, wcag.IsRevision22("1.4.3"))
	assert.False(t, wcag.IsRevision22("4.1.1"))
}
