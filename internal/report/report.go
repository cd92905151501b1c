// Package report defines the composed analysis report. Every optional
// section (engine summary, coverage matrix, semi-auto results) is part of
// the one structure from the start; no other module patches fields in.
package report

import (
	"time"

	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/semiauto"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

// Report is the complete result of one analysis.
type Report struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Timestamp time.Time `json:"timestamp"`

	// ToolsUsed lists the engines that contributed results. Engines
	// that failed are absent rather than reported as errors.
	ToolsUsed []finding.ToolSource `json:"toolsUsed"`

	// EngineSummary holds the raw pre-merge counts per engine.
	EngineSummary map[finding.ToolSource]dedup.EngineCounts `json:"engineSummary"`

	Violations []finding.Finding `json:"violations"`
	Passes     []finding.Finding `json:"passes"`
	Incomplete []finding.Finding `json:"incomplete"`

	Coverage *wcag.CoverageMatrix `json:"coverage,omitempty"`

	// SemiAutoResults carries a snapshot of the review items when
	// extraction was enabled.
	SemiAutoResults []semiauto.Item `json:"semiAutoResults,omitempty"`

	// EngineDurations records how long each contributing engine ran.
	EngineDurations map[finding.ToolSource]time.Duration `json:"engineDurations"`
	TotalDuration   time.Duration                        `json:"totalDuration"`
}

// CountsByImpact tallies the merged violations per impact level.
func (r *Report) CountsByImpact() map[finding.Impact]int {
	counts := make(map[finding.Impact]int)
	for i := range r.Violations {
		counts[r.Violations[i].Impact]++
	}
	return counts
}
