// Package dedup merges overlapping findings reported by different engines
// for the same real-world defect. Matching is similarity-based: findings
// must share a WCAG criterion, then selectors (or, failing that,
// descriptions) are compared with a trigram Dice coefficient.
package dedup

import (
	"sort"

	"github.com/jonesrussell/a11yscan/internal/finding"
)

// Default similarity thresholds.
const (
	DefaultSelectorThreshold    = 0.9
	DefaultDescriptionThreshold = 0.8
)

// Options tunes the duplicate detection thresholds.
type Options struct {
	// SelectorThreshold is the minimum selector similarity for two
	// node-bearing findings to merge.
	SelectorThreshold float64
	// DescriptionThreshold is the minimum description similarity used
	// when selectors cannot be compared.
	DescriptionThreshold float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		SelectorThreshold:    DefaultSelectorThreshold,
		DescriptionThreshold: DefaultDescriptionThreshold,
	}
}

// EngineCounts summarizes one engine's raw contribution before merging.
type EngineCounts struct {
	Violations int `json:"violations"`
	Passes     int `json:"passes"`
}

// Result holds the merged buckets plus the pre-merge per-engine summary.
type Result struct {
	Violations    []finding.Finding                   `json:"violations"`
	Passes        []finding.Finding                   `json:"passes"`
	Incomplete    []finding.Finding                   `json:"incomplete"`
	EngineSummary map[finding.ToolSource]EngineCounts `json:"engineSummary"`
}

// Deduplicate merges duplicate findings across all engine results,
// independently per bucket. The engine summary is computed from the raw
// pre-merge findings so per-engine transparency survives the merge.
func Deduplicate(results []*finding.EngineRunResult, opts Options) *Result {
	if opts.SelectorThreshold == 0 {
		opts.SelectorThreshold = DefaultSelectorThreshold
	}
	if opts.DescriptionThreshold == 0 {
		opts.DescriptionThreshold = DefaultDescriptionThreshold
	}

	summary := make(map[finding.ToolSource]EngineCounts)
	var violations, passes, incomplete []finding.Finding

	for _, r := range results {
		// Engines that failed settle to empty zero-duration results and
		// must not surface in the summary.
		if r == nil || !r.Contributed() {
			continue
		}
		counts := summary[r.Tool]
		counts.Violations += len(r.Violations)
		counts.Passes += len(r.Passes)
		summary[r.Tool] = counts

		violations = append(violations, r.Violations...)
		passes = append(passes, r.Passes...)
		incomplete = append(incomplete, r.Incomplete...)
	}

	return &Result{
		Violations:    mergeBucket(violations, opts),
		Passes:        mergeBucket(passes, opts),
		Incomplete:    mergeBucket(incomplete, opts),
		EngineSummary: summary,
	}
}

// mergeBucket scans findings in arrival order, merging each new finding
// into the first accepted duplicate or appending it. The pairwise scan is
// O(n²); per-page finding counts are tens, not thousands.
func mergeBucket(findings []finding.Finding, opts Options) []finding.Finding {
	out := make([]finding.Finding, 0, len(findings))

	for i := range findings {
		f := findings[i]
		if len(f.ToolSources) == 0 {
			f.ToolSources = []finding.ToolSource{f.ToolSource}
		}

		merged := false
		for j := range out {
			if isDuplicate(&out[j], &f, opts) {
				mergeInto(&out[j], &f)
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, f)
		}
	}

	return out
}

// isDuplicate decides whether two findings describe the same defect.
// Sharing a WCAG criterion is a necessary condition. With primary nodes on
// both sides the normalized selectors decide; otherwise description
// similarity is the fallback.
func isDuplicate(a, b *finding.Finding, opts Options) bool {
	if !a.SharesCriterion(b) {
		return false
	}

	nodeA := a.PrimaryNode()
	nodeB := b.PrimaryNode()
	if nodeA != nil && nodeB != nil {
		selA := NormalizeSelector(nodeA.Target)
		selB := NormalizeSelector(nodeB.Target)
		if selA == selB {
			return true
		}
		return Similarity(selA, selB) >= opts.SelectorThreshold
	}

	return Similarity(a.Description, b.Description) >= opts.DescriptionThreshold
}

// mergeInto folds src into dst: tool sources union in insertion order,
// nodes deduplicated by normalized target with the first occurrence
// winning, the higher impact, the longer description, the sorted criteria
// union, and experimental status ORed.
func mergeInto(dst, src *finding.Finding) {
	srcTools := src.ToolSources
	if len(srcTools) == 0 {
		srcTools = []finding.ToolSource{src.ToolSource}
	}
	for _, tool := range srcTools {
		if !containsTool(dst.ToolSources, tool) {
			dst.ToolSources = append(dst.ToolSources, tool)
		}
	}

	seen := make(map[string]struct{}, len(dst.Nodes))
	for _, n := range dst.Nodes {
		seen[NormalizeSelector(n.Target)] = struct{}{}
	}
	for _, n := range src.Nodes {
		key := NormalizeSelector(n.Target)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		dst.Nodes = append(dst.Nodes, n)
	}
	dst.NodeCount = len(dst.Nodes)

	dst.Impact = finding.HigherImpact(dst.Impact, src.Impact)

	if len(src.Description) > len(dst.Description) {
		dst.Description = src.Description
	}

	dst.WCAGCriteria = unionSorted(dst.WCAGCriteria, src.WCAGCriteria)
	dst.IsExperimental = dst.IsExperimental || src.IsExperimental
}

func containsTool(tools []finding.ToolSource, tool finding.ToolSource) bool {
	for _, t := range tools {
		if t == tool {
			return true
		}
	}
	return false
}

// unionSorted returns the sorted, deduplicated union of two criterion
// lists.
func unionSorted(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, c := range a {
		set[c] = struct{}{}
	}
	for _, c := range b {
		set[c] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
