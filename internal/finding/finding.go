// Package finding defines the common finding shape shared by every
// accessibility engine adapter. Each engine normalizes its own output into
// these types; everything downstream (dedup, coverage, semi-auto) only ever
// sees this shape.
package finding

import (
	"strings"
	"time"
)

// ToolSource identifies one accessibility checking engine.
type ToolSource string

const (
	ToolAxeCore    ToolSource = "axe-core"
	ToolHTMLCS     ToolSource = "htmlcs"
	ToolLighthouse ToolSource = "lighthouse"
	ToolIBM        ToolSource = "ibm"
	ToolAlfa       ToolSource = "alfa"
	ToolQualWeb    ToolSource = "qualweb"
	ToolWave       ToolSource = "wave"
)

// AllTools lists every supported engine in registration order.
var AllTools = []ToolSource{
	ToolAxeCore,
	ToolHTMLCS,
	ToolLighthouse,
	ToolIBM,
	ToolAlfa,
	ToolQualWeb,
	ToolWave,
}

// IsValidTool reports whether s names a supported engine.
func IsValidTool(s ToolSource) bool {
	for _, t := range AllTools {
		if t == s {
			return true
		}
	}
	return false
}

// Impact is the normalized severity of a finding.
type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
	ImpactMinor    Impact = "minor"
)

// impactPriority orders impacts for merging. Higher wins.
var impactPriority = map[Impact]int{
	ImpactCritical: 4,
	ImpactSerious:  3,
	ImpactModerate: 2,
	ImpactMinor:    1,
}

// Priority returns the merge priority of an impact. Unknown or empty
// impacts rank below minor.
func (i Impact) Priority() int {
	return impactPriority[i]
}

// HigherImpact returns the higher-priority of two impacts.
func HigherImpact(a, b Impact) Impact {
	if b.Priority() > a.Priority() {
		return b
	}
	return a
}

// BoundingBox is the pixel-space rectangle of a node on the rendered page.
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NodeInfo ties a finding to one DOM node.
type NodeInfo struct {
	// Target is a structural selector uniquely identifying the node
	// within its page.
	Target string `json:"target"`
	XPath  string `json:"xpath,omitempty"`
	// HTML is an excerpt of the node's outer HTML, at most
	// MaxHTMLExcerptLen characters, truncated with an ellipsis.
	HTML               string       `json:"html,omitempty"`
	ContextHTML        string       `json:"contextHtml,omitempty"`
	FailureSummary     string       `json:"failureSummary,omitempty"`
	BoundingBox        *BoundingBox `json:"boundingBox,omitempty"`
	IsHidden           bool         `json:"isHidden,omitempty"`
	ElementDescription string       `json:"elementDescription,omitempty"`
	ElementScreenshot  string       `json:"elementScreenshot,omitempty"`
}

// MaxHTMLExcerptLen caps NodeInfo.HTML excerpts.
const MaxHTMLExcerptLen = 200

// TruncateHTML shortens an HTML excerpt to MaxHTMLExcerptLen characters,
// appending an ellipsis when anything was cut.
func TruncateHTML(html string) string {
	runes := []rune(html)
	if len(runes) <= MaxHTMLExcerptLen {
		return html
	}
	return string(runes[:MaxHTMLExcerptLen]) + "..."
}

// Finding is one reported item (violation, pass, or incomplete) from one
// engine, optionally tied to specific DOM nodes.
type Finding struct {
	// ID is the engine-local rule identifier. It is not globally unique
	// across engines.
	ID          string `json:"id"`
	Description string `json:"description"`
	Impact      Impact `json:"impact,omitempty"`
	// WCAGCriteria lists the success criteria the rule maps to,
	// e.g. "1.4.3". May be empty.
	WCAGCriteria []string   `json:"wcagCriteria"`
	ToolSource   ToolSource `json:"toolSource"`
	// ToolSources is populated only after a merge; it records every
	// engine that contributed to the merged finding.
	ToolSources []ToolSource `json:"toolSources,omitempty"`
	Nodes       []NodeInfo   `json:"nodes,omitempty"`
	// NodeCount always equals len(Nodes) once nodes are attached.
	NodeCount      int  `json:"nodeCount"`
	IsExperimental bool `json:"isExperimental,omitempty"`
	// RawScore and ClassificationReason carry engine-specific
	// provenance; the core treats them as opaque.
	RawScore             float64 `json:"rawScore,omitempty"`
	ClassificationReason string  `json:"classificationReason,omitempty"`
}

// HasCriterion reports whether the finding maps to the given criterion.
func (f *Finding) HasCriterion(criterion string) bool {
	for _, c := range f.WCAGCriteria {
		if c == criterion {
			return true
		}
	}
	return false
}

// SharesCriterion reports whether two findings map to at least one common
// success criterion. Two findings with empty criteria never match.
func (f *Finding) SharesCriterion(other *Finding) bool {
	if len(f.WCAGCriteria) == 0 || len(other.WCAGCriteria) == 0 {
		return false
	}
	for _, c := range f.WCAGCriteria {
		if other.HasCriterion(c) {
			return true
		}
	}
	return false
}

// PrimaryNode returns the first node of a finding, or nil when the finding
// has none.
func (f *Finding) PrimaryNode() *NodeInfo {
	if len(f.Nodes) == 0 {
		return nil
	}
	return &f.Nodes[0]
}

// EngineRunResult is the triple one engine produces for one analysis.
type EngineRunResult struct {
	Tool       ToolSource    `json:"tool"`
	Violations []Finding     `json:"violations"`
	Passes     []Finding     `json:"passes"`
	Incomplete []Finding     `json:"incomplete"`
	Duration   time.Duration `json:"duration"`
}

// Contributed reports whether the run produced anything. Failed engines
// settle to an empty zero-duration result and must stay invisible in
// per-engine report sections.
func (r *EngineRunResult) Contributed() bool {
	return r.Duration > 0 ||
		len(r.Violations)+len(r.Passes)+len(r.Incomplete) > 0
}

// EmptyRunResult is the contribution of a failed engine: an empty triple
// with zero duration.
func EmptyRunResult(tool ToolSource) *EngineRunResult {
	return &EngineRunResult{
		Tool:       tool,
		Violations: []Finding{},
		Passes:     []Finding{},
		Incomplete: []Finding{},
	}
}

// NormalizeCriteria trims and drops empty criterion ids in place,
// returning the cleaned slice.
func NormalizeCriteria(criteria []string) []string {
	out := criteria[:0]
	for _, c := range criteria {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
