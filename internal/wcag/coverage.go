package wcag

import (
	"github.com/jonesrussell/a11yscan/internal/dedup"
	"github.com/jonesrussell/a11yscan/internal/finding"
)

// TestMethod records how a criterion was evaluated.
type TestMethod string

const (
	MethodAuto      TestMethod = "auto"
	MethodSemiAuto  TestMethod = "semi-auto"
	MethodManual    TestMethod = "manual"
	MethodNotTested TestMethod = "not-tested"
)

// TestResult is the evaluated outcome for one criterion.
type TestResult string

const (
	ResultPass          TestResult = "pass"
	ResultFail          TestResult = "fail"
	ResultNeedsReview   TestResult = "needs-review"
	ResultNotApplicable TestResult = "not-applicable"
)

// resultPriority orders results for monotonic upgrading. A criterion's
// result only ever moves to a higher-priority value within one analysis.
var resultPriority = map[TestResult]int{
	ResultFail:          4,
	ResultNeedsReview:   3,
	ResultPass:          2,
	ResultNotApplicable: 1,
}

// Answer is a human reviewer's verdict on a semi-auto item.
type Answer string

const (
	AnswerAppropriate     Answer = "appropriate"
	AnswerInappropriate   Answer = "inappropriate"
	AnswerCannotDetermine Answer = "cannot-determine"
)

// answerResults maps reviewer answers onto criterion results.
var answerResults = map[Answer]TestResult{
	AnswerAppropriate:     ResultPass,
	AnswerInappropriate:   ResultFail,
	AnswerCannotDetermine: ResultNeedsReview,
}

// CriterionStatus is one mutable row of the coverage matrix. Created once
// per criterion per analysis and only ever upgraded.
type CriterionStatus struct {
	Criterion string               `json:"criterion"`
	Level     Level                `json:"level"`
	Title     string               `json:"title"`
	Method    TestMethod           `json:"method"`
	Result    TestResult           `json:"result"`
	Tools     []finding.ToolSource `json:"tools"`
}

// LevelSummary counts covered criteria at one conformance level. A row is
// covered once its method is anything other than not-tested.
type LevelSummary struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
}

// Summary aggregates coverage per conformance level.
type Summary struct {
	LevelA   LevelSummary `json:"levelA"`
	LevelAA  LevelSummary `json:"levelAA"`
	LevelAAA LevelSummary `json:"levelAAA"`
}

// CoverageMatrix is the per-analysis coverage table. It is rebuilt from
// scratch on every call, never patched incrementally, and is owned by
// exactly one analysis session.
type CoverageMatrix struct {
	Criteria []CriterionStatus `json:"criteria"`
	Summary  Summary           `json:"summary"`
}

// SemiAutoAnswer carries one recorded reviewer answer into the coverage
// calculation.
type SemiAutoAnswer struct {
	WCAGCriteria []string
	Answer       Answer
}

// CalculateCoverage maps the merged findings onto the full master list.
// Violations mark fail, incomplete needs-review, passes pass; each upgrade
// is monotonic. Reviewer answers only ever touch rows automation left
// not-tested: automatic evidence always takes precedence over human
// review.
func CalculateCoverage(merged *dedup.Result, answers []SemiAutoAnswer) *CoverageMatrix {
	rows := make([]CriterionStatus, len(masterCriteria))
	index := make(map[string]*CriterionStatus, len(masterCriteria))
	for i, c := range masterCriteria {
		rows[i] = CriterionStatus{
			Criterion: c.ID,
			Level:     c.Level,
			Title:     c.Title,
			Method:    MethodNotTested,
			Result:    ResultNotApplicable,
			Tools:     []finding.ToolSource{},
		}
		index[c.ID] = &rows[i]
	}

	if merged != nil {
		applyBucket(index, merged.Violations, ResultFail)
		applyBucket(index, merged.Incomplete, ResultNeedsReview)
		applyBucket(index, merged.Passes, ResultPass)
	}

	for _, answer := range answers {
		applyAnswer(index, answer)
	}

	matrix := &CoverageMatrix{Criteria: rows}
	matrix.Summary = summarize(rows)
	return matrix
}

// applyBucket folds one merged bucket into the matrix rows.
func applyBucket(index map[string]*CriterionStatus, findings []finding.Finding, result TestResult) {
	for i := range findings {
		f := &findings[i]
		tools := f.ToolSources
		if len(tools) == 0 && f.ToolSource != "" {
			tools = []finding.ToolSource{f.ToolSource}
		}
		for _, criterion := range f.WCAGCriteria {
			row, ok := index[criterion]
			if !ok {
				// Unknown criterion id from an engine; nothing to
				// record against.
				continue
			}
			for _, tool := range tools {
				addTool(row, tool)
			}
			if row.Method == MethodNotTested {
				row.Method = MethodAuto
			}
			upgradeResult(row, result)
		}
	}
}

// applyAnswer records a reviewer verdict on every still-untested criterion
// the answered item maps to.
func applyAnswer(index map[string]*CriterionStatus, answer SemiAutoAnswer) {
	result, ok := answerResults[answer.Answer]
	if !ok {
		return
	}
	for _, criterion := range answer.WCAGCriteria {
		row, exists := index[criterion]
		if !exists || row.Method != MethodNotTested {
			continue
		}
		row.Method = MethodSemiAuto
		row.Result = result
	}
}

// upgradeResult moves a row's result to the given value only when that is
// a strict upgrade.
func upgradeResult(row *CriterionStatus, result TestResult) {
	if resultPriority[result] > resultPriority[row.Result] {
		row.Result = result
	}
}

func addTool(row *CriterionStatus, tool finding.ToolSource) {
	for _, t := range row.Tools {
		if t == tool {
			return
		}
	}
	row.Tools = append(row.Tools, tool)
}

// summarize computes per-level covered/total counts.
func summarize(rows []CriterionStatus) Summary {
	var s Summary
	for i := range rows {
		row := &rows[i]
		covered := row.Method != MethodNotTested

		var ls *LevelSummary
		switch row.Level {
		case LevelA:
			ls = &s.LevelA
		case LevelAA:
			ls = &s.LevelAA
		case LevelAAA:
			ls = &s.LevelAAA
		default:
			continue
		}
		ls.Total++
		if covered {
			ls.Covered++
		}
	}
	return s
}
