package wcag

import (
	"fmt"
	"strings"
)

// csvHeader is the fixed header row of the coverage export.
const csvHeader = "成功基準,タイトル,レベル,テスト方法,結果,検出ツール"

// noToolsPlaceholder marks rows no engine contributed to.
const noToolsPlaceholder = "-"

// ExportCSV renders the coverage matrix as UTF-8 CSV text: one header
// line, one data line per criterion, a blank line, then one summary line
// per conformance level formatted covered/total. The format is byte-exact;
// consumers parse it verbatim.
func ExportCSV(matrix *CoverageMatrix) string {
	var b strings.Builder
	b.WriteString(csvHeader)
	b.WriteByte('\n')

	for i := range matrix.Criteria {
		row := &matrix.Criteria[i]
		tools := noToolsPlaceholder
		if len(row.Tools) > 0 {
			names := make([]string, len(row.Tools))
			for j, t := range row.Tools {
				names[j] = string(t)
			}
			tools = strings.Join(names, "; ")
		}

		fields := []string{
			row.Criterion,
			csvEscape(row.Title),
			string(row.Level),
			string(row.Method),
			string(row.Result),
			csvEscape(tools),
		}
		b.WriteString(strings.Join(fields, ","))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	fmt.Fprintf(&b, "Level A,%d/%d\n", matrix.Summary.LevelA.Covered, matrix.Summary.LevelA.Total)
	fmt.Fprintf(&b, "Level AA,%d/%d\n", matrix.Summary.LevelAA.Covered, matrix.Summary.LevelAA.Total)
	fmt.Fprintf(&b, "Level AAA,%d/%d\n", matrix.Summary.LevelAAA.Covered, matrix.Summary.LevelAAA.Total)

	return b.String()
}

// csvEscape quotes a field containing a comma, quote, or newline and
// doubles any embedded quotes.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return "\"" + strings.ReplaceAll(field, "\"", "\"\"") + "\""
}
