// Package analyze implements the command that runs a full accessibility
// analysis from captured engine results and renders the outcome.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/a11yscan/cmd/common"
	"github.com/jonesrussell/a11yscan/internal/analyzer"
	"github.com/jonesrussell/a11yscan/internal/engine"
	"github.com/jonesrussell/a11yscan/internal/logger"
	"github.com/jonesrussell/a11yscan/internal/orchestrator"
	"github.com/jonesrussell/a11yscan/internal/report"
	"github.com/jonesrussell/a11yscan/internal/wcag"
)

const reportFileMode = 0o644

// TableRenderer handles the display of an analysis report in table form.
type TableRenderer struct {
	logger logger.Interface
}

// NewTableRenderer creates a new TableRenderer instance.
func NewTableRenderer(log logger.Interface) *TableRenderer {
	return &TableRenderer{
		logger: log,
	}
}

// RenderViolations formats and displays the merged violations.
func (r *TableRenderer) RenderViolations(rep *report.Report) {
	if len(rep.Violations) == 0 {
		fmt.Println("No violations found.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Rule", "Impact", "Criteria", "Tools", "Nodes"})
	for i := range rep.Violations {
		v := &rep.Violations[i]
		tools := make([]string, len(v.ToolSources))
		for j, tool := range v.ToolSources {
			tools[j] = string(tool)
		}
		t.AppendRow(table.Row{
			v.ID,
			v.Impact,
			strings.Join(v.WCAGCriteria, ", "),
			strings.Join(tools, ", "),
			v.NodeCount,
		})
	}
	t.Render()
}

// RenderCoverage formats and displays the per-level coverage summary.
func (r *TableRenderer) RenderCoverage(matrix *wcag.CoverageMatrix) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Level", "Covered", "Total"})
	t.AppendRow(table.Row{"A", matrix.Summary.LevelA.Covered, matrix.Summary.LevelA.Total})
	t.AppendRow(table.Row{"AA", matrix.Summary.LevelAA.Covered, matrix.Summary.LevelAA.Total})
	t.AppendRow(table.Row{"AAA", matrix.Summary.LevelAAA.Covered, matrix.Summary.LevelAAA.Total})
	t.Render()
}

// Runner executes one analysis and writes the requested outputs.
type Runner struct {
	deps     *common.CommandDeps
	renderer *TableRenderer

	url      string
	csvPath  string
	jsonPath string
}

// Start begins the analysis.
func (r *Runner) Start(ctx context.Context) error {
	cfg := r.deps.Config.Analysis

	registry, err := engine.NewFileRegistry(cfg.ResultsDir)
	if err != nil {
		return fmt.Errorf("failed to build engine registry: %w", err)
	}

	session := analyzer.NewSession(registry, cfg, r.deps.Logger)
	rep, err := session.Analyze(ctx, &engine.Page{URL: r.url}, orchestrator.NoopNotifier{})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	r.renderer.RenderViolations(rep)
	if rep.Coverage != nil {
		r.renderer.RenderCoverage(rep.Coverage)
	}

	if r.csvPath != "" && rep.Coverage != nil {
		csv := wcag.ExportCSV(rep.Coverage)
		if writeErr := os.WriteFile(r.csvPath, []byte(csv), reportFileMode); writeErr != nil {
			return fmt.Errorf("failed to write coverage CSV: %w", writeErr)
		}
		r.deps.Logger.Info("Coverage CSV written", "path", r.csvPath)
	}

	if r.jsonPath != "" {
		raw, marshalErr := json.MarshalIndent(rep, "", "  ")
		if marshalErr != nil {
			return fmt.Errorf("failed to marshal report: %w", marshalErr)
		}
		if writeErr := os.WriteFile(r.jsonPath, append(raw, '\n'), reportFileMode); writeErr != nil {
			return fmt.Errorf("failed to write report JSON: %w", writeErr)
		}
		r.deps.Logger.Info("Report JSON written", "path", r.jsonPath)
	}

	return nil
}

// Command creates the analyze command.
func Command() *cobra.Command {
	var (
		url        string
		resultsDir string
		csvPath    string
		jsonPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run an accessibility analysis from captured engine results",
		Long: `Run the full analysis pipeline over the engine results captured in the
results directory, then print the merged violations and WCAG coverage.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to get dependencies: %w", err)
			}

			if resultsDir != "" {
				deps.Config.Analysis.ResultsDir = resultsDir
			}

			runner := &Runner{
				deps:     deps,
				renderer: NewTableRenderer(deps.Logger),
				url:      url,
				csvPath:  csvPath,
				jsonPath: jsonPath,
			}
			return runner.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "URL the captured results were taken from")
	cmd.Flags().StringVar(&resultsDir, "results-dir", "", "directory holding <tool>.json result files")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the coverage matrix CSV to this path")
	cmd.Flags().StringVar(&jsonPath, "json", "", "write the full report JSON to this path")
	_ = cmd.MarkFlagRequired("url")

	return cmd
}
