package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonesrussell/a11yscan/internal/finding"
)

// NewFileRegistry builds a registry of file-backed adapters, one per
// supported tool, reading <dir>/<tool>.json. Missing files surface later
// as ordinary engine failures the orchestrator isolates.
func NewFileRegistry(dir string) (*Registry, error) {
	r := NewRegistry()
	for _, tool := range finding.AllTools {
		path := filepath.Join(dir, string(tool)+".json")
		if err := r.Register(NewFileAdapter(tool, path)); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// resultDocument is the on-disk JSON shape a file-backed engine reads.
// It mirrors what the browser-side checkers dump after a run.
type resultDocument struct {
	Tool       string            `json:"tool"`
	Violations []finding.Finding `json:"violations"`
	Passes     []finding.Finding `json:"passes"`
	Incomplete []finding.Finding `json:"incomplete"`
	DurationMS int64             `json:"durationMs"`
}

// FileAdapter replays a previously captured engine run from a JSON
// document. It is the one concrete adapter shipped with the core: live
// adapters drive a browser and are wired in by the caller.
type FileAdapter struct {
	tool finding.ToolSource
	path string
}

// NewFileAdapter creates an adapter that reads the given tool's results
// from path.
func NewFileAdapter(tool finding.ToolSource, path string) *FileAdapter {
	return &FileAdapter{tool: tool, path: path}
}

// Name returns the engine's identifier.
func (a *FileAdapter) Name() finding.ToolSource {
	return a.tool
}

// Analyze parses the results document and normalizes it into the common
// finding shape.
func (a *FileAdapter) Analyze(
	ctx context.Context,
	page *Page,
	opts Options,
) (*finding.EngineRunResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(a.path)
	if err != nil {
		return nil, fmt.Errorf("read results for %s: %w", a.tool, err)
	}
	return ParseResultBytes(a.tool, b)
}

// ParseResultBytes decodes one engine's results document and normalizes
// every finding: tool source stamped, criteria cleaned, HTML excerpts
// truncated, node counts made consistent.
func ParseResultBytes(tool finding.ToolSource, b []byte) (*finding.EngineRunResult, error) {
	var doc resultDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse results for %s: %w", tool, err)
	}

	if doc.Tool != "" && finding.ToolSource(doc.Tool) != tool {
		return nil, fmt.Errorf("results document is for %q, expected %q", doc.Tool, tool)
	}

	result := &finding.EngineRunResult{
		Tool:       tool,
		Violations: normalizeBucket(tool, doc.Violations),
		Passes:     normalizeBucket(tool, doc.Passes),
		Incomplete: normalizeBucket(tool, doc.Incomplete),
		Duration:   time.Duration(doc.DurationMS) * time.Millisecond,
	}
	return result, nil
}

// normalizeBucket cleans one bucket of raw findings in place.
func normalizeBucket(tool finding.ToolSource, bucket []finding.Finding) []finding.Finding {
	if bucket == nil {
		return []finding.Finding{}
	}
	for i := range bucket {
		f := &bucket[i]
		f.ToolSource = tool
		f.WCAGCriteria = finding.NormalizeCriteria(f.WCAGCriteria)
		for j := range f.Nodes {
			f.Nodes[j].HTML = finding.TruncateHTML(f.Nodes[j].HTML)
		}
		f.NodeCount = len(f.Nodes)
	}
	return bucket
}
