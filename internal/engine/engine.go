// Package engine defines the adapter contract every accessibility checking
// engine implements, plus the registry the orchestrator selects engines
// from. Adapters normalize a third-party checker's output into the common
// finding shape; their internal scraping and parsing logic stays behind
// this contract.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonesrussell/a11yscan/internal/finding"
)

// Page is the handle to the target page under analysis. The browser
// automation that produced it lives outside this module; adapters only
// read from it.
type Page struct {
	// URL is the address of the page being analyzed.
	URL string
	// HTML is the rendered document, when the driver captured it.
	HTML string
	// Viewport identifies the viewport profile in effect ("desktop",
	// "mobile"), empty when responsive testing is off.
	Viewport string
}

// Options carries adapter-specific settings the orchestrator passes
// through untouched.
type Options struct {
	// WCAGVersion is the targeted standard revision, e.g. "2.2".
	WCAGVersion string
	// Level is the targeted conformance level: "A", "AA" or "AAA".
	Level string
}

// Engine is the contract every adapter implements. Analyze blocks for the
// full engine run; cancellation comes through ctx.
type Engine interface {
	// Name returns the engine's identifier from the closed tool set.
	Name() finding.ToolSource

	// Analyze runs the engine against the page and returns the
	// normalized finding triple with the run duration.
	Analyze(ctx context.Context, page *Page, opts Options) (*finding.EngineRunResult, error)
}

// ErrUnknownEngine is returned when a requested engine is not registered.
var ErrUnknownEngine = errors.New("unknown engine")

// Registry holds the available engine adapters keyed by tool source.
// Registration order is preserved; it defines the fan-out and dedup
// arrival order.
type Registry struct {
	engines map[finding.ToolSource]Engine
	order   []finding.ToolSource
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		engines: make(map[finding.ToolSource]Engine),
	}
}

// Register adds an adapter. Registering a tool outside the closed set or
// twice is an error.
func (r *Registry) Register(e Engine) error {
	name := e.Name()
	if !finding.IsValidTool(name) {
		return fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	if _, exists := r.engines[name]; exists {
		return fmt.Errorf("engine %q already registered", name)
	}
	r.engines[name] = e
	r.order = append(r.order, name)
	return nil
}

// Get returns the adapter for a tool source.
func (r *Registry) Get(name finding.ToolSource) (Engine, error) {
	e, ok := r.engines[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
	return e, nil
}

// Enabled returns the registered adapters whose tool source is enabled in
// the selection, in registration order.
func (r *Registry) Enabled(selection map[finding.ToolSource]bool) []Engine {
	var out []Engine
	for _, name := range r.order {
		if selection[name] {
			out = append(out, r.engines[name])
		}
	}
	return out
}

// Names returns every registered tool source in registration order.
func (r *Registry) Names() []finding.ToolSource {
	return append([]finding.ToolSource(nil), r.order...)
}
