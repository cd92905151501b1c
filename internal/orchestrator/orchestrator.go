// Package orchestrator fans an analysis out to every enabled engine and
// joins the results. One failing engine never aborts its siblings: the
// join waits for all engines to settle and a failed engine contributes an
// empty triple.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/a11yscan/internal/engine"
	"github.com/jonesrussell/a11yscan/internal/finding"
	"github.com/jonesrussell/a11yscan/internal/logger"
)

// postProcessingSteps is the fixed number of pipeline stages after the
// engine fan-out (report summarization).
const postProcessingSteps = 1

// SummarizeStepName labels the post-processing slot in progress events.
const SummarizeStepName = "summarize"

// Orchestrator runs enabled engine adapters concurrently.
type Orchestrator struct {
	registry *engine.Registry
	logger   logger.Interface
}

// New creates an orchestrator over the given registry.
func New(registry *engine.Registry, log logger.Interface) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		logger:   log.WithComponent("orchestrator"),
	}
}

// Run executes every enabled engine against the page and returns one
// result per engine, in engine registration order. Engines that fail,
// panic, or return nil contribute an empty triple; no error from a single
// engine escapes. Run itself only fails when the whole analysis is
// cancelled or times out.
func (o *Orchestrator) Run(
	ctx context.Context,
	page *engine.Page,
	opts engine.Options,
	selection map[finding.ToolSource]bool,
	notifier Notifier,
) ([]*finding.EngineRunResult, error) {
	if notifier == nil {
		notifier = NoopNotifier{}
	}

	engines := o.registry.Enabled(selection)
	totalSteps := len(engines) + postProcessingSteps

	results := make([]*finding.EngineRunResult, len(engines))

	var (
		wg       sync.WaitGroup
		stepMu   sync.Mutex
		stepSeen int
	)

	// Progress events must stay ordered even though engines settle in
	// arbitrary order, so step assignment and emission share one lock.
	nextStep := func(name finding.ToolSource, status ProgressStatus, startStep int) int {
		stepMu.Lock()
		defer stepMu.Unlock()
		step := startStep
		if status == StatusRunning {
			stepSeen++
			step = stepSeen
		}
		notifier.Progress(ProgressEvent{
			Step:       step,
			TotalSteps: totalSteps,
			EngineName: string(name),
			Status:     status,
		})
		return step
	}

	for i, eng := range engines {
		wg.Add(1)
		go func(slot int, eng engine.Engine) {
			defer wg.Done()
			results[slot] = o.runEngine(ctx, eng, page, opts, nextStep)
		}(i, eng)
	}

	// Settle-all join: wait for every engine regardless of outcome.
	wg.Wait()

	// The pipeline is all-or-nothing; a cancelled analysis has no
	// valid partial result.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analysis cancelled: %w", err)
	}

	stepMu.Lock()
	notifier.Progress(ProgressEvent{
		Step:       totalSteps,
		TotalSteps: totalSteps,
		EngineName: SummarizeStepName,
		Status:     StatusRunning,
	})
	stepMu.Unlock()

	return results, nil
}

// runEngine invokes one adapter with panic and error isolation. Whatever
// goes wrong inside the adapter, the slot gets a well-formed result.
func (o *Orchestrator) runEngine(
	ctx context.Context,
	eng engine.Engine,
	page *engine.Page,
	opts engine.Options,
	nextStep func(finding.ToolSource, ProgressStatus, int) int,
) *finding.EngineRunResult {
	name := eng.Name()
	log := o.logger.WithEngine(string(name))

	step := nextStep(name, StatusRunning, 0)
	start := time.Now()

	runResult, err := analyzeWithRecover(ctx, eng, page, opts)
	elapsed := time.Since(start)

	var result *finding.EngineRunResult

	switch {
	case err != nil:
		log.Error("engine failed", "error", err, "duration", elapsed)
		result = finding.EmptyRunResult(name)
	case runResult == nil:
		log.Error("engine returned no result", "duration", elapsed)
		result = finding.EmptyRunResult(name)
	default:
		runResult.Tool = name
		if runResult.Duration == 0 {
			runResult.Duration = elapsed
		}
		log.Info("engine completed",
			"violations", len(runResult.Violations),
			"passes", len(runResult.Passes),
			"incomplete", len(runResult.Incomplete),
			"duration", elapsed,
		)
		result = runResult
	}

	nextStep(name, StatusDone, step)
	return result
}

// analyzeWithRecover converts an adapter panic into an ordinary error so
// it is isolated like any other engine failure.
func analyzeWithRecover(
	ctx context.Context,
	eng engine.Engine,
	page *engine.Page,
	opts engine.Options,
) (result *finding.EngineRunResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("engine panicked: %v", r)
		}
	}()
	return eng.Analyze(ctx, page, opts)
}
