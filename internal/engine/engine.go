package engine

import (
	"context"
	"time"

	"verifyica/internal/config"
	"verifyica/internal/descriptor"
	"verifyica/internal/resolver"
	"verifyica/pkg/api"
	"verifyica/pkg/lock"
	"verifyica/pkg/logging"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Engine is the verifyica execution engine. Engines are independent: each
// carries its own introspector, configuration, listener and interceptors,
// so tests can run isolated engines side by side.
type Engine struct {
	introspector api.TestClassIntrospector
	cfg          config.Config
	listener     api.ExecutionListener
	builtins     []api.ClassInterceptor
	filters      *resolver.Filters
	locks        *lock.Manager
	version      string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithListener sets the execution listener receiving run events.
func WithListener(listener api.ExecutionListener) Option {
	return func(e *Engine) { e.listener = listener }
}

// WithInterceptors registers built-in engine interceptors. They run before
// class-specific interceptors, ordered by Order.
func WithInterceptors(interceptors ...api.ClassInterceptor) Option {
	return func(e *Engine) { e.builtins = append(e.builtins, interceptors...) }
}

// WithVersion sets the engine version exposed on the EngineContext.
func WithVersion(version string) Option {
	return func(e *Engine) { e.version = version }
}

// WithFilters sets programmatic class-definition filters, combined with the
// records of the configured filter file.
func WithFilters(filters *resolver.Filters) Option {
	return func(e *Engine) { e.filters = filters }
}

// New creates an engine over the introspector with the given configuration.
func New(introspector api.TestClassIntrospector, cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		introspector: introspector,
		cfg:          cfg,
		listener:     api.NoopListener{},
		locks:        lock.NewManager(),
		version:      "dev",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run resolves the selectors into a descriptor tree and executes it. A
// discovery failure emits no test events and is reported on the summary.
// User errors never propagate out of Run; cancellation of ctx stops new
// submissions while teardown branches still execute.
func (e *Engine) Run(ctx context.Context, selectors ...resolver.Selector) *Summary {
	summary := &Summary{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	defer func() {
		summary.EndTime = time.Now()
		summary.Duration = summary.EndTime.Sub(summary.StartTime)
	}()

	filters, err := e.loadFilters()
	if err != nil {
		logging.Error("Engine", err, "filter resolution failed")
		summary.DiscoveryError = err.Error()
		return summary
	}

	tree, err := resolver.Resolve(resolver.Request{
		Introspector: e.introspector,
		Selectors:    selectors,
		Filters:      filters,
		Shuffle:      e.cfg.ShuffleClasses,
	})
	if err != nil {
		logging.Error("Engine", err, "discovery failed")
		summary.DiscoveryError = err.Error()
		return summary
	}
	summary.Classes = len(tree.Classes)
	for _, class := range tree.Classes {
		summary.Arguments += len(class.Arguments)
	}

	// The counter observes the same event stream as the user listener.
	listener := api.MultiListener{&counter{summary: summary}, e.listener}

	engineCtx := newEngineContext(summary.RunID, e.version, e.cfg.Properties(), e.locks)
	logging.Info("Engine", "run %s: %d classes, %d tests", summary.RunID, summary.Classes, tree.TestCount())

	listener.Started(tree.ID)
	e.runClasses(ctx, engineCtx, tree, listener)

	var engineRecords records
	// Destroy built-in interceptors in reverse order.
	for i := len(e.builtins) - 1; i >= 0; i-- {
		interceptor := e.builtins[i]
		if err := safeCall(func() error { return interceptor.OnDestroy(engineCtx) }); err != nil {
			logging.Debug("Interceptor", "onDestroy failed: %v", err)
			engineRecords.add("DESTROY_FAILURE", err)
		}
	}
	// Close the engine store in reverse insertion order.
	closeErr := engineCtx.store.Close()
	engineRecords.add(stateOf("STORE_CLOSE", closeErr), closeErr)
	listener.Finished(tree.ID, engineRecords.result())

	return summary
}

// loadFilters combines the programmatic filters with the records of the
// configured filter file, if any.
func (e *Engine) loadFilters() (*resolver.Filters, error) {
	filters := &resolver.Filters{}
	if e.filters != nil {
		filters.ClassName = append(filters.ClassName, e.filters.ClassName...)
		filters.IncludeTags = append(filters.IncludeTags, e.filters.IncludeTags...)
		filters.ExcludeTags = append(filters.ExcludeTags, e.filters.ExcludeTags...)
	}
	if e.cfg.FilterFilename != "" {
		fromFile, err := resolver.LoadFilterFile(e.cfg.FilterFilename)
		if err != nil {
			return nil, err
		}
		filters.ClassName = append(filters.ClassName, fromFile.ClassName...)
	}
	return filters, nil
}

// runClasses executes the class subtrees with bounded parallelism,
// submitting in resolver order. Classes not submitted after a shutdown
// signal are skip-announced.
func (e *Engine) runClasses(ctx context.Context, engineCtx *engineContext, tree *descriptor.EngineDescriptor, listener api.ExecutionListener) {
	sem := semaphore.NewWeighted(int64(e.cfg.ClassParallelism))
	var group errgroup.Group

	for _, class := range tree.Classes {
		if err := sem.Acquire(ctx, 1); err != nil {
			skipClassSubtree(listener, class, skipReasonCancelled)
			continue
		}
		group.Go(func() error {
			defer sem.Release(1)
			e.runClass(ctx, engineCtx, class, listener)
			return nil
		})
	}
	_ = group.Wait()
}

// runClass executes one class subtree on the calling worker.
func (e *Engine) runClass(ctx context.Context, engineCtx *engineContext, class *descriptor.ClassDescriptor, listener api.ExecutionListener) {
	chain, err := buildChain(e.builtins, class.Model)
	if err != nil {
		logging.Error("Engine", err, "class %s interceptor resolution failed", class.Name)
		listener.Started(class.ID)
		for _, arg := range class.Arguments {
			skipArgumentSubtree(listener, arg, "interceptor resolution failed")
		}
		listener.Finished(class.ID, api.Failed(err))
		return
	}
	supplied := chain[len(e.builtins):]

	machine := &classMachine{
		engineCtx: engineCtx,
		node:      class,
		chain:     chain,
		supplied:  supplied,
		listener:  listener,
		ctx:       newClassContext(engineCtx, class, e.effectiveArgumentParallelism(class)),
	}
	listener.Started(class.ID)
	result := machine.run(ctx)
	listener.Finished(class.ID, result)
}

// effectiveArgumentParallelism clamps the class-declared argument
// parallelism to the engine-wide ceiling.
func (e *Engine) effectiveArgumentParallelism(class *descriptor.ClassDescriptor) int {
	parallelism := class.ArgumentParallelism
	if parallelism > e.cfg.ArgumentParallelism {
		parallelism = e.cfg.ArgumentParallelism
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return parallelism
}
