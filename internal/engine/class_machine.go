package engine

import (
	"context"

	"verifyica/internal/descriptor"
	"verifyica/pkg/api"
	"verifyica/pkg/logging"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Class-level machine states.
const (
	classStateStart       = "START"
	classStateInstantiate = "INSTANTIATE"
	classStatePrepare     = "PREPARE"
	classStateArguments   = "ARGUMENTS_COMPLETE"
	classStateConclude    = "CONCLUDE"
	classStateStoreClose  = "STORE_CLOSE"
	classStateEnd         = "END"
)

const skipReasonInstantiationFailed = "instantiation failed"
const skipReasonPrepareFailed = "prepare failed"

// classMachine runs one class subtree: the interceptor-wrapped instantiation
// pipeline, the prepare methods, the argument subtrees (parallel, bounded by
// the effective argument parallelism), the conclude methods, and the
// class-store auto-close. Conclude and the store close always run; the first
// class-level error wins the class result. Child failures are reported on
// the children and do not fail the class node.
type classMachine struct {
	engineCtx *engineContext
	node      *descriptor.ClassDescriptor
	chain     interceptorChain
	// supplied are the class-specific interceptors from the class's
	// supplier; their OnDestroy runs at class end in reverse order.
	supplied []api.ClassInterceptor
	listener api.ExecutionListener
	ctx      *classContext
	records  records
}

// run executes the machine. The caller announces the class's Started and
// Finished events.
func (m *classMachine) run(ctx context.Context) api.TestExecutionResult {
	m.records.add(classStateStart, nil)

	instantiateErr := m.instantiate()
	m.records.add(stateOf(classStateInstantiate, instantiateErr), instantiateErr)

	var prepareErr error
	if instantiateErr == nil {
		var postErrs []error
		prepareErr, postErrs = m.chain.around(
			func(i api.ClassInterceptor) error { return i.PrePrepare(m.ctx) },
			func() error { return invokeClassMethods(m.node.PrepareMethods, m.ctx) },
			func(i api.ClassInterceptor, err error) error { return i.PostPrepare(m.ctx, err) },
		)
		m.records.add(stateOf(classStatePrepare, prepareErr), prepareErr)
		m.records.addAll(stateOf(classStatePrepare, prepareErr), postErrs)
	}

	switch {
	case instantiateErr != nil:
		m.skipArguments(skipReasonInstantiationFailed)
	case prepareErr != nil:
		m.skipArguments(skipReasonPrepareFailed)
	default:
		m.runArguments(ctx)
	}
	m.records.add(classStateArguments, nil)

	// conclude always runs.
	concludeErr, postErrs := m.chain.around(
		func(i api.ClassInterceptor) error { return i.PreConclude(m.ctx) },
		func() error { return invokeClassMethods(m.node.ConcludeMethods, m.ctx) },
		func(i api.ClassInterceptor, err error) error { return i.PostConclude(m.ctx, err) },
	)
	m.records.add(stateOf(classStateConclude, concludeErr), concludeErr)
	m.records.addAll(stateOf(classStateConclude, concludeErr), postErrs)

	// Close the class store in reverse insertion order.
	closeErr := m.ctx.store.Close()
	m.records.add(stateOf(classStateStoreClose, closeErr), closeErr)

	// Destroy class-specific interceptors in reverse order.
	for i := len(m.supplied) - 1; i >= 0; i-- {
		interceptor := m.supplied[i]
		if err := safeCall(func() error { return interceptor.OnDestroy(m.engineCtx) }); err != nil {
			logging.Debug("Interceptor", "onDestroy failed for class %s: %v", m.node.Name, err)
			m.records.add(classStateEnd, err)
		}
	}

	m.records.add(classStateEnd, nil)
	return m.records.result()
}

// instantiate constructs the test instance exactly once per class through
// the preInstantiate → construct → postInstantiate pipeline. A failure is
// an InstantiationError.
func (m *classMachine) instantiate() error {
	var instance any
	err, postErrs := m.chain.around(
		func(i api.ClassInterceptor) error { return i.PreInstantiate(m.engineCtx) },
		func() error {
			if m.node.Model.NewInstance == nil {
				return nil
			}
			created, err := m.node.Model.NewInstance()
			if err != nil {
				return err
			}
			instance = created
			return nil
		},
		func(i api.ClassInterceptor, err error) error { return i.PostInstantiate(m.engineCtx, instance, err) },
	)
	for _, postErr := range postErrs {
		m.records.add(classStateInstantiate+"_FAILURE", postErr)
	}
	if err != nil {
		return &api.InstantiationError{ClassName: m.node.Name, Err: err}
	}
	m.ctx.setTestInstance(instance)
	return nil
}

// runArguments executes the class's argument subtrees with bounded
// parallelism, submitting in stable resolver order. A shutdown signal stops
// new submissions; the remaining arguments are skip-announced.
func (m *classMachine) runArguments(ctx context.Context) {
	parallelism := m.ctx.ArgumentParallelism()
	sem := semaphore.NewWeighted(int64(parallelism))
	var group errgroup.Group

	for _, arg := range m.node.Arguments {
		if err := sem.Acquire(ctx, 1); err != nil {
			skipArgumentSubtree(m.listener, arg, skipReasonCancelled)
			continue
		}
		group.Go(func() error {
			defer sem.Release(1)
			m.runArgument(ctx, arg)
			return nil
		})
	}
	// Conclude starts only after every argument subtree has terminated.
	_ = group.Wait()
}

// runArgument executes one argument subtree on the calling worker.
func (m *classMachine) runArgument(ctx context.Context, arg *descriptor.ArgumentDescriptor) {
	argCtx := newArgumentContext(m.ctx, arg)
	machine := &argumentMachine{
		chain:        m.chain,
		node:         arg,
		ctx:          argCtx,
		listener:     m.listener,
		scenarioTest: m.node.Model.ScenarioTest,
	}
	m.listener.Started(arg.ID)
	result := machine.run(ctx)
	m.listener.Finished(arg.ID, result)
}

// skipArguments announces every argument subtree as skipped.
func (m *classMachine) skipArguments(reason string) {
	for _, arg := range m.node.Arguments {
		skipArgumentSubtree(m.listener, arg, reason)
	}
}

// skipArgumentSubtree announces an argument node and its test children as
// skipped.
func skipArgumentSubtree(listener api.ExecutionListener, arg *descriptor.ArgumentDescriptor, reason string) {
	listener.Started(arg.ID)
	for _, test := range arg.Tests {
		listener.Started(test.ID)
		listener.Skipped(test.ID, reason)
	}
	listener.Skipped(arg.ID, reason)
}

// skipClassSubtree announces a class node and all of its descendants as
// skipped.
func skipClassSubtree(listener api.ExecutionListener, class *descriptor.ClassDescriptor, reason string) {
	listener.Started(class.ID)
	for _, arg := range class.Arguments {
		skipArgumentSubtree(listener, arg, reason)
	}
	listener.Skipped(class.ID, reason)
}

// invokeClassMethods runs the methods in order, stopping at the first error.
func invokeClassMethods(methods []api.ClassMethod, ctx api.ClassContext) error {
	for _, method := range methods {
		if err := method.Invoke(ctx); err != nil {
			return err
		}
	}
	return nil
}
