package engine

import (
	"context"

	"verifyica/internal/descriptor"
	"verifyica/pkg/api"
	"verifyica/pkg/logging"
)

// Per-argument machine states.
const (
	argStateStart          = "START"
	argStateBeforeAll      = "BEFORE_ALL"
	argStateExecute        = "EXECUTE"
	argStateSkip           = "SKIP"
	argStateAfterAll       = "AFTER_ALL"
	argStateAutoCloseArg   = "AUTO_CLOSE_ARG"
	argStateAutoCloseStore = "AUTO_CLOSE_STORE"
	argStateEnd            = "END"
)

// skipReasonBeforeAllFailed announces tests skipped after a beforeAll
// failure.
const skipReasonBeforeAllFailed = "before-all failed"

// skipReasonCancelled announces nodes skipped after a shutdown signal.
const skipReasonCancelled = "execution cancelled"

// argumentMachine runs the per-argument lifecycle: beforeAll, the test
// methods (sequentially, in stable order), afterAll, then the auto-close
// teardown of the argument payload and the argument store. Teardown states
// always run; the first error observed wins the argument's result.
type argumentMachine struct {
	chain        interceptorChain
	node         *descriptor.ArgumentDescriptor
	ctx          *argumentContext
	listener     api.ExecutionListener
	scenarioTest bool
	records      records
}

// run executes the machine. The caller announces the argument's Started and
// Finished events; the machine announces its test method children.
func (m *argumentMachine) run(ctx context.Context) api.TestExecutionResult {
	m.records.add(argStateStart, nil)

	// beforeAll via the interceptor chain.
	beforeAllErr, postErrs := m.chain.around(
		func(i api.ClassInterceptor) error { return i.PreBeforeAll(m.ctx) },
		func() error { return invokeArgumentMethods(m.node.BeforeAllMethods, m.ctx) },
		func(i api.ClassInterceptor, err error) error { return i.PostBeforeAll(m.ctx, err) },
	)
	m.records.add(stateOf(argStateBeforeAll, beforeAllErr), beforeAllErr)
	m.records.addAll(stateOf(argStateBeforeAll, beforeAllErr), postErrs)

	if beforeAllErr == nil {
		executeErr := m.executeTests(ctx)
		m.records.add(stateOf(argStateExecute, executeErr), executeErr)
	} else {
		// beforeAll failed: every child test is announced and skipped.
		skipErr := safeCall(func() error {
			for _, test := range m.node.Tests {
				m.listener.Started(test.ID)
				m.listener.Skipped(test.ID, skipReasonBeforeAllFailed)
			}
			return nil
		})
		m.records.add(stateOf(argStateSkip, skipErr), skipErr)
	}

	// afterAll always runs.
	afterAllErr, postErrs := m.chain.around(
		nil,
		func() error { return invokeArgumentMethods(m.node.AfterAllMethods, m.ctx) },
		func(i api.ClassInterceptor, err error) error { return i.PostAfterAll(m.ctx, err) },
	)
	m.records.add(stateOf(argStateAfterAll, afterAllErr), afterAllErr)
	m.records.addAll(stateOf(argStateAfterAll, afterAllErr), postErrs)

	// Close the argument payload if it is closeable.
	closeArgErr := api.CloseValue(m.node.Argument.Payload)
	m.records.add(stateOf(argStateAutoCloseArg, closeArgErr), closeArgErr)

	// Close the argument store in reverse insertion order.
	closeStoreErr := m.ctx.store.Close()
	m.records.add(stateOf(argStateAutoCloseStore, closeStoreErr), closeStoreErr)

	m.records.add(argStateEnd, nil)
	return m.records.result()
}

// executeTests runs the argument's test methods sequentially in stable
// order, announcing each child's events. It returns the first test failure,
// or nil when every test passed or was aborted.
//
// In scenario mode, the first failure short-circuits the remaining tests:
// they are announced as aborted without executing. A cooperative shutdown
// skips the remaining tests and proceeds to teardown.
func (m *argumentMachine) executeTests(ctx context.Context) error {
	var firstFailure error
	for _, test := range m.node.Tests {
		if ctx.Err() != nil {
			logging.Debug("Runner", "shutdown observed, skipping %s", test.ID)
			m.listener.Started(test.ID)
			m.listener.Skipped(test.ID, skipReasonCancelled)
			continue
		}
		if m.scenarioTest && firstFailure != nil {
			m.listener.Started(test.ID)
			m.listener.Finished(test.ID, api.Aborted(nil))
			continue
		}

		m.listener.Started(test.ID)
		machine := &testMethodMachine{
			chain: m.chain,
			node:  test,
			ctx:   m.ctx,
		}
		result := machine.run()
		m.listener.Finished(test.ID, result)

		if result.Status == api.StatusFailed && firstFailure == nil {
			firstFailure = result.Err
		}
	}
	return firstFailure
}
