package engine

import (
	"verifyica/internal/descriptor"
	"verifyica/pkg/api"
)

// Per-test-method machine states.
const (
	testStateStart      = "START"
	testStateBeforeEach = "BEFORE_EACH"
	testStateTest       = "TEST"
	testStateAfterEach  = "AFTER_EACH"
	testStateEnd        = "END"
)

// testMethodMachine sequences beforeEach → test → afterEach for one test
// method of one argument. afterEach always runs, regardless of earlier
// failure; a skip request from any user method marks the test aborted
// instead of failed.
type testMethodMachine struct {
	chain   interceptorChain
	node    *descriptor.TestMethodDescriptor
	ctx     *argumentContext
	records records
}

// run executes the machine and returns the test's terminal result. The
// caller announces the Started and Finished events.
func (m *testMethodMachine) run() api.TestExecutionResult {
	m.records.add(testStateStart, nil)

	// beforeEach via the interceptor chain.
	beforeEachErr, postErrs := m.chain.around(
		func(i api.ClassInterceptor) error { return i.PreBeforeEach(m.ctx) },
		func() error { return invokeArgumentMethods(m.node.BeforeEachMethods, m.ctx) },
		func(i api.ClassInterceptor, err error) error { return i.PostBeforeEach(m.ctx, err) },
	)
	m.records.add(stateOf(testStateBeforeEach, beforeEachErr), beforeEachErr)
	m.records.addAll(stateOf(testStateBeforeEach, beforeEachErr), postErrs)

	// The test body runs only after a successful beforeEach. It receives
	// the read-only context view.
	if beforeEachErr == nil {
		readOnly := m.ctx.readOnly()
		testErr, postErrs := m.chain.around(
			func(i api.ClassInterceptor) error { return i.PreTest(m.ctx) },
			func() error { return m.node.Method.Invoke(readOnly) },
			func(i api.ClassInterceptor, err error) error { return i.PostTest(m.ctx, err) },
		)
		m.records.add(stateOf(testStateTest, testErr), testErr)
		m.records.addAll(stateOf(testStateTest, testErr), postErrs)
	}

	// afterEach always runs. The pipeline has no pre side here.
	afterEachErr, postErrs := m.chain.around(
		nil,
		func() error { return invokeArgumentMethods(m.node.AfterEachMethods, m.ctx) },
		func(i api.ClassInterceptor, err error) error { return i.PostAfterEach(m.ctx, err) },
	)
	m.records.add(stateOf(testStateAfterEach, afterEachErr), afterEachErr)
	m.records.addAll(stateOf(testStateAfterEach, afterEachErr), postErrs)

	m.records.add(testStateEnd, nil)
	return m.records.result()
}

// invokeArgumentMethods runs the methods in order, stopping at the first
// error.
func invokeArgumentMethods(methods []api.ArgumentMethod, ctx api.ArgumentContext) error {
	for _, method := range methods {
		if err := method.Invoke(ctx); err != nil {
			return err
		}
	}
	return nil
}
