package api

// ClassInterceptor wraps every user-visible invocation with pre and post
// hooks. Pre hooks run in registration order, the body runs if every pre
// hook succeeded, and post hooks run in reverse registration order. Post
// hooks receive the error of the failed pre hook or of the body, or nil.
//
// An error from a pre hook aborts the body; post hooks still run. An error
// from a post hook is recorded on the node's result but does not prevent the
// remaining post hooks from running.
//
// Built-in engine interceptors run before class-specific interceptors from a
// class's InterceptorSupplier, ordered by Order.
type ClassInterceptor interface {
	// Order sorts built-in interceptors; lower runs first.
	Order() int

	// PreInstantiate runs before the test instance is constructed.
	PreInstantiate(ctx EngineContext) error
	// PostInstantiate runs after construction with the instance (nil on
	// failure) and the construction error.
	PostInstantiate(ctx EngineContext, instance any, err error) error

	// PrePrepare and PostPrepare wrap the class prepare methods.
	PrePrepare(ctx ClassContext) error
	PostPrepare(ctx ClassContext, err error) error

	// PreBeforeAll and PostBeforeAll wrap the argument beforeAll methods.
	PreBeforeAll(ctx ArgumentContext) error
	PostBeforeAll(ctx ArgumentContext, err error) error

	// PreBeforeEach and PostBeforeEach wrap the beforeEach methods.
	PreBeforeEach(ctx ArgumentContext) error
	PostBeforeEach(ctx ArgumentContext, err error) error

	// PreTest and PostTest wrap the test body.
	PreTest(ctx ArgumentContext) error
	PostTest(ctx ArgumentContext, err error) error

	// PostAfterEach runs after the afterEach methods.
	PostAfterEach(ctx ArgumentContext, err error) error
	// PostAfterAll runs after the afterAll methods.
	PostAfterAll(ctx ArgumentContext, err error) error

	// PreConclude and PostConclude wrap the class conclude methods.
	PreConclude(ctx ClassContext) error
	PostConclude(ctx ClassContext, err error) error

	// OnDestroy runs once, in reverse registration order: for built-in
	// interceptors when the engine shuts down, for class-specific
	// interceptors when their class ends.
	OnDestroy(ctx EngineContext) error
}

// NoopClassInterceptor implements ClassInterceptor with no-op hooks.
// Embed it to implement only the hooks of interest.
type NoopClassInterceptor struct{}

// Order implements ClassInterceptor.
func (NoopClassInterceptor) Order() int { return 0 }

// PreInstantiate implements ClassInterceptor.
func (NoopClassInterceptor) PreInstantiate(EngineContext) error { return nil }

// PostInstantiate implements ClassInterceptor.
func (NoopClassInterceptor) PostInstantiate(EngineContext, any, error) error { return nil }

// PrePrepare implements ClassInterceptor.
func (NoopClassInterceptor) PrePrepare(ClassContext) error { return nil }

// PostPrepare implements ClassInterceptor.
func (NoopClassInterceptor) PostPrepare(ClassContext, error) error { return nil }

// PreBeforeAll implements ClassInterceptor.
func (NoopClassInterceptor) PreBeforeAll(ArgumentContext) error { return nil }

// PostBeforeAll implements ClassInterceptor.
func (NoopClassInterceptor) PostBeforeAll(ArgumentContext, error) error { return nil }

// PreBeforeEach implements ClassInterceptor.
func (NoopClassInterceptor) PreBeforeEach(ArgumentContext) error { return nil }

// PostBeforeEach implements ClassInterceptor.
func (NoopClassInterceptor) PostBeforeEach(ArgumentContext, error) error { return nil }

// PreTest implements ClassInterceptor.
func (NoopClassInterceptor) PreTest(ArgumentContext) error { return nil }

// PostTest implements ClassInterceptor.
func (NoopClassInterceptor) PostTest(ArgumentContext, error) error { return nil }

// PostAfterEach implements ClassInterceptor.
func (NoopClassInterceptor) PostAfterEach(ArgumentContext, error) error { return nil }

// PostAfterAll implements ClassInterceptor.
func (NoopClassInterceptor) PostAfterAll(ArgumentContext, error) error { return nil }

// PreConclude implements ClassInterceptor.
func (NoopClassInterceptor) PreConclude(ClassContext) error { return nil }

// PostConclude implements ClassInterceptor.
func (NoopClassInterceptor) PostConclude(ClassContext, error) error { return nil }

// OnDestroy implements ClassInterceptor.
func (NoopClassInterceptor) OnDestroy(EngineContext) error { return nil }
