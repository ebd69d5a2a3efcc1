package api

// LifecycleRole identifies the role of a registered lifecycle method.
type LifecycleRole string

const (
	// RolePrepare runs once per class before any argument subtree starts.
	RolePrepare LifecycleRole = "prepare"
	// RoleConclude runs once per class after every argument subtree ended.
	RoleConclude LifecycleRole = "conclude"
	// RoleBeforeAll runs once per argument before its test methods.
	RoleBeforeAll LifecycleRole = "beforeAll"
	// RoleBeforeEach runs before every test method of an argument.
	RoleBeforeEach LifecycleRole = "beforeEach"
	// RoleAfterEach runs after every test method of an argument.
	RoleAfterEach LifecycleRole = "afterEach"
	// RoleAfterAll runs once per argument after its test methods.
	RoleAfterAll LifecycleRole = "afterAll"
)

// ClassMethod is a class-scoped lifecycle method (prepare or conclude).
type ClassMethod struct {
	// Role must be RolePrepare or RoleConclude.
	Role LifecycleRole
	// Name identifies the method in error messages.
	Name string
	// Order sorts methods of the same role; lower runs first.
	Order int
	// DeclaringClass attributes the method to the class that declared it.
	// At most one method per role may be declared per declaring class.
	// Empty means the registered class itself.
	DeclaringClass string
	// Invoke runs the method.
	Invoke func(ctx ClassContext) error
}

// ArgumentMethod is an argument-scoped lifecycle method (beforeAll,
// beforeEach, afterEach or afterAll).
type ArgumentMethod struct {
	// Role must be one of the argument-scoped roles.
	Role LifecycleRole
	// Name identifies the method in error messages.
	Name string
	// Order sorts methods of the same role; lower runs first.
	Order int
	// DeclaringClass attributes the method to the class that declared it.
	// At most one method per role may be declared per declaring class.
	DeclaringClass string
	// Invoke runs the method.
	Invoke func(ctx ArgumentContext) error
}

// TestMethod is a single test body run once per argument.
type TestMethod struct {
	// Name identifies the test in unique IDs.
	Name string
	// DisplayName is the human-readable name; defaults to Name.
	DisplayName string
	// Order sorts tests within the class; lower runs first.
	Order int
	// Tags are free-form labels. Tag filters evaluate the class's Tags
	// only; test method tags are not filtered on.
	Tags []string
	// Disabled excludes the test from execution.
	Disabled bool
	// Invoke runs the test body. The context is a read-only view:
	// store and map mutators panic, which surfaces as a test failure.
	Invoke func(ctx ArgumentContext) error
}

// ClassModel is the registered description of a test class: its argument
// supplier, lifecycle methods, test methods and metadata. It is the explicit
// registration counterpart of annotation discovery.
type ClassModel struct {
	// Name is the fully-qualified class name used in unique IDs and
	// class-name filters.
	Name string
	// DisplayName is the human-readable name; defaults to Name.
	DisplayName string
	// Order sorts classes; lower runs first.
	Order int
	// Tags are free-form labels usable in tag filters.
	Tags []string
	// Disabled excludes the whole class from execution.
	Disabled bool
	// ScenarioTest opts the class into scenario mode: on the first test
	// failure within an argument, the remaining tests are aborted.
	ScenarioTest bool
	// ArgumentParallelism caps how many argument subtrees of this class run
	// concurrently. Values below 1 are treated as 1; the engine-wide
	// argument parallelism ceiling also applies.
	ArgumentParallelism int
	// ArgumentSupplier produces the class's arguments. Accepted return
	// shapes: a single value, a single Argument, a slice or array of any
	// element type, a receive-capable channel, or a pull iterator
	// func() (any, bool). A nil return prunes the class.
	ArgumentSupplier func() (any, error)
	// NewInstance constructs the test instance, once per class. The same
	// instance is shared by all argument workers. Nil means no instance.
	NewInstance func() (any, error)
	// ClassMethods holds prepare and conclude methods.
	ClassMethods []ClassMethod
	// ArgumentMethods holds beforeAll/beforeEach/afterEach/afterAll methods.
	ArgumentMethods []ArgumentMethod
	// TestMethods holds the test bodies.
	TestMethods []TestMethod
	// InterceptorSupplier returns class-specific interceptors, appended
	// after the engine's built-in interceptors. May be nil.
	InterceptorSupplier func() []ClassInterceptor
}

// TestClassIntrospector resolves registered test classes into ClassModels.
// It is the engine's discovery collaborator; the Registry in this package is
// the default implementation.
type TestClassIntrospector interface {
	// ClassNames returns all registered class names in registration order.
	ClassNames() []string
	// Introspect returns the model for the named class.
	Introspect(className string) (*ClassModel, error)
}
