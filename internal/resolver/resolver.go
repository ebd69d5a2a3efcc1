package resolver

import (
	"fmt"
	"math/rand"
	"sort"

	"verifyica/internal/descriptor"
	"verifyica/pkg/api"
	"verifyica/pkg/logging"
)

// Request carries the inputs of one resolution.
type Request struct {
	// Introspector resolves registered class names into models.
	Introspector api.TestClassIntrospector
	// Selectors narrow the selection; empty selects everything.
	Selectors []Selector
	// Filters are the class-definition filters; nil means none.
	Filters *Filters
	// Shuffle randomizes class submission order after the stable sort.
	Shuffle bool
}

// Resolve builds the descriptor tree for the request. Supplier errors and
// class definition violations abort the resolution: a nil tree and a
// discovery-level error are returned and the engine emits no test events.
func Resolve(req Request) (*descriptor.EngineDescriptor, error) {
	if req.Introspector == nil {
		return nil, &api.DiscoveryError{Err: fmt.Errorf("no test class introspector")}
	}
	filters := req.Filters
	if filters == nil {
		filters = &Filters{}
	}

	selections, err := foldSelectors(req.Introspector.ClassNames(), req.Selectors)
	if err != nil {
		return nil, err
	}

	engine := descriptor.NewEngineDescriptor()
	for _, sel := range selections {
		model, err := req.Introspector.Introspect(sel.className)
		if err != nil {
			return nil, &api.DiscoveryError{Err: err}
		}
		if model.Disabled {
			logging.Debug("Resolver", "class %s is disabled, skipping", model.Name)
			continue
		}
		if err := validateModel(model); err != nil {
			return nil, &api.DiscoveryError{Err: err}
		}
		if !filters.KeepsClass(model.Name, model.Tags) {
			logging.Debug("Resolver", "class %s removed by filters", model.Name)
			continue
		}

		class, err := resolveClass(engine, model, sel)
		if err != nil {
			return nil, err
		}
		// Prune classes with no argument children.
		if class != nil && len(class.Arguments) > 0 {
			engine.Classes = append(engine.Classes, class)
		}
	}

	sortClasses(engine.Classes)
	if req.Shuffle {
		rand.Shuffle(len(engine.Classes), func(i, j int) {
			engine.Classes[i], engine.Classes[j] = engine.Classes[j], engine.Classes[i]
		})
	}

	logging.Debug("Resolver", "resolved %d classes, %d tests", len(engine.Classes), engine.TestCount())
	return engine, nil
}

// resolveClass expands one class model into a class descriptor with its
// argument and test method children.
func resolveClass(engine *descriptor.EngineDescriptor, model *api.ClassModel, sel *selection) (*descriptor.ClassDescriptor, error) {
	class := descriptor.NewClassDescriptor(engine, model)
	class.PrepareMethods = classMethodsByRole(model, api.RolePrepare)
	class.ConcludeMethods = classMethodsByRole(model, api.RoleConclude)

	arguments, err := expandSupplier(model)
	if err != nil {
		return nil, err
	}
	if arguments == nil {
		logging.Debug("Resolver", "class %s supplier returned nil, pruning", model.Name)
		return nil, nil
	}

	tests := selectTests(model, sel)
	beforeAll := argumentMethodsByRole(model, api.RoleBeforeAll)
	afterAll := argumentMethodsByRole(model, api.RoleAfterAll)
	beforeEach := argumentMethodsByRole(model, api.RoleBeforeEach)
	afterEach := argumentMethodsByRole(model, api.RoleAfterEach)

	for index, argument := range arguments {
		if !sel.allArguments && !sel.arguments[index] {
			continue
		}
		node := descriptor.NewArgumentDescriptor(class, index, argument)
		node.BeforeAllMethods = beforeAll
		node.AfterAllMethods = afterAll
		for _, test := range tests {
			testNode := descriptor.NewTestMethodDescriptor(node, test)
			testNode.BeforeEachMethods = beforeEach
			testNode.AfterEachMethods = afterEach
			node.Tests = append(node.Tests, testNode)
		}
		// Prune arguments with no test method children.
		if len(node.Tests) > 0 {
			class.Arguments = append(class.Arguments, node)
		}
	}
	return class, nil
}

// expandSupplier invokes the class's argument supplier and normalizes the
// result. A panic inside the supplier is converted into a SupplierError.
func expandSupplier(model *api.ClassModel) (arguments []api.Argument, err error) {
	if model.ArgumentSupplier == nil {
		return nil, &api.DiscoveryError{Err: &api.TestClassDefinitionError{
			ClassName: model.Name,
			Reason:    "no argument supplier",
		}}
	}
	defer func() {
		if r := recover(); r != nil {
			arguments = nil
			err = &api.SupplierError{ClassName: model.Name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	value, supplierErr := model.ArgumentSupplier()
	if supplierErr != nil {
		return nil, &api.SupplierError{ClassName: model.Name, Err: supplierErr}
	}
	return NormalizeArguments(value), nil
}

// selectTests returns the class's enabled, selected test methods in stable
// (Order, DisplayName) order.
func selectTests(model *api.ClassModel, sel *selection) []api.TestMethod {
	var tests []api.TestMethod
	for _, test := range model.TestMethods {
		if test.Disabled {
			continue
		}
		if !sel.allMethods && !sel.methods[test.Name] {
			continue
		}
		tests = append(tests, test)
	}
	sort.SliceStable(tests, func(i, j int) bool {
		if tests[i].Order != tests[j].Order {
			return tests[i].Order < tests[j].Order
		}
		return testDisplayName(tests[i]) < testDisplayName(tests[j])
	})
	return tests
}

func testDisplayName(t api.TestMethod) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}

func classMethodsByRole(model *api.ClassModel, role api.LifecycleRole) []api.ClassMethod {
	var out []api.ClassMethod
	for _, m := range model.ClassMethods {
		if m.Role == role {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func argumentMethodsByRole(model *api.ClassModel, role api.LifecycleRole) []api.ArgumentMethod {
	var out []api.ArgumentMethod
	for _, m := range model.ArgumentMethods {
		if m.Role == role {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func sortClasses(classes []*descriptor.ClassDescriptor) {
	sort.SliceStable(classes, func(i, j int) bool {
		if classes[i].Model.Order != classes[j].Model.Order {
			return classes[i].Model.Order < classes[j].Model.Order
		}
		return classes[i].Display < classes[j].Display
	})
}

// validateModel enforces registration consistency: known roles on each
// method list, at most one method per lifecycle role per declaring class,
// unique test method names, and non-nil invokers.
func validateModel(model *api.ClassModel) error {
	type roleKey struct {
		declaringClass string
		role           api.LifecycleRole
	}
	seen := make(map[roleKey]bool)
	declarer := func(declaringClass string) string {
		if declaringClass == "" {
			return model.Name
		}
		return declaringClass
	}

	for _, m := range model.ClassMethods {
		if m.Role != api.RolePrepare && m.Role != api.RoleConclude {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("class method %q has argument-scoped role %q", m.Name, m.Role)}
		}
		if m.Invoke == nil {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("class method %q has no invoker", m.Name)}
		}
		key := roleKey{declarer(m.DeclaringClass), m.Role}
		if seen[key] {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("more than one %s method declared by %s", m.Role, key.declaringClass)}
		}
		seen[key] = true
	}

	for _, m := range model.ArgumentMethods {
		switch m.Role {
		case api.RoleBeforeAll, api.RoleBeforeEach, api.RoleAfterEach, api.RoleAfterAll:
		default:
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("argument method %q has role %q", m.Name, m.Role)}
		}
		if m.Invoke == nil {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("argument method %q has no invoker", m.Name)}
		}
		key := roleKey{declarer(m.DeclaringClass), m.Role}
		if seen[key] {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("more than one %s method declared by %s", m.Role, key.declaringClass)}
		}
		seen[key] = true
	}

	names := make(map[string]bool)
	for _, test := range model.TestMethods {
		if test.Name == "" {
			return &api.TestClassDefinitionError{ClassName: model.Name, Reason: "test method with empty name"}
		}
		if test.Invoke == nil {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("test method %q has no invoker", test.Name)}
		}
		if names[test.Name] {
			return &api.TestClassDefinitionError{ClassName: model.Name,
				Reason: fmt.Sprintf("duplicate test method name %q", test.Name)}
		}
		names[test.Name] = true
	}
	return nil
}
