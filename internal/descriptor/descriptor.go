package descriptor

import (
	"strconv"

	"verifyica/pkg/api"
)

// TestDescriptor is a node in the execution tree.
type TestDescriptor interface {
	// UniqueID returns the node's hierarchical identifier.
	UniqueID() api.UniqueID
	// DisplayName returns the node's human-readable name.
	DisplayName() string
}

// EngineDescriptor is the root of the execution tree.
type EngineDescriptor struct {
	ID      api.UniqueID
	Classes []*ClassDescriptor
}

// NewEngineDescriptor creates the root descriptor.
func NewEngineDescriptor() *EngineDescriptor {
	return &EngineDescriptor{ID: api.RootUniqueID()}
}

// UniqueID implements TestDescriptor.
func (d *EngineDescriptor) UniqueID() api.UniqueID { return d.ID }

// DisplayName implements TestDescriptor.
func (d *EngineDescriptor) DisplayName() string { return api.EngineID }

// TestCount returns the number of test method nodes in the tree.
func (d *EngineDescriptor) TestCount() int {
	n := 0
	for _, c := range d.Classes {
		for _, a := range c.Arguments {
			n += len(a.Tests)
		}
	}
	return n
}

// ClassDescriptor is a test class node.
type ClassDescriptor struct {
	ID    api.UniqueID
	Model *api.ClassModel
	// Name is the registered class name (used for filters and unique IDs).
	Name string
	// Display is the class display name.
	Display string
	// ArgumentParallelism is the class-declared argument parallelism,
	// clamped to at least 1. The engine-wide ceiling applies at run time.
	ArgumentParallelism int
	// PrepareMethods and ConcludeMethods are in execution order.
	PrepareMethods  []api.ClassMethod
	ConcludeMethods []api.ClassMethod
	Arguments       []*ArgumentDescriptor
}

// NewClassDescriptor creates a class node under parent.
func NewClassDescriptor(parent *EngineDescriptor, model *api.ClassModel) *ClassDescriptor {
	display := model.DisplayName
	if display == "" {
		display = model.Name
	}
	parallelism := model.ArgumentParallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &ClassDescriptor{
		ID:                  parent.ID.Append(api.SegmentClass, model.Name),
		Model:               model,
		Name:                model.Name,
		Display:             display,
		ArgumentParallelism: parallelism,
	}
}

// UniqueID implements TestDescriptor.
func (d *ClassDescriptor) UniqueID() api.UniqueID { return d.ID }

// DisplayName implements TestDescriptor.
func (d *ClassDescriptor) DisplayName() string { return d.Display }

// ArgumentDescriptor is an argument node: one expansion of the class's
// argument supplier. Each argument is consumed by exactly one such node.
type ArgumentDescriptor struct {
	ID api.UniqueID
	// Index is the argument's position in the supplier's output.
	Index    int
	Argument api.Argument
	// BeforeAllMethods and AfterAllMethods are in execution order.
	BeforeAllMethods []api.ArgumentMethod
	AfterAllMethods  []api.ArgumentMethod
	Tests            []*TestMethodDescriptor
}

// NewArgumentDescriptor creates an argument node under parent.
func NewArgumentDescriptor(parent *ClassDescriptor, index int, argument api.Argument) *ArgumentDescriptor {
	return &ArgumentDescriptor{
		ID:       parent.ID.Append(api.SegmentArgument, strconv.Itoa(index)),
		Index:    index,
		Argument: argument,
	}
}

// UniqueID implements TestDescriptor.
func (d *ArgumentDescriptor) UniqueID() api.UniqueID { return d.ID }

// DisplayName implements TestDescriptor.
func (d *ArgumentDescriptor) DisplayName() string { return d.Argument.Name }

// TestMethodDescriptor is a leaf test node.
type TestMethodDescriptor struct {
	ID api.UniqueID
	// BeforeEachMethods and AfterEachMethods are in execution order.
	BeforeEachMethods []api.ArgumentMethod
	Method            api.TestMethod
	AfterEachMethods  []api.ArgumentMethod
}

// NewTestMethodDescriptor creates a test method node under parent.
func NewTestMethodDescriptor(parent *ArgumentDescriptor, method api.TestMethod) *TestMethodDescriptor {
	return &TestMethodDescriptor{
		ID:     parent.ID.Append(api.SegmentMethod, method.Name),
		Method: method,
	}
}

// UniqueID implements TestDescriptor.
func (d *TestMethodDescriptor) UniqueID() api.UniqueID { return d.ID }

// DisplayName implements TestDescriptor.
func (d *TestMethodDescriptor) DisplayName() string {
	if d.Method.DisplayName != "" {
		return d.Method.DisplayName
	}
	return d.Method.Name
}
