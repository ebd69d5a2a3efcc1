package api

import "fmt"

// DiscoveryError is fatal: bad selectors, unknown classes, annotation
// consistency violations or filter parse errors abort discovery and the
// engine emits no test events.
type DiscoveryError struct {
	Err error
}

// Error implements error.
func (e *DiscoveryError) Error() string { return "discovery failed: " + e.Err.Error() }

// Unwrap supports errors.Is/As.
func (e *DiscoveryError) Unwrap() error { return e.Err }

// TestClassDefinitionError reports an invalid test class registration, such
// as more than one method per lifecycle role per declaring class.
type TestClassDefinitionError struct {
	ClassName string
	Reason    string
}

// Error implements error.
func (e *TestClassDefinitionError) Error() string {
	return fmt.Sprintf("test class %q: %s", e.ClassName, e.Reason)
}

// SupplierError reports a failing argument supplier. It aborts discovery:
// the engine emits no test events and the run reports a discovery failure
// naming the class.
type SupplierError struct {
	ClassName string
	Err       error
}

// Error implements error.
func (e *SupplierError) Error() string {
	return fmt.Sprintf("argument supplier of %q failed: %v", e.ClassName, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *SupplierError) Unwrap() error { return e.Err }

// InstantiationError reports a failing test instance constructor. The class
// fails and its argument subtrees are skip-announced.
type InstantiationError struct {
	ClassName string
	Err       error
}

// Error implements error.
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("instantiating %q failed: %v", e.ClassName, e.Err)
}

// Unwrap supports errors.Is/As.
func (e *InstantiationError) Unwrap() error { return e.Err }
