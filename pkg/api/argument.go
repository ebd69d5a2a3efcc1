package api

import "fmt"

// Argument is a named payload supplied by a test class; the unit of
// parameterization. Each argument is consumed by exactly one argument-level
// subtree during execution.
type Argument struct {
	// Name is the display name of the argument.
	Name string
	// Payload is the argument value. It may be any value, including a
	// resource implementing a close capability, in which case the engine
	// closes it when the argument subtree terminates.
	Payload any
}

// NewArgument creates a named argument.
func NewArgument(name string, payload any) Argument {
	return Argument{Name: name, Payload: payload}
}

// NamedArgument wraps a raw supplier element at the given index with the
// default name used when the supplier returns non-Argument values.
func NamedArgument(index int, payload any) Argument {
	return Argument{Name: fmt.Sprintf("argument[%d]", index), Payload: payload}
}

// PayloadAs returns the argument payload converted to T.
// It returns an error if the payload is not assignable to T.
func PayloadAs[T any](a Argument) (T, error) {
	v, ok := a.Payload.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("argument %q payload is %T, not %T", a.Name, a.Payload, zero)
	}
	return v, nil
}

// String implements fmt.Stringer.
func (a Argument) String() string {
	return a.Name
}
