package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"verifyica/pkg/api"
)

// Selector addresses a subset of the registered test classes, methods or
// arguments. Selectors addressing a deeper level imply inclusion of their
// ancestors.
type Selector interface {
	isSelector()
}

// AllClassesSelector selects every registered test class.
type AllClassesSelector struct{}

func (AllClassesSelector) isSelector() {}

// PackageSelector selects classes whose name is inside the package: equal to
// it or prefixed by it followed by a separator.
type PackageSelector struct {
	Package string
}

func (PackageSelector) isSelector() {}

func (s PackageSelector) matches(className string) bool {
	if className == s.Package {
		return true
	}
	return strings.HasPrefix(className, s.Package+".") || strings.HasPrefix(className, s.Package+"/")
}

// ClassSelector selects one class with all of its test methods.
type ClassSelector struct {
	ClassName string
}

func (ClassSelector) isSelector() {}

// MethodSelector selects a single test method of a class.
type MethodSelector struct {
	ClassName  string
	MethodName string
}

func (MethodSelector) isSelector() {}

// UniqueIDSelector selects the subtree addressed by a hierarchical unique
// identifier: a class, one of its arguments, or a single method of one
// argument.
type UniqueIDSelector struct {
	ID api.UniqueID
}

func (UniqueIDSelector) isSelector() {}

// selection is the folded form of all selectors for one class.
type selection struct {
	className string
	// allMethods selects every test method when true; otherwise methods
	// holds the explicit method names.
	allMethods bool
	methods    map[string]bool
	// allArguments selects every argument when true; otherwise arguments
	// holds the explicit argument indices.
	allArguments bool
	arguments    map[int]bool
}

func newSelection(className string) *selection {
	return &selection{
		className: className,
		methods:   make(map[string]bool),
		arguments: make(map[int]bool),
	}
}

// foldSelectors folds the selectors into per-class selections over the
// registered class names. The returned slice preserves registration order.
func foldSelectors(classNames []string, selectors []Selector) ([]*selection, error) {
	if len(selectors) == 0 {
		selectors = []Selector{AllClassesSelector{}}
	}

	byName := make(map[string]*selection)
	ordered := make([]*selection, 0, len(classNames))
	get := func(className string) *selection {
		if sel, ok := byName[className]; ok {
			return sel
		}
		sel := newSelection(className)
		byName[className] = sel
		ordered = append(ordered, sel)
		return sel
	}
	registered := make(map[string]bool, len(classNames))
	for _, name := range classNames {
		registered[name] = true
	}

	for _, selector := range selectors {
		switch s := selector.(type) {
		case AllClassesSelector:
			for _, name := range classNames {
				sel := get(name)
				sel.allMethods = true
				sel.allArguments = true
			}
		case PackageSelector:
			for _, name := range classNames {
				if s.matches(name) {
					sel := get(name)
					sel.allMethods = true
					sel.allArguments = true
				}
			}
		case ClassSelector:
			if !registered[s.ClassName] {
				return nil, &api.DiscoveryError{Err: fmt.Errorf("selector addresses unregistered class %q", s.ClassName)}
			}
			sel := get(s.ClassName)
			sel.allMethods = true
			sel.allArguments = true
		case MethodSelector:
			if !registered[s.ClassName] {
				return nil, &api.DiscoveryError{Err: fmt.Errorf("selector addresses unregistered class %q", s.ClassName)}
			}
			sel := get(s.ClassName)
			sel.allArguments = true
			if !sel.allMethods {
				sel.methods[s.MethodName] = true
			}
		case UniqueIDSelector:
			if err := foldUniqueID(s.ID, registered, get); err != nil {
				return nil, err
			}
		default:
			return nil, &api.DiscoveryError{Err: fmt.Errorf("unsupported selector %T", selector)}
		}
	}

	// Preserve registration order regardless of selector order.
	out := make([]*selection, 0, len(ordered))
	for _, name := range classNames {
		if sel, ok := byName[name]; ok {
			out = append(out, sel)
		}
	}
	return out, nil
}

// foldUniqueID applies one unique-id selector. The id must start with the
// engine segment; deeper segments narrow the selection.
func foldUniqueID(id api.UniqueID, registered map[string]bool, get func(string) *selection) error {
	if len(id) == 0 || id[0].Type != api.SegmentEngine || id[0].Value != api.EngineID {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q does not address this engine", id.String())}
	}
	if len(id) == 1 {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q does not address a class", id.String())}
	}
	if id[1].Type != api.SegmentClass {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q: expected class segment", id.String())}
	}
	className := id[1].Value
	if !registered[className] {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id addresses unregistered class %q", className)}
	}
	sel := get(className)

	if len(id) == 2 {
		sel.allMethods = true
		sel.allArguments = true
		return nil
	}
	if id[2].Type != api.SegmentArgument {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q: expected argument segment", id.String())}
	}
	index, err := strconv.Atoi(id[2].Value)
	if err != nil || index < 0 {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q: invalid argument index", id.String())}
	}
	if !sel.allArguments {
		sel.arguments[index] = true
	}

	if len(id) == 3 {
		sel.allMethods = true
		return nil
	}
	if id[3].Type != api.SegmentMethod || len(id) > 4 {
		return &api.DiscoveryError{Err: fmt.Errorf("unique id %q: expected terminal method segment", id.String())}
	}
	if !sel.allMethods {
		sel.methods[id[3].Value] = true
	}
	return nil
}
