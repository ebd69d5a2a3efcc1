package resolver

import (
	"reflect"

	"verifyica/pkg/api"
)

// NormalizeArguments normalizes an argument supplier's return value into a
// list of Arguments. Accepted shapes:
//
//   - nil: the class is pruned (nil list returned)
//   - a single api.Argument
//   - []api.Argument
//   - a slice or array of any element type
//   - a receive-capable channel, drained until close
//   - a pull iterator func() (any, bool), called until the bool is false
//   - anything else: a single raw value
//
// A raw non-Argument element at index i becomes Argument named
// "argument[i]".
func NormalizeArguments(value any) []api.Argument {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case api.Argument:
		return []api.Argument{v}
	case []api.Argument:
		return v
	case func() (any, bool):
		var out []api.Argument
		for i := 0; ; i++ {
			element, ok := v()
			if !ok {
				return out
			}
			out = append(out, normalizeElement(i, element))
		}
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]api.Argument, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out = append(out, normalizeElement(i, rv.Index(i).Interface()))
		}
		return out
	case reflect.Chan:
		if rv.Type().ChanDir() == reflect.SendDir {
			break
		}
		var out []api.Argument
		for i := 0; ; i++ {
			element, ok := rv.Recv()
			if !ok {
				return out
			}
			out = append(out, normalizeElement(i, element.Interface()))
		}
	}

	return []api.Argument{normalizeElement(0, value)}
}

func normalizeElement(index int, element any) api.Argument {
	if arg, ok := element.(api.Argument); ok {
		return arg
	}
	return api.NamedArgument(index, element)
}
