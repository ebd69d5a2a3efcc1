package engine

import (
	"fmt"
	"sort"

	"verifyica/pkg/api"
	"verifyica/pkg/logging"
)

// interceptorChain is the ordered list of interceptors wrapping a class's
// user invocations: the engine's built-in interceptors first (by Order),
// then the class-specific interceptors from its supplier, in declared order.
type interceptorChain []api.ClassInterceptor

// buildChain resolves the chain for a class model. The supplier is a user
// call: a panic inside it is converted into an error.
func buildChain(builtins []api.ClassInterceptor, model *api.ClassModel) (interceptorChain, error) {
	chain := make(interceptorChain, len(builtins))
	copy(chain, builtins)
	sort.SliceStable(chain, func(i, j int) bool { return chain[i].Order() < chain[j].Order() })

	if model.InterceptorSupplier != nil {
		var supplied []api.ClassInterceptor
		err := safeCall(func() error {
			supplied = model.InterceptorSupplier()
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("interceptor supplier of %q: %w", model.Name, err)
		}
		chain = append(chain, supplied...)
	}
	return chain, nil
}

// around wraps a body invocation with the chain's hooks: pre hooks in chain
// order, the body if every pre hook succeeded, post hooks in reverse chain
// order. Post hooks receive the primary error (pre failure or body error).
//
// The primary error is returned first; errors raised by post hooks are
// collected separately and never mask the primary. Either hook func may be
// nil for invocations without that side of the pipeline.
func (c interceptorChain) around(pre func(api.ClassInterceptor) error, body func() error, post func(api.ClassInterceptor, error) error) (primary error, postErrs []error) {
	if pre != nil {
		for _, interceptor := range c {
			if err := safeCall(func() error { return pre(interceptor) }); err != nil {
				primary = err
				break
			}
		}
	}

	if primary == nil && body != nil {
		primary = safeCall(body)
	}

	if post != nil {
		for i := len(c) - 1; i >= 0; i-- {
			interceptor := c[i]
			if err := safeCall(func() error { return post(interceptor, primary) }); err != nil {
				logging.Debug("Interceptor", "post hook failed: %v", err)
				postErrs = append(postErrs, err)
			}
		}
	}
	return primary, postErrs
}

// safeCall invokes fn, converting a panic into an error so a misbehaving
// user method or hook can never take the engine down.
func safeCall(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = fmt.Errorf("panic: %w", e)
			} else {
				err = fmt.Errorf("panic: %v", r)
			}
		}
	}()
	return fn()
}
