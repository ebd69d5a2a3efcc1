package engine

import "verifyica/pkg/api"

// stateRecord captures one state transition outcome: the state reached and
// the error observed entering it, if any.
type stateRecord struct {
	state string
	err   error
}

// records accumulates a machine's state transitions. The first recorded
// error determines the node's reported result; later errors (teardown,
// post hooks) are retained but never mask it.
type records struct {
	list []stateRecord
}

func (r *records) add(state string, err error) {
	r.list = append(r.list, stateRecord{state: state, err: err})
}

func (r *records) addAll(state string, errs []error) {
	for _, err := range errs {
		r.add(state, err)
	}
}

// firstError returns the first error observed, or nil.
func (r *records) firstError() error {
	for _, rec := range r.list {
		if rec.err != nil {
			return rec.err
		}
	}
	return nil
}

// result derives the node's terminal result from the records: the first
// error wins; a skip request aborts instead of failing.
func (r *records) result() api.TestExecutionResult {
	err := r.firstError()
	switch {
	case err == nil:
		return api.Passed()
	case api.IsSkip(err):
		return api.Aborted(err)
	default:
		return api.Failed(err)
	}
}

// success/failure suffixes shared by the machine state names.
func stateOf(base string, err error) string {
	if err != nil {
		return base + "_FAILURE"
	}
	return base + "_SUCCESS"
}
