// Package engine implements the verifyica execution engine: the two-level
// parallel runner that walks the descriptor tree, the class, argument and
// test-method lifecycle state machines, the interceptor pipeline wrapping
// every user invocation, and the scoped context implementations.
//
// Parallelism is bounded at two levels: a process-wide cap on concurrently
// executing class subtrees, and a per-class cap on concurrently executing
// argument subtrees (the class-declared value clamped by the engine-wide
// ceiling). Test methods within one argument run sequentially on the
// argument's worker.
//
// Every user invocation is converted into a result record; the first error
// observed on any path through a node determines the node's reported
// outcome, and teardown paths always run. The engine never propagates user
// errors to its caller: execution is observed through ExecutionListener
// events and the returned run summary.
package engine
