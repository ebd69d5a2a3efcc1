// Package resolver turns discovery selectors into a fully-built descriptor
// tree.
//
// Selectors are folded into a per-class method selection, each selected
// class is introspected and its argument supplier expanded into a normalized
// argument list, and the resulting class/argument/test nodes are ordered,
// filtered and pruned according to the engine configuration. Supplier
// failures and class definition violations abort discovery: the engine emits
// no test events for a failed resolution.
package resolver
