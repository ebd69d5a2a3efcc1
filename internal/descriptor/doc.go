// Package descriptor defines the three-level execution tree built by the
// resolver and walked by the engine: Engine → Class → Argument → TestMethod.
// Each node carries a hierarchical unique identifier; sibling order is the
// stable (Order, DisplayName) order established during resolution.
package descriptor
