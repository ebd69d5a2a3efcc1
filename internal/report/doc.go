// Package report provides the execution listeners that render engine runs:
// a console listener for human-readable CLI output (with buffered per-class
// output in parallel mode), a structured listener that captures every node
// event for JSON export, and the run summary table printed at the end of a
// CLI run.
package report
