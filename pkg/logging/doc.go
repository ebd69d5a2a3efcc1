// Package logging provides the structured logging facade used by the
// verifyica engine and CLI.
//
// Log entries are emitted through log/slog with a subsystem attribute that
// categorizes the source ("Engine", "Resolver", "Runner", ...). The facade
// is initialized once at startup with InitForCLI, which sets the minimum
// level and the output writer; before initialization all log calls are
// suppressed.
//
// Usage:
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Engine", "resolved %d test classes", n)
//	logging.Error("Resolver", err, "discovery failed")
package logging
