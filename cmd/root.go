package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates all tests passed or were aborted.
	ExitCodeSuccess = 0
	// ExitCodeTestFailure indicates at least one test failed.
	ExitCodeTestFailure = 1
	// ExitCodeDiscoveryError indicates discovery failed before any test
	// event was emitted.
	ExitCodeDiscoveryError = 2
)

// rootCmd represents the base command for the verifyica application.
// It is the entry point when the application is called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "verifyica",
	Short: "Run parameterized test classes",
	Long: `verifyica is a parameterized test engine: a test class declares a
supplier of test arguments, and for each argument the engine runs lifecycle
hooks and test methods with configurable parallelism across classes and
across arguments within a class.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles
// subcommands and flags. This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "verifyica version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var runFailed *runFailedError
	if errors.As(err, &runFailed) {
		return runFailed.exitCode
	}
	return ExitCodeTestFailure
}

// init is a special Go function that is executed when the package is
// initialized. It is used here to add subcommands to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newRunCmd())
}
