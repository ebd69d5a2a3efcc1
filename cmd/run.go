package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"verifyica/internal/config"
	"verifyica/internal/engine"
	"verifyica/internal/report"
	"verifyica/internal/resolver"
	"verifyica/pkg/api"
	"verifyica/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	runClassParallelism    int
	runArgumentParallelism int
	runShuffle             bool
	runConfigPath          string
	runFilterFile          string
	runReportPath          string
	runIncludePatterns     []string
	runExcludePatterns     []string
	runIncludeTags         []string
	runExcludeTags         []string
	runVerbose             bool
	runDebug               bool
)

// runFailedError carries the semantic exit code of a failed run through
// cobra's error return.
type runFailedError struct {
	exitCode int
	message  string
}

func (e *runFailedError) Error() string { return e.message }

// newRunCmd creates the Cobra command that executes the registered test
// classes.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [class | class#method ...]",
		Short: "Execute registered test classes",
		Long: `Execute the registered test classes.

Without positional arguments every registered class is selected. A
positional argument selects a single class by name, or a single test method
with the class#method form.

Parallelism is bounded at two levels: --class-parallelism caps concurrently
executing class subtrees, and --argument-parallelism is the engine-wide
ceiling on per-class argument parallelism (each class may declare a lower
value).

Example usage:
  verifyica run                                # Run everything
  verifyica run ExampleTest                    # Run one class
  verifyica run ExampleTest#testConnect        # Run one test method
  verifyica run --class-parallelism=4          # Four classes at a time
  verifyica run --filter-file=filters.txt      # Apply a class-name filter file
  verifyica run --tag=smoke --exclude-tag=slow # Tag filtering
  verifyica run --report-path=report.json      # Write a JSON report`,
		RunE: runTests,
	}

	cmd.Flags().IntVar(&runClassParallelism, "class-parallelism", 0, "Maximum concurrently executing test classes")
	cmd.Flags().IntVar(&runArgumentParallelism, "argument-parallelism", 0, "Engine-wide ceiling on per-class argument parallelism")
	cmd.Flags().BoolVar(&runShuffle, "shuffle", false, "Randomize class submission order")
	cmd.Flags().StringVar(&runConfigPath, "config", config.ConfigFileName, "Path to the engine configuration file")
	cmd.Flags().StringVar(&runFilterFile, "filter-file", "", "Path to a class-name filter file")
	cmd.Flags().StringVar(&runReportPath, "report-path", "", "Path to write the JSON report to")
	cmd.Flags().StringArrayVar(&runIncludePatterns, "include", nil, "Include class-name regex (repeatable)")
	cmd.Flags().StringArrayVar(&runExcludePatterns, "exclude", nil, "Exclude class-name regex (repeatable)")
	cmd.Flags().StringArrayVar(&runIncludeTags, "tag", nil, "Keep only classes carrying one of these tags (repeatable)")
	cmd.Flags().StringArrayVar(&runExcludeTags, "exclude-tag", nil, "Remove classes carrying one of these tags (repeatable)")
	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Verbose per-node output")
	cmd.Flags().BoolVar(&runDebug, "debug", false, "Debug logging")

	return cmd
}

func runTests(cmd *cobra.Command, args []string) error {
	level := logging.LevelWarn
	if runVerbose {
		level = logging.LevelInfo
	}
	if runDebug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, os.Stderr)

	cfg, err := resolveRunConfig(cmd)
	if err != nil {
		return &runFailedError{exitCode: ExitCodeDiscoveryError, message: err.Error()}
	}

	selectors, err := selectorsFromArgs(args)
	if err != nil {
		return &runFailedError{exitCode: ExitCodeDiscoveryError, message: err.Error()}
	}

	filters := &resolver.Filters{
		IncludeTags: runIncludeTags,
		ExcludeTags: runExcludeTags,
	}
	for _, pattern := range runIncludePatterns {
		if err := filters.IncludeClassName(pattern); err != nil {
			return &runFailedError{exitCode: ExitCodeDiscoveryError, message: err.Error()}
		}
	}
	for _, pattern := range runExcludePatterns {
		if err := filters.ExcludeClassName(pattern); err != nil {
			return &runFailedError{exitCode: ExitCodeDiscoveryError, message: err.Error()}
		}
	}

	console := report.NewConsoleListener(cmd.OutOrStdout(), runVerbose)
	console.SetParallelMode(cfg.ClassParallelism > 1)
	structured := report.NewStructuredListener()

	eng := engine.New(api.DefaultRegistry(), cfg,
		engine.WithListener(api.MultiListener{structured, console}),
		engine.WithFilters(filters),
		engine.WithVersion(rootCmd.Version),
	)

	// A shutdown signal stops new submissions; in-flight user methods and
	// teardown branches run to completion.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var s *spinner.Spinner
	if !runVerbose && !runDebug {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.Suffix = " Running test classes..."
		s.Start()
	}
	summary := eng.Run(ctx, selectors...)
	if s != nil {
		s.Stop()
	}

	report.PrintSummary(cmd.OutOrStdout(), summary)

	if cfg.ReportPath != "" {
		if err := structured.WriteReport(cfg.ReportPath); err != nil {
			logging.Error("Report", err, "failed to write report")
		}
	}

	if summary.DiscoveryError != "" {
		return &runFailedError{exitCode: ExitCodeDiscoveryError, message: summary.DiscoveryError}
	}
	if !summary.Passed() {
		return &runFailedError{
			exitCode: ExitCodeTestFailure,
			message:  fmt.Sprintf("%d of %d tests failed", summary.TestsFailed, summary.TestsTotal),
		}
	}
	return nil
}

// resolveRunConfig loads the configuration file and overlays the run flags.
func resolveRunConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(runConfigPath)
	if err != nil {
		return config.Config{}, err
	}

	props := make(map[string]string)
	if cmd.Flags().Changed("class-parallelism") {
		props[config.KeyClassParallelism] = fmt.Sprintf("%d", runClassParallelism)
	}
	if cmd.Flags().Changed("argument-parallelism") {
		props[config.KeyArgumentParallelism] = fmt.Sprintf("%d", runArgumentParallelism)
	}
	if cmd.Flags().Changed("shuffle") {
		props[config.KeyClassShuffle] = fmt.Sprintf("%t", runShuffle)
	}
	if runFilterFile != "" {
		props[config.KeyFilterFilename] = runFilterFile
	}
	if runReportPath != "" {
		props[config.KeyReportPath] = runReportPath
	}
	return cfg.Apply(props)
}

// selectorsFromArgs maps positional arguments onto discovery selectors.
func selectorsFromArgs(args []string) ([]resolver.Selector, error) {
	var selectors []resolver.Selector
	for _, arg := range args {
		if arg == "" {
			return nil, fmt.Errorf("empty selector argument")
		}
		if className, methodName, ok := strings.Cut(arg, "#"); ok {
			if className == "" || methodName == "" {
				return nil, fmt.Errorf("malformed selector %q, want class#method", arg)
			}
			selectors = append(selectors, resolver.MethodSelector{ClassName: className, MethodName: methodName})
			continue
		}
		selectors = append(selectors, resolver.ClassSelector{ClassName: arg})
	}
	return selectors, nil
}
