package config

// Canonical engine property keys.
const (
	// KeyClassParallelism caps concurrently executing class subtrees.
	KeyClassParallelism = "engine.class.parallelism"
	// KeyArgumentParallelism is the engine-wide ceiling on per-class
	// argument parallelism.
	KeyArgumentParallelism = "engine.argument.parallelism"
	// KeyClassShuffle randomizes class submission order when "true".
	KeyClassShuffle = "engine.test.class.shuffle"
	// KeyFilterFilename points at a class-name filter file.
	KeyFilterFilename = "engine.filters.filename"
	// KeyReportPath points at the JSON report output file.
	KeyReportPath = "engine.report.path"
)

// Config is the resolved engine configuration.
type Config struct {
	// ClassParallelism caps concurrently executing class subtrees.
	// Must be >= 1.
	ClassParallelism int `yaml:"classParallelism"`
	// ArgumentParallelism is the engine-wide ceiling on per-class argument
	// parallelism. Must be >= 1. The effective per-class value is
	// min(class declared parallelism, this ceiling).
	ArgumentParallelism int `yaml:"argumentParallelism"`
	// ShuffleClasses randomizes class submission order.
	ShuffleClasses bool `yaml:"shuffleClasses"`
	// FilterFilename is the path to a class-name filter file. Empty means
	// no filter file.
	FilterFilename string `yaml:"filterFilename"`
	// ReportPath is the path the structured JSON report is written to.
	// Empty disables the report.
	ReportPath string `yaml:"reportPath"`
}
