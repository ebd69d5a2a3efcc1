package config

// ConfigFileName is the default engine configuration file name, looked up in
// the working directory.
const ConfigFileName = "verifyica.yaml"

// Default returns the built-in configuration: fully sequential execution,
// no filters, no report.
func Default() Config {
	return Config{
		ClassParallelism:    1,
		ArgumentParallelism: 1,
	}
}
