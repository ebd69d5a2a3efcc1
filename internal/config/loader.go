package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"verifyica/pkg/logging"

	"gopkg.in/yaml.v3"
)

// Load reads the engine configuration file at path on top of the built-in
// defaults. A missing file is not an error: the defaults are returned.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No %s found, using defaults", path)
			return cfg, nil
		}
		return Config{}, fmt.Errorf("error reading config from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error loading config from %s: %w", path, err)
	}
	logging.Info("ConfigLoader", "Loaded configuration from %s", path)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config in %s: %w", path, err)
	}
	return cfg, nil
}

// Apply overlays string properties on the configuration, using the canonical
// engine property keys. Unknown keys are ignored so callers can pass a
// larger property bag.
func (c Config) Apply(props map[string]string) (Config, error) {
	for key, value := range props {
		switch key {
		case KeyClassParallelism:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("property %s: %w", key, err)
			}
			c.ClassParallelism = n
		case KeyArgumentParallelism:
			n, err := strconv.Atoi(value)
			if err != nil {
				return Config{}, fmt.Errorf("property %s: %w", key, err)
			}
			c.ArgumentParallelism = n
		case KeyClassShuffle:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Config{}, fmt.Errorf("property %s: %w", key, err)
			}
			c.ShuffleClasses = b
		case KeyFilterFilename:
			c.FilterFilename = value
		case KeyReportPath:
			c.ReportPath = value
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks configuration invariants.
func (c Config) Validate() error {
	if c.ClassParallelism < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", KeyClassParallelism, c.ClassParallelism)
	}
	if c.ArgumentParallelism < 1 {
		return fmt.Errorf("%s must be >= 1, got %d", KeyArgumentParallelism, c.ArgumentParallelism)
	}
	return nil
}

// Properties exports the configuration as the canonical string property map
// exposed on the EngineContext.
func (c Config) Properties() map[string]string {
	props := map[string]string{
		KeyClassParallelism:    strconv.Itoa(c.ClassParallelism),
		KeyArgumentParallelism: strconv.Itoa(c.ArgumentParallelism),
		KeyClassShuffle:        strconv.FormatBool(c.ShuffleClasses),
	}
	if c.FilterFilename != "" {
		props[KeyFilterFilename] = c.FilterFilename
	}
	if c.ReportPath != "" {
		props[KeyReportPath] = c.ReportPath
	}
	return props
}
