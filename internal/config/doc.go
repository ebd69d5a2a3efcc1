// Package config provides configuration management for the verifyica engine.
//
// Configuration is resolved in layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (sequential execution, no filters).
//  2. An optional YAML file (verifyica.yaml) loaded with Load.
//  3. Explicit string properties applied with Config.Apply, using the
//     engine's canonical property keys (engine.class.parallelism,
//     engine.argument.parallelism, engine.test.class.shuffle,
//     engine.filters.filename, engine.report.path).
//
// The resolved Config is also exported back as a string property map on the
// EngineContext, so user code and interceptors can inspect the effective
// configuration.
package config
