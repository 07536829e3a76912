// Package gen provides the language-independent core of the Ecsact binding
// generators.
//
// Plugins (see compiler/gen/cpp and compiler/gen/golang) emit one file per
// package by querying a meta.Accessor and streaming text to a Printer.
// This package supplies what they share: capability classification,
// declaration naming, the system tree, feature flags, typed errors and the
// parallel Generator that runs plugins and writes their output.
//
// # Architecture
//
// The generation pipeline follows this flow:
//
//	package snapshots (yaml, json, msgpack)
//	        ↓
//	   compiler/load (decode + validate)
//	        ↓
//	   meta.Registry (resolved metadata, meta.Accessor)
//	        ↓
//	   Generator: package x plugin tasks under errgroup
//	        ↓
//	   Plugin.Generate(*Context) → Printer → temp file → rename
//
// # Plugin Interfaces
//
//	Plugin (required)
//	├── Name() string
//	└── Generate(*Context) error
//
//	Optional capabilities, detected by type assertion:
//	├── OutputNamer  custom output file name
//	├── Formatter    post-process the complete output
//	└── Describer    one-line description for the CLI
//
// # Capability Classification
//
// Classify partitions a capability map. READWRITE, READONLY and WRITEONLY
// are tried in that order and only the first match counts; OPTIONAL,
// INCLUDE, EXCLUDE, ADDS, REMOVES and STREAM_TOGGLE are checked one by one.
// ClassifySystem applies the same rules to each association of a
// system-like.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - ConfigError: configuration errors
//   - GenerationError: a plugin failed for a package
//   - InvariantError: broken accessor contract, raised with Context.Invariant
//
// Problems in the snapshots themselves are reported before generation, as
// ecsact.ValidationError by the loader and ecsact.SchemaError by
// meta.NewRegistry.
//
// Invariant violations abort the plugin through a panic that Run recovers:
//
//	_, err := gen.Run(plugin, registry, pkg, &buf)
//	if gen.IsInvariantError(err) {
//	    // the metadata broke a guarantee of meta.Accessor
//	}
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithTarget("./generated"),
//	    gen.WithPlugins(cpp.Plugins()...),
//	    gen.WithWorkers(4),
//	    gen.WithoutFeatures(gen.FeatureMetaSchedule.Name),
//	)
package gen
