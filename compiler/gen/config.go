package gen

import (
	"runtime"

	"go.uber.org/zap"
)

// DefaultHeader is the first line of every generated C and C++ file.
const DefaultHeader = "GENERATED FILE - DO NOT EDIT"

// Config holds the settings of a generation run.
type Config struct {
	// Target is the output directory. Generated files are named after the
	// package source path and placed directly under it.
	Target string

	// Header is the comment written at the top of each generated file.
	// Plugins fall back to DefaultHeader when it is empty.
	Header string

	// Plugins are run for every package, in order.
	Plugins []Plugin

	// Workers bounds the number of package x plugin tasks run in parallel.
	// Zero means GOMAXPROCS.
	Workers int

	// Features explicitly enabled, and names explicitly disabled.
	Features         []Feature
	DisabledFeatures []string

	// Logger receives progress and notices. Defaults to a no-op logger.
	Logger *zap.Logger

	// OnNotice, if set, is called for every notice as it is reported.
	// It may be called from several goroutines at once.
	OnNotice func(Notice)
}

// OutputConfig groups the settings that decide where and how files are
// written.
type OutputConfig struct {
	Target string
	Header string
}

// Output returns the output settings.
func (c *Config) Output() OutputConfig {
	return OutputConfig{Target: c.Target, Header: c.Header}
}

// HeaderLine returns the configured header or DefaultHeader.
func (c *Config) HeaderLine() string {
	if c == nil || c.Header == "" {
		return DefaultHeader
	}
	return c.Header
}

// PluginNames returns the names of the configured plugins.
func (c *Config) PluginNames() []string {
	names := make([]string, len(c.Plugins))
	for i, p := range c.Plugins {
		names[i] = p.Name()
	}
	return names
}

func (c *Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

func (c *Config) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// enabled is FeatureEnabled for registered features, where the lookup
// cannot fail.
func (c *Config) enabled(f Feature) bool {
	if c == nil {
		return f.Default
	}
	on, err := c.FeatureEnabled(f.Name)
	return err == nil && on
}
