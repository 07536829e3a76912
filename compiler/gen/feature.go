package gen

import (
	"errors"
	"strings"
)

var (
	// FeatureMetaSchedule provides a feature-flag for the scheduling hints
	// of the meta header: lazy iteration rates and parallel eligibility.
	FeatureMetaSchedule = Feature{
		Name:        "meta/schedule",
		Stage:       Stable,
		Default:     true,
		Description: "Emits system_lazy_execution_iteration_rate_v and system_parallel_execution_v for system-likes that declare them",
	}

	// FeatureMetaFields provides a feature-flag for field reflection in the
	// meta header (fields_count and fields_info).
	FeatureMetaFields = Feature{
		Name:        "meta/fields",
		Stage:       Stable,
		Default:     true,
		Description: "Emits fields_count and fields_info specializations for every composite",
	}

	// FeatureAssocForwarding makes get<T>() specializations forward the
	// values of T's relationship fields to the runtime, so the runtime can
	// select the associated entity.
	FeatureAssocForwarding = Feature{
		Name:        "systems/assoc-forwarding",
		Stage:       Beta,
		Default:     true,
		Description: "Forwards relationship field values from get<T>() to the execution context",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureMetaSchedule,
		FeatureMetaFields,
		FeatureAssocForwarding,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development and may change or disappear.
	Experimental

	// Alpha features are complete but their generated API may still change.
	Alpha

	// Beta features are documented and no breaking changes are expected.
	Beta

	// Stable features have been in use long enough to be relied upon.
	Stable
)

// String returns the stage name.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return "unknown"
	}
}

// A Feature of the codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string
}

// FeatureByName returns the registered feature with the given name.
func FeatureByName(name string) (Feature, bool) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, true
		}
	}
	return Feature{}, false
}

// FeatureEnabled reports whether the named feature is on for this config.
// Features listed through WithoutFeatures win over WithFeatures, and
// features listed in neither fall back to their default.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	f, ok := FeatureByName(name)
	if !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	for _, d := range c.DisabledFeatures {
		if d == name {
			return false, nil
		}
	}
	for _, e := range c.Features {
		if e.Name == name {
			return true, nil
		}
	}
	return f.Default, nil
}

// ParseFeatures turns feature names into options. A name prefixed with "-"
// or "!" disables the feature; unknown names are reported together.
func ParseFeatures(names ...string) ([]Option, error) {
	var (
		on   []Feature
		off  []string
		errs []error
	)
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		disable := strings.HasPrefix(name, "-") || strings.HasPrefix(name, "!")
		if disable {
			name = name[1:]
		}
		f, ok := FeatureByName(name)
		if !ok {
			errs = append(errs, NewConfigError("Features", raw, "unknown feature"))
			continue
		}
		if disable {
			off = append(off, f.Name)
		} else {
			on = append(on, f)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return []Option{WithFeatures(on...), WithoutFeatures(off...)}, nil
}
