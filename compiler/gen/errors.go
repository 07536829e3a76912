package gen

import (
	"errors"
	"fmt"
	"strings"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

// Sentinel errors for common failure cases.
var (
	// ErrMissingConfig indicates a configuration error.
	ErrMissingConfig = errors.New("ecsact: missing configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("ecsact: code generation failed")
	// ErrInvariant indicates a broken metadata contract detected while
	// emitting, e.g. an action without a name.
	ErrInvariant = errors.New("ecsact: generator invariant violated")
)

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("ecsact: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("ecsact: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// GenerationError represents a failure of one plugin on one package.
type GenerationError struct {
	Plugin  string
	Package string
	File    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("ecsact: generation error")
	if e.Plugin != "" {
		b.WriteString(" in plugin ")
		b.WriteString(e.Plugin)
	}
	if e.Package != "" {
		b.WriteString(" for package ")
		b.WriteString(e.Package)
	}
	if e.File != "" {
		b.WriteString(" (file: ")
		b.WriteString(e.File)
		b.WriteString(")")
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// NewGenerationError creates a new GenerationError.
func NewGenerationError(plugin, pkg, file, message string, cause error) *GenerationError {
	return &GenerationError{
		Plugin:  plugin,
		Package: pkg,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// InvariantError is the payload of the panic raised by Context.Invariant.
// Run recovers it and returns it wrapped in a GenerationError.
type InvariantError struct {
	Plugin  string
	Decl    ecsact.ID
	Message string
}

// Error implements the error interface.
func (e *InvariantError) Error() string {
	var b strings.Builder
	b.WriteString("ecsact: invariant violated")
	if e.Plugin != "" {
		b.WriteString(" in plugin ")
		b.WriteString(e.Plugin)
	}
	if e.Decl.Valid() {
		fmt.Fprintf(&b, " at declaration %d", e.Decl)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// Is reports whether the target matches the sentinel error for InvariantError.
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}

// NewInvariantError creates a new InvariantError.
func NewInvariantError(plugin string, decl ecsact.ID, message string) *InvariantError {
	return &InvariantError{
		Plugin:  plugin,
		Decl:    decl,
		Message: message,
	}
}

// IsConfigError reports whether the error is a ConfigError.
func IsConfigError(err error) bool {
	var configErr *ConfigError
	return errors.As(err, &configErr)
}

// IsGenerationError reports whether the error is a GenerationError.
func IsGenerationError(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsInvariantError reports whether the error is an InvariantError.
func IsInvariantError(err error) bool {
	var invErr *InvariantError
	return errors.As(err, &invErr)
}
