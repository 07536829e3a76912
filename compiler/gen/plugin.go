package gen

// =============================================================================
// Plugins: one required method set plus optional capabilities
// =============================================================================

// Plugin emits one output file per package.
type Plugin interface {
	// Name identifies the plugin. It is also the default extension appended
	// to the package source path to name the output file.
	Name() string
	// Generate writes the output of ctx.Package to ctx's printer.
	Generate(ctx *Context) error
}

// OutputNamer is implemented by plugins whose output file name is not
// "<package source path>.<plugin name>".
type OutputNamer interface {
	// OutputPath returns the file name relative to the target directory.
	OutputPath(pkgFilePath string) string
}

// Formatter is implemented by plugins that post-process their complete
// output before it is written, e.g. to run a source formatter.
type Formatter interface {
	Format(path string, src []byte) ([]byte, error)
}

// Describer is implemented by plugins that can explain what they emit.
type Describer interface {
	Description() string
}

// OutputPath returns the output file name of a plugin for a package.
func OutputPath(p Plugin, pkgFilePath string) string {
	if n, ok := p.(OutputNamer); ok {
		return n.OutputPath(pkgFilePath)
	}
	return OutputName(pkgFilePath, p.Name())
}

// Describe returns the plugin description, if it has one.
func Describe(p Plugin) string {
	if d, ok := p.(Describer); ok {
		return d.Description()
	}
	return ""
}

// PluginFunc adapts a function to the Plugin interface.
type PluginFunc struct {
	PluginName string
	Fn         func(*Context) error
}

// Name implements Plugin.
func (f PluginFunc) Name() string { return f.PluginName }

// Generate implements Plugin.
func (f PluginFunc) Generate(ctx *Context) error { return f.Fn(ctx) }

var _ Plugin = PluginFunc{}
