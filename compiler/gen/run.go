package gen

import (
	"fmt"
	"io"
	"sync"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// Context is handed to a plugin for one package. It embeds the Printer the
// plugin writes to.
type Context struct {
	*Printer

	Accessor meta.Accessor
	Package  ecsact.PackageID
	Config   *Config

	plugin  string
	mu      sync.Mutex
	notices []Notice
}

// PackageName returns the name of the package being generated.
func (c *Context) PackageName() string {
	return c.Accessor.PackageName(c.Package)
}

// PluginName returns the name of the running plugin.
func (c *Context) PluginName() string { return c.plugin }

// HeaderLine returns the header comment text for generated files.
func (c *Context) HeaderLine() string { return c.Config.HeaderLine() }

// Enabled reports whether a registered feature is on.
func (c *Context) Enabled(f Feature) bool { return c.Config.enabled(f) }

// Notify reports a non-fatal notice about a declaration (ecsact.NoID for
// the package as a whole).
func (c *Context) Notify(level NoticeLevel, decl ecsact.ID, format string, args ...any) {
	n := Notice{
		Level:   level,
		Plugin:  c.plugin,
		Package: c.PackageName(),
		Decl:    decl,
		Message: fmt.Sprintf(format, args...),
	}
	c.mu.Lock()
	c.notices = append(c.notices, n)
	c.mu.Unlock()
	if c.Config.OnNotice != nil {
		c.Config.OnNotice(n)
	}
}

// Notices returns the notices reported so far.
func (c *Context) Notices() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.notices...)
}

// Invariant aborts the plugin with an *InvariantError. It is meant for
// metadata the accessor contract rules out, never for user errors.
func (c *Context) Invariant(decl ecsact.ID, format string, args ...any) {
	panic(NewInvariantError(c.plugin, decl, fmt.Sprintf(format, args...)))
}

// Run executes one plugin for one package, streaming its output to sink.
// Invariant violations raised by the plugin are returned as a
// *GenerationError wrapping the *InvariantError; any other panic is
// propagated.
func Run(p Plugin, acc meta.Accessor, pkg ecsact.PackageID, sink io.Writer, opts ...Option) ([]Notice, error) {
	cfg, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return run(p, acc, pkg, sink, cfg)
}

func run(p Plugin, acc meta.Accessor, pkg ecsact.PackageID, sink io.Writer, cfg *Config) (notices []Notice, err error) {
	ctx := &Context{
		Printer:  NewPrinter(sink),
		Accessor: acc,
		Package:  pkg,
		Config:   cfg,
		plugin:   p.Name(),
	}
	pkgName := acc.PackageName(pkg)
	defer func() {
		notices = ctx.Notices()
		r := recover()
		if r == nil {
			return
		}
		inv, ok := r.(*InvariantError)
		if !ok {
			panic(r)
		}
		err = NewGenerationError(p.Name(), pkgName, "", "", inv)
	}()
	if err := p.Generate(ctx); err != nil {
		return nil, NewGenerationError(p.Name(), pkgName, "", "", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, NewGenerationError(p.Name(), pkgName, "", "write output", err)
	}
	if d := ctx.Depth(); d != 0 {
		return nil, NewGenerationError(p.Name(), pkgName, "", "", NewInvariantError(p.Name(), ecsact.NoID, fmt.Sprintf("unbalanced indentation (depth %d)", d)))
	}
	return nil, nil
}
