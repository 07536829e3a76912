package gen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
)

func listPlugin(name string) Plugin {
	return PluginFunc{PluginName: name, Fn: func(ctx *Context) error {
		ctx.Line("// ", ctx.HeaderLine())
		ctx.Block("package "+ctx.PackageName()+" {", func() {
			for _, id := range ctx.Accessor.ComponentIDs(ctx.Package) {
				ctx.Line(ctx.Accessor.DeclName(id))
			}
		}, "}")
		return nil
	}}
}

type goPlugin struct{}

func (goPlugin) Name() string { return "go" }
func (goPlugin) OutputPath(pkgFilePath string) string {
	return filepath.Join("gen", filepath.Base(pkgFilePath)+".go")
}
func (goPlugin) Generate(ctx *Context) error {
	ctx.Line("package gen")
	ctx.Line("func F() { fmt.Println(\"", ctx.PackageName(), "\") }")
	return nil
}

func TestRun(t *testing.T) {
	r, pkg := gameRegistry(t)

	var buf bytes.Buffer
	notices, err := Run(listPlugin("list"), r, pkg, &buf, WithHeader("hello"))
	require.NoError(t, err)
	assert.Empty(t, notices)
	assert.Equal(t, "// hello\npackage game {\n\tPosition\n\tTarget\n\tTag\n}\n", buf.String())
}

func TestRunNotices(t *testing.T) {
	r, pkg := gameRegistry(t)

	var handled []Notice
	p := PluginFunc{PluginName: "warn", Fn: func(ctx *Context) error {
		ctx.Notify(NoticeWarn, 7, "skipped %s", "anonymous")
		return nil
	}}
	notices, err := Run(p, r, pkg, &bytes.Buffer{}, WithNoticeHandler(func(n Notice) { handled = append(handled, n) }))
	require.NoError(t, err)
	require.Len(t, notices, 1)
	assert.Equal(t, notices, handled)
	assert.Equal(t, "warn: game [warn, decl 7]: skipped anonymous", notices[0].String())
}

func TestRunInvariant(t *testing.T) {
	r, pkg := gameRegistry(t)

	p := PluginFunc{PluginName: "broken", Fn: func(ctx *Context) error {
		defer ctx.Indent()()
		ctx.Line("partial")
		ctx.Invariant(20, "action without a name")
		return nil
	}}
	_, err := Run(p, r, pkg, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
	assert.True(t, errors.Is(err, ErrInvariant))
	assert.Contains(t, err.Error(), "at declaration 20: action without a name")
}

func TestRunPropagatesOtherPanics(t *testing.T) {
	r, pkg := gameRegistry(t)
	p := PluginFunc{PluginName: "panics", Fn: func(*Context) error { panic("bug") }}
	assert.PanicsWithValue(t, "bug", func() { _, _ = Run(p, r, pkg, &bytes.Buffer{}) })
}

func TestRunUnbalancedIndent(t *testing.T) {
	r, pkg := gameRegistry(t)
	p := PluginFunc{PluginName: "leaky", Fn: func(ctx *Context) error {
		ctx.Indent()
		return nil
	}}
	_, err := Run(p, r, pkg, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, IsInvariantError(err))
}

func TestGenerator(t *testing.T) {
	r, _ := gameRegistry(t)
	dir := t.TempDir()
	core, logs := observer.New(zap.DebugLevel)

	cfg := MustNewConfig(
		WithTarget(dir),
		WithPlugins(listPlugin("list"), goPlugin{}),
		WithWorkers(2),
		WithLogger(zap.New(core)),
	)
	report, err := NewGenerator(r, cfg).Generate(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, []string{
		filepath.Join(dir, "game.ecsact.list"),
		filepath.Join(dir, "gen", "game.ecsact.go"),
	}, report.Files)
	assert.Equal(t, 2, report.Metrics.FilesGenerated)

	list, err := os.ReadFile(report.Files[0])
	require.NoError(t, err)
	assert.Contains(t, string(list), "\tPosition\n")

	// goimports adds the missing fmt import.
	src, err := os.ReadFile(report.Files[1])
	require.NoError(t, err)
	assert.Contains(t, string(src), `import "fmt"`)

	info, err := os.Stat(report.Files[0])
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	assert.Equal(t, 1, logs.FilterMessage("generation finished").Len())
	assert.Equal(t, 2, logs.FilterMessage("file generated").Len())
}

func TestGeneratorFailureLeavesNoFile(t *testing.T) {
	r, _ := gameRegistry(t)
	dir := t.TempDir()

	broken := PluginFunc{PluginName: "broken", Fn: func(ctx *Context) error {
		ctx.Line("half written")
		ctx.Invariant(ecsact.NoID, "contract broken")
		return nil
	}}
	cfg := MustNewConfig(WithTarget(dir), WithPlugins(broken), WithWorkers(1))
	report, err := NewGenerator(r, cfg).Generate(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariant))

	var genErr *GenerationError
	require.True(t, errors.As(err, &genErr))
	assert.Equal(t, filepath.Join(dir, "game.ecsact.broken"), genErr.File)
	assert.Empty(t, report.Files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGeneratorNotices(t *testing.T) {
	r, _ := gameRegistry(t)
	var (
		mu   sync.Mutex
		seen int
	)
	p := PluginFunc{PluginName: "n", Fn: func(ctx *Context) error {
		ctx.Notify(NoticeInfo, ecsact.NoID, "hello")
		return nil
	}}
	cfg := MustNewConfig(WithTarget(t.TempDir()), WithPlugins(p), WithNoticeHandler(func(Notice) {
		mu.Lock()
		seen++
		mu.Unlock()
	}))
	report, err := NewGenerator(r, cfg).Generate(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Notices, 1)
	assert.Equal(t, "info: game [n]: hello", report.Notices[0].String())
	assert.Equal(t, 1, seen)
}

func TestGeneratorConfigErrors(t *testing.T) {
	r, _ := gameRegistry(t)

	_, err := NewGenerator(r, &Config{}).Generate(context.Background())
	assert.True(t, IsConfigError(err))

	_, err = NewGenerator(r, &Config{Target: t.TempDir()}).Generate(context.Background())
	assert.True(t, IsConfigError(err))
}

func TestGeneratorCanceled(t *testing.T) {
	r, _ := gameRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := MustNewConfig(WithTarget(t.TempDir()), WithPlugins(listPlugin("list")))
	_, err := NewGenerator(r, cfg).Generate(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}
