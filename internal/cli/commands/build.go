package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen/cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen/golang"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/load"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
	"github.com/ecsact-dev/ecsact-lang-cpp/internal/cli/config"
	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
)

// appName names the logger of every command.
const appName = "ecsact-cpp"

// flagKeys maps command line flags to config keys.
var flagKeys = map[string]string{
	"out-dir":   "out_dir",
	"plugin":    "plugins",
	"workers":   "workers",
	"feature":   "features",
	"header":    "header",
	"debounce":  "watch.debounce",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// Plugins returns every plugin the command line can run: the C++ plugins
// followed by the Go declarations plugin.
func Plugins() []gen.Plugin {
	return append(cpp.Plugins(), golang.New())
}

func lookupPlugin(name string) (gen.Plugin, bool) {
	if p, ok := cpp.Lookup(name); ok {
		return p, true
	}
	if p := golang.New(); p.Name() == name {
		return p, true
	}
	return nil, false
}

func resolvePlugins(names []string) ([]gen.Plugin, error) {
	plugins := make([]gen.Plugin, 0, len(names))
	var errs []error
	for _, name := range names {
		p, ok := lookupPlugin(name)
		if !ok {
			errs = append(errs, gen.NewConfigError("plugins", name, "unknown plugin"))
			continue
		}
		plugins = append(plugins, p)
	}
	return plugins, errors.Join(errs...)
}

// addGenerateFlags registers the flags shared by generate and watch.
func addGenerateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("out-dir", "o", "", "output directory (default .)")
	f.StringSliceP("plugin", "p", nil, "plugins to run (default: every C++ plugin)")
	f.Int("workers", 0, "parallel generation tasks, 0 means one per CPU")
	f.StringSlice("feature", nil, "enable a feature, or disable it with a leading '-'")
	f.String("header", "", "first comment line of generated files")
}

// loadConfig merges the config file, environment and the flags of cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}
	file, _ := cmd.Flags().GetString("config")
	return config.Load(v, file)
}

func inputsOf(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Inputs) > 0 {
		return cfg.Inputs, nil
	}
	return nil, errors.New("no snapshot files given; pass them as arguments or set inputs in the config file")
}

// builder runs one generation over a fixed set of snapshot files. It is
// used once by generate and once per change by watch.
type builder struct {
	cfg *config.Config
	log logx.Logger
	out io.Writer
}

func newBuilder(cfg *config.Config, log logx.Logger, out io.Writer) *builder {
	return &builder{cfg: cfg, log: log, out: &syncWriter{w: out}}
}

// options turns the config into generator options.
func (b *builder) options() ([]gen.Option, error) {
	plugins, err := resolvePlugins(b.cfg.Plugins)
	if err != nil {
		return nil, err
	}
	features, err := gen.ParseFeatures(b.cfg.Features...)
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{
		gen.WithTarget(b.cfg.OutDir),
		gen.WithPlugins(plugins...),
		gen.WithWorkers(b.cfg.Workers),
		gen.WithHeader(b.cfg.Header),
		gen.WithLogger(b.log.Zap()),
	}
	return append(opts, features...), nil
}

func (b *builder) build(ctx context.Context, inputs []string) (*gen.Report, error) {
	log := b.log.WithContext(ctx)
	opts, err := b.options()
	if err != nil {
		return nil, err
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	pkgs, err := load.Files(inputs...)
	if err != nil {
		return nil, err
	}
	registry, err := meta.NewRegistry(pkgs...)
	if err != nil {
		return nil, err
	}
	log.Debug("snapshots loaded", zap.Strings("inputs", inputs), zap.Int("packages", len(pkgs)))

	report, err := gen.NewGenerator(registry, cfg).Generate(ctx)
	if report != nil {
		b.print(report, len(pkgs))
	}
	return report, err
}

func (b *builder) print(report *gen.Report, packages int) {
	for _, n := range report.Notices {
		printNotice(b.out, n)
	}
	for _, f := range report.Files {
		fmt.Fprintf(b.out, "  %s %s\n", color.GreenString("wrote"), f)
	}
	color.New(color.FgGreen, color.Bold).Fprintf(b.out,
		"Generated %d files (%d bytes) for %d packages\n",
		report.Metrics.FilesGenerated, report.Metrics.TotalBytes, packages)
}

func printNotice(w io.Writer, n gen.Notice) {
	c := color.New(color.FgCyan)
	if n.Level == gen.NoticeWarn {
		c = color.New(color.FgYellow)
	}
	c.Fprintln(w, n.String())
}

// syncWriter serializes writes from watch rebuilds and the command itself.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
