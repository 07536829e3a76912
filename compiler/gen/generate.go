package gen

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ecsact "github.com/ecsact-dev/ecsact-lang-cpp"
	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/meta"
)

// Generator runs every configured plugin for every requested package and
// writes the results under the target directory. Tasks run in parallel,
// bounded by Config.Workers; packages share no emission state.
//
// Example:
//
//	import "github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen/cpp"
//
//	cfg, err := gen.NewConfig(gen.WithTarget("out"), gen.WithPlugins(cpp.Plugins()...))
//	...
//	report, err := gen.NewGenerator(registry, cfg).Generate(ctx)
type Generator struct {
	acc meta.Accessor
	cfg *Config
}

// Report summarizes a generation run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string
	// Files are the written paths, in task order.
	Files   []string
	Notices []Notice
	Metrics WriterMetrics
}

// NewGenerator creates a Generator.
func NewGenerator(acc meta.Accessor, cfg *Config) *Generator {
	return &Generator{acc: acc, cfg: cfg}
}

type task struct {
	plugin Plugin
	pkg    ecsact.PackageID
	path   string
}

// Generate runs the plugins for the given packages, or for every package of
// the accessor when none are given. The first failure cancels the
// remaining tasks; files written by finished tasks are kept, the failed
// task leaves nothing behind.
func (g *Generator) Generate(ctx context.Context, pkgs ...ecsact.PackageID) (*Report, error) {
	if g.cfg == nil || g.cfg.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	if len(g.cfg.Plugins) == 0 {
		return nil, NewConfigError("Plugins", nil, "no plugins configured")
	}
	if len(pkgs) == 0 {
		pkgs = g.acc.PackageIDs()
	}

	report := &Report{RunID: uuid.NewString()}
	log := g.cfg.logger().With(zap.String("run", report.RunID))
	start := time.Now()

	var tasks []task
	for _, pkg := range pkgs {
		for _, p := range g.cfg.Plugins {
			tasks = append(tasks, task{
				plugin: p,
				pkg:    pkg,
				path:   filepath.Join(g.cfg.Target, OutputPath(p, g.acc.PackageFilePath(pkg))),
			})
		}
	}
	log.Info("generation started",
		zap.Int("packages", len(pkgs)),
		zap.Strings("plugins", g.cfg.PluginNames()),
		zap.Int("workers", g.cfg.workers()),
	)

	var (
		mu      sync.Mutex
		w       = newFileWriter(g.cfg.Target)
		notices = make([][]Notice, len(tasks))
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.cfg.workers())
	for i, t := range tasks {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			n, err := w.write(t.path, t.plugin, func(out *fileSink) ([]Notice, error) {
				return run(t.plugin, g.acc, t.pkg, out, g.cfg)
			})
			mu.Lock()
			notices[i] = n
			mu.Unlock()
			for _, notice := range n {
				log.Log(notice.Level.ZapLevel(), notice.Message,
					zap.String("plugin", notice.Plugin),
					zap.String("package", notice.Package),
					zap.Int32("decl", int32(notice.Decl)),
				)
			}
			if err != nil {
				log.Error("generation failed", zap.String("file", t.path), zap.Error(err))
				return withFile(err, t.path)
			}
			log.Debug("file generated", zap.String("file", t.path))
			return nil
		})
	}
	err := errg.Wait()

	for i, t := range tasks {
		report.Notices = append(report.Notices, notices[i]...)
		if w.wrote(t.path) {
			report.Files = append(report.Files, t.path)
		}
	}
	report.Metrics = w.Metrics()
	if err != nil {
		return report, err
	}
	log.Info("generation finished",
		zap.Int("files", report.Metrics.FilesGenerated),
		zap.Int64("bytes", report.Metrics.TotalBytes),
		zap.Int("notices", len(report.Notices)),
		zap.Duration("took", time.Since(start)),
	)
	return report, nil
}

// withFile records the output path on generation errors.
func withFile(err error, path string) error {
	if ge, ok := err.(*GenerationError); ok && ge.File == "" {
		ge.File = path
		return ge
	}
	return NewGenerationError("", "", path, "", err)
}
