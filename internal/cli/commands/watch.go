package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
	"github.com/ecsact-dev/ecsact-lang-cpp/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [snapshot files...]",
		Short: "Regenerate bindings whenever a snapshot changes",
		Long: `Watch generates once, then regenerates every package each time one of
the snapshot files is written. Failed builds are reported and watching
continues.

Examples:
  ecsact-cpp watch -o gen game.ecsact.yaml util.ecsact.json
  ecsact-cpp watch --debounce 500ms game.ecsact.yaml
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			inputs, err := inputsOf(cfg, args)
			if err != nil {
				return err
			}
			log := logx.NewZapLogger(logx.New(appName, cfg.Log))
			defer log.Zap().Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			b := newBuilder(cfg, log, cmd.OutOrStdout())
			rebuild := func(ctx context.Context) error {
				ctx = logx.WithBuildID(ctx, uuid.NewString())
				_, err := b.build(ctx, inputs)
				if err != nil {
					color.New(color.FgRed, color.Bold).Fprintf(b.out, "Error: %v\n", err)
				}
				return err
			}
			_ = rebuild(ctx)

			w, err := watch.New(inputs, cfg.Watch.Debounce, log, func(changed []string) error {
				log.WithContext(ctx).Info("snapshots changed", zap.Strings("files", changed))
				return rebuild(ctx)
			})
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}

			color.New(color.FgCyan, color.Bold).Fprintf(b.out, "Watching %d snapshot files\n", len(inputs))
			color.New(color.FgYellow).Fprintln(b.out, "Press Ctrl+C to stop")

			<-ctx.Done()

			if err := w.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}
			fmt.Fprintln(b.out, "Stopped watching")
			return nil
		},
	}
	addGenerateFlags(cmd)
	cmd.Flags().Duration("debounce", 0, "quiet period before regenerating (default 100ms)")
	return cmd
}
