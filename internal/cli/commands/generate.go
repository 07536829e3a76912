package commands

import (
	"github.com/spf13/cobra"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate [snapshot files...]",
		Aliases: []string{"gen", "g"},
		Short:   "Generate bindings for package snapshots",
		Long: `Generate runs the configured plugins for every package of the given
snapshot files. Dependencies must be passed alongside the packages that
import them.

Examples:
  # C++ bindings for game and its dependency util, written to ./gen
  ecsact-cpp generate -o gen game.ecsact.yaml util.ecsact.json

  # Only the header and the Go declarations
  ecsact-cpp generate -p hh -p go game.ecsact.yaml util.ecsact.json

  # Skip the scheduling hints of the meta header
  ecsact-cpp generate --feature=-meta/schedule game.ecsact.yaml
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

			_, err = newBuilder(cfg, log, cmd.OutOrStdout()).build(cmd.Context(), inputs)
			return err
		},
	}
	addGenerateFlags(cmd)
	return cmd
}
