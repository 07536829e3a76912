package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecsact-dev/ecsact-lang-cpp/compiler/gen"
)

// NewPluginsCommand creates the plugins command
func NewPluginsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List plugins and feature flags",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			title := color.New(color.FgCyan, color.Bold)

			title.Fprintln(out, "Plugins:")
			for _, p := range Plugins() {
				fmt.Fprintf(out, "  %-12s %-24s %s\n", p.Name(), gen.OutputPath(p, "game.ecsact"), gen.Describe(p))
			}

			fmt.Fprintln(out)
			title.Fprintln(out, "Features:")
			for _, f := range gen.AllFeatures {
				state := "off"
				if f.Default {
					state = "on"
				}
				fmt.Fprintf(out, "  %-26s %-7s %-4s %s\n", f.Name, f.Stage, state, f.Description)
			}
		},
	}
}
