package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"
	"tableflip.dev/tasks/pkg/runner/log"
)

func addLog(topLevel *cobra.Command) {
	lo := &options.LogOptions{}

	cmd := &cobra.Command{
		Use:   "log",
		Short: "view the work log",
		Example: `
tasks log
tasks log --window 2d
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			p, _, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()

			s := log.Log{
				Persistence: p,
				Window:      lo.Window,
			}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddLogArgs(cmd, lo)

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
