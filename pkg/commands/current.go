package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"

	"tableflip.dev/tasks/pkg/runner/current"
)

func addCurrent(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "current <id>",
		Short: "mark a task current and start a work session",
		Example: `
tasks current 3
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			id, err := parseID(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			p, _, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()

			s := current.Current{ID: id, Persistence: p}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
