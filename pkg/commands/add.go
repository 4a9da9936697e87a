package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"

	"tableflip.dev/tasks/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "add a task",
		Example: `
tasks add fix the flaky login test
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			p, _, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()

			s := add.Add{
				Title:       strings.Join(args, " "),
				Persistence: p,
			}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
