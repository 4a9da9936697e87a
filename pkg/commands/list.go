package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"
	"tableflip.dev/tasks/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	so := &options.SortOptions{}
	showID := false

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list tasks",
		Example: `
tasks list
tasks list --sort created
tasks list --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			order, err := so.GetOrder()
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			p, _, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()

			s := list.List{
				Persistence: p,
				Order:       order,
				ShowID:      showID,
				JSON:        output.JSON,
			}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddSortArgs(cmd, so)
	cmd.Flags().BoolVarP(&showID, "show-id", "k", false,
		"Show the ID of each task.")

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
