package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"
	"tableflip.dev/tasks/pkg/runner/sort"
)

func addSort(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "sort <title|created>",
		Short:     "save the order tasks are listed in",
		ValidArgs: []string{"title", "created"},
		Example: `
tasks sort created
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			order, err := options.ParseOrder(args[0])
			if err != nil {
				return output.HandleError(err)
			}
			ctx := context.Background()
			p, _, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()

			s := sort.Sort{Order: *order, Persistence: p}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}
