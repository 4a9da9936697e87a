package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/commands/options"
	"tableflip.dev/tasks/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	fo := &options.FormatOptions{}

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "show every field of a task",
		Example: `
tasks show 3
tasks show 3 -o yaml
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

			s := show.Show{
				ID:          id,
				Output:      fo.Output,
				Persistence: p,
			}
			if output.JSON && s.Output == "" {
				s.Output = "json"
			}
			return output.HandleError(s.Do(ctx))
		},
	}

	options.AddFormatArgs(cmd, fo)

	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
