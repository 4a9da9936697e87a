package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where tasks are stored.",
		Example: `
tasks info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			p, cfg, err := open(ctx)
			if err != nil {
				return output.HandleError(err)
			}
			defer func() { _ = p.Close() }()
			s := info.Info{
				Config:      cfg,
				Persistence: p,
			}
			return output.HandleError(s.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
