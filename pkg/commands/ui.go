package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/tasks/pkg/runner/ui"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
tasks ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, cfg, err := open(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = p.Close() }()
			i := ui.UI{Config: cfg, Persistence: p}
			return i.Do(ctx)
		},
	}

	topLevel.AddCommand(cmd)
}
