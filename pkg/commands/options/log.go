package options

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tasks/pkg/timeutil"
)

// LogOptions
type LogOptions struct {
	Window string
}

func AddLogArgs(cmd *cobra.Command, o *LogOptions) {
	cmd.Flags().StringVarP(&o.Window, "window", "w", timeutil.DefaultWindow,
		base.Wrap80(`How far back to look, example: --window=1w2d or --window=6h.`))
}
