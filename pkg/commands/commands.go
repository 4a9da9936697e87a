package commands

import (
	"context"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tasks/pkg/commands/options"
	"tableflip.dev/tasks/pkg/store"
)

var (
	output = &options.OutputOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: base.Wrap80("Track what you are working on, from the terminal."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addAdd(topLevel)
	addShow(topLevel)
	addCurrent(topLevel)
	addSort(topLevel)
	addLog(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// open loads the config and an initialized store; the caller closes it.
func open(ctx context.Context) (*store.DB, store.Config, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Load(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return db, cfg, nil
}
