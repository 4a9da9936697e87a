package options

import (
	"fmt"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/tasks/pkg/task"
)

// SortOptions
type SortOptions struct {
	Sort string
}

func AddSortArgs(cmd *cobra.Command, o *SortOptions) {
	cmd.Flags().StringVar(&o.Sort, "sort", "",
		base.Wrap80(`Order to use instead of the saved one. One of "title" or "created".`))
}

// GetOrder returns nil when no order was requested.
func (o *SortOptions) GetOrder() (*task.Order, error) {
	if o.Sort == "" {
		return nil, nil
	}
	return ParseOrder(o.Sort)
}

// ParseOrder resolves an order name such as "title" or "created".
func ParseOrder(name string) (*task.Order, error) {
	order, ok := task.OrderFromName(name)
	if !ok {
		return nil, fmt.Errorf("unknown sort order %q, expected title or created", name)
	}
	return &order, nil
}
