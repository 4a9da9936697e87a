package sort

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/task"
)

// Sort persists the order the UI and list use.
type Sort struct {
	Order task.Order

	Persistence store.Persistence
	Out         io.Writer
}

func (n *Sort) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not sort, no persistence")
	}
	if err := n.Persistence.SaveSortOrder(ctx, n.Order); err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Note(fmt.Sprintf("tasks are now sorted by %s", n.Order))
	return nil
}
