package current

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
)

// Current marks a task current, which starts a work session.
type Current struct {
	ID int64

	Persistence store.Persistence
	Out         io.Writer
}

func (n *Current) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not set current, no persistence")
	}
	if err := n.Persistence.SetCurrentTask(ctx, n.ID); err != nil {
		return err
	}
	t, err := n.Persistence.TaskDetail(ctx, n.ID)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Title(fmt.Sprintf("Working on %q", t.Title))
	return nil
}
