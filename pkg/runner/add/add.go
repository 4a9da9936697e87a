package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
)

type Add struct {
	Title string

	Persistence store.Persistence
	Out         io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not add, no persistence")
	}
	pp := printers.PrettyPrint{ShowID: true, Out: n.Out}

	id, added, err := n.Persistence.AddTask(ctx, n.Title)
	if err != nil {
		return err
	}
	if !added {
		pp.Note("nothing to add, the title is blank")
		return nil
	}
	t, err := n.Persistence.TaskDetail(ctx, id)
	if err != nil {
		return err
	}
	pp.Title("Added")
	pp.Tasks(t)
	return nil
}
