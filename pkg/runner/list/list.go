package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/task"
)

// List prints every task in the requested or persisted order.
type List struct {
	Persistence store.Persistence
	// Order overrides the persisted order when set.
	Order  *task.Order
	ShowID bool
	JSON   bool
	Out    io.Writer
}

func (n *List) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not list, no persistence")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	order, err := n.Persistence.SortOrder(ctx)
	if err != nil {
		return err
	}
	if n.Order != nil {
		order = *n.Order
	}
	tasks, err := n.Persistence.ListTasks(ctx, order)
	if err != nil {
		return err
	}

	if n.JSON {
		if tasks == nil {
			tasks = []task.Task{}
		}
		b, err := json.MarshalIndent(tasks, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID, Out: out}
	pp.TitleWithCount(fmt.Sprintf("Tasks by %s", order), len(tasks), "task")
	pp.Tasks(tasks...)
	return nil
}
