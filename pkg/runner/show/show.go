package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
)

// Show prints the full detail of one task.
type Show struct {
	ID int64
	// Output is "", "json" or "yaml".
	Output string

	Persistence store.Persistence
	Out         io.Writer
}

func (n *Show) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not show, no persistence")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}

	t, err := n.Persistence.TaskDetail(ctx, n.ID)
	if err != nil {
		return err
	}

	switch n.Output {
	case "json":
		b, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
	case "yaml":
		b, err := yaml.Marshal(t)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, string(b))
	case "":
		pp := printers.PrettyPrint{Out: out}
		pp.Detail(t)
	default:
		return fmt.Errorf("unknown output format %q, expected json or yaml", n.Output)
	}
	return nil
}
