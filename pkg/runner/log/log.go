package log

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/tasks/pkg/app"
	"tableflip.dev/tasks/pkg/printers"
	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/timeutil"
)

// Log prints the work sessions started inside a window ending now.
type Log struct {
	Persistence store.Persistence
	Window      string
	// Now defaults to time.Now.
	Now func() time.Time
	Out io.Writer
}

func (n *Log) Do(ctx context.Context) error {
	if n.Persistence == nil {
		return errors.New("can not show log, no persistence")
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	since, label, err := timeutil.Since(n.Window, now)
	if err != nil {
		return err
	}

	svc := app.New(n.Persistence, nil)
	report, err := svc.Report(ctx, since, now)
	if err != nil {
		return err
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Report(report, label)
	return nil
}
