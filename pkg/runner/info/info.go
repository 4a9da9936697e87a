package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"tableflip.dev/tasks/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("TASKS_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "TASKS_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "TASKS_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path: ", n.Config.Path())
	_, _ = fmt.Fprintln(out, "Config.fetch_latency: ", n.Config.FetchLatency())
	_, _ = fmt.Fprintln(out, "Config.debounce: ", n.Config.Debounce())
	_, _ = fmt.Fprintln(out, "Config.fetch_workers: ", n.Config.FetchWorkers())
	if n.Config.LogFile() != "" {
		_, _ = fmt.Fprintln(out, "Config.log_file: ", n.Config.LogFile())
	}

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	order, err := n.Persistence.SortOrder(ctx)
	if err != nil {
		return err
	}
	tasks, err := n.Persistence.ListTasks(ctx, order)
	if err != nil {
		return err
	}
	current := "none"
	for _, t := range tasks {
		if t.IsCurrent {
			current = t.Title
		}
	}
	_, _ = fmt.Fprintf(out, "Tasks: %d (sorted by %s)\n", len(tasks), order)
	_, _ = fmt.Fprintf(out, "Current: %s\n", current)
	return nil
}
