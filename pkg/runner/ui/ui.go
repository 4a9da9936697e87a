package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"tableflip.dev/tasks/pkg/app"
	"tableflip.dev/tasks/pkg/selection"
	"tableflip.dev/tasks/pkg/store"
	teaui "tableflip.dev/tasks/pkg/tui/app"
)

// ErrNotTerminal is returned when stdout cannot host the interactive UI.
var ErrNotTerminal = errors.New("ui: stdout is not a terminal")

// UI runs the interactive task tracker.
type UI struct {
	Config      store.Config
	Persistence *store.DB
}

func (d *UI) Do(ctx context.Context) error {
	if fd := os.Stdout.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}

	logger, closeLog, err := NewLogger(d.Config.LogFile())
	if err != nil {
		return err
	}
	defer closeLog()

	reader, err := store.OpenReader(d.Config.Path())
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	fetcher := selection.NewFetcher(reader, d.Config.FetchLatency(), d.Config.FetchWorkers())
	sel := selection.New(fetcher,
		selection.WithDebounce(d.Config.Debounce()),
		selection.WithLogger(logger),
		selection.WithContext(ctx),
	)
	svc := app.New(d.Persistence, sel, app.WithLogger(logger))
	if err := svc.Load(ctx); err != nil {
		return err
	}
	logger.Info("ui started", "path", d.Config.Path(), "tasks", len(svc.Rows()), "order", svc.Order().String())
	return teaui.Run(ctx, svc)
}

// NewLogger returns a text logger appending to path, or a discarding logger
// when path is empty. The terminal belongs to the UI while it runs.
func NewLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { _ = f.Close() }, nil
}
