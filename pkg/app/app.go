package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tasks/pkg/selection"
	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/task"
	"tableflip.dev/tasks/pkg/tasklist"
)

var (
	ErrNoSelection = errors.New("app: no task selected")
	ErrEmptyTitle  = errors.New("app: title must not be blank")
	// ErrIndexOutOfRange is the list model's sentinel so errors.Is works
	// against either package.
	ErrIndexOutOfRange = tasklist.ErrIndexOutOfRange
)

// Pane is what the detail pane should show right now.
type Pane struct {
	Visible bool
	Loading bool
	Index   int
	Task    task.Task
	// Version increments whenever any other field changes.
	Version uint64
}

// Service coordinates every user intent against the store, the list model
// and the selection. It is owned by the UI loop; nothing here is safe for
// concurrent use.
type Service struct {
	Persistence store.Persistence

	list  *tasklist.Model
	sel   *selection.Controller
	tasks []task.Task
	order task.Order
	pane  Pane
	log   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger for discarded fetches and write failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Service over p that loads details through sel. A nil sel
// reads details straight from p.
func New(p store.Persistence, sel *selection.Controller, opts ...Option) *Service {
	if sel == nil {
		sel = selection.New(selection.FetchFunc(func(ctx context.Context, id int64, _ func() bool) (task.Task, error) {
			return p.TaskDetail(ctx, id)
		}))
	}
	s := &Service{
		Persistence: p,
		list:        tasklist.New(nil),
		sel:         sel,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		pane:        Pane{Index: -1},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted order and every task, leaving nothing selected.
func (s *Service) Load(ctx context.Context) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	order, err := s.Persistence.SortOrder(ctx)
	if err != nil {
		return err
	}
	tasks, err := s.Persistence.ListTasks(ctx, order)
	if err != nil {
		return err
	}
	s.order = order
	s.setTasks(tasks)
	s.sel.Clear()
	s.sync()
	return nil
}

// SelectTask selects the row at index and returns the commands loading its
// detail. A negative index clears the selection; an index past the end is
// ignored.
func (s *Service) SelectTask(index int) tea.Cmd {
	if index >= s.list.Len() {
		return nil
	}
	if index < 0 {
		s.sel.Clear()
		s.sync()
		return nil
	}
	row, _ := s.list.Row(index)
	cmd := s.sel.Select(index, row.ID)
	s.sync()
	return cmd
}

// Handle applies selection messages. handled is false for any other message.
// A failed fetch for the current selection is returned unless the task no
// longer exists.
func (s *Service) Handle(msg tea.Msg) (bool, error) {
	switch msg.(type) {
	case selection.DebounceMsg, selection.FetchedMsg:
	default:
		return false, nil
	}
	res, err := s.sel.Update(msg)
	switch res {
	case selection.ResultLoaded:
		if t, ok := s.sel.Detail(); ok {
			if idx := s.sel.Index(); idx >= 0 && idx < len(s.tasks) && s.tasks[idx].ID == t.ID {
				// The fetch read its own handle; a current mark set on this
				// loop while it was in flight is newer.
				t.IsCurrent = s.tasks[idx].IsCurrent
				s.tasks[idx] = t
				s.sel.Patch(t)
			}
		}
	case selection.ResultFailed:
		s.log.Warn("detail fetch failed", "err", err)
		if errors.Is(err, store.ErrNotFound) {
			err = nil
		}
	}
	s.sync()
	return true, err
}

// ChangeSortOrder persists order and reorders the list. The selected task
// stays selected wherever it lands.
func (s *Service) ChangeSortOrder(ctx context.Context, order task.Order) error {
	tasks, err := s.Persistence.ListTasks(ctx, order)
	if err != nil {
		return err
	}
	if err := s.Persistence.SaveSortOrder(ctx, order); err != nil {
		return err
	}
	id, selected := s.sel.SelectedID()
	s.order = order
	s.setTasks(tasks)
	if selected {
		s.reselect(id)
	}
	s.sync()
	return nil
}

// SaveDetail writes fields to the loaded task and mirrors them in memory.
func (s *Service) SaveDetail(ctx context.Context, fields task.Fields) error {
	cur, ok := s.sel.Detail()
	if !ok {
		return ErrNoSelection
	}
	idx := s.sel.Index()
	if idx < 0 || idx >= len(s.tasks) || s.tasks[idx].ID != cur.ID {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, idx)
	}
	if strings.TrimSpace(fields.Title) == "" {
		return ErrEmptyTitle
	}
	if err := s.Persistence.UpdateTaskDetail(ctx, cur.ID, fields); err != nil {
		return err
	}
	updated := s.tasks[idx]
	updated.Apply(fields)
	s.tasks[idx] = updated
	if err := s.list.PatchRow(idx, task.Summarize(updated)); err != nil {
		return err
	}
	s.sel.Patch(updated)
	s.sync()
	return nil
}

// SetCurrent marks the selected task current and logs a work session.
func (s *Service) SetCurrent(ctx context.Context) error {
	id, ok := s.sel.SelectedID()
	if !ok {
		return ErrNoSelection
	}
	if err := s.Persistence.SetCurrentTask(ctx, id); err != nil {
		return err
	}
	for i := range s.tasks {
		s.tasks[i].IsCurrent = s.tasks[i].ID == id
		if err := s.list.PatchRow(i, task.Summarize(s.tasks[i])); err != nil {
			return err
		}
	}
	if d, ok := s.sel.Detail(); ok {
		d.IsCurrent = true
		s.sel.Patch(d)
	}
	s.sync()
	return nil
}

// AddTask inserts title and selects the new task. added is false for blank
// titles, which change nothing.
func (s *Service) AddTask(ctx context.Context, title string) (bool, error) {
	id, added, err := s.Persistence.AddTask(ctx, title)
	if err != nil || !added {
		return false, err
	}
	tasks, err := s.Persistence.ListTasks(ctx, s.order)
	if err != nil {
		// The row is stored either way; mirror it until the next reload.
		s.setTasks(s.insert(ctx, id, title))
		s.reselect(id)
		s.sync()
		return true, err
	}
	s.setTasks(tasks)
	s.reselect(id)
	s.sync()
	return true, nil
}

// insert returns the in-memory tasks with the new task id placed where the
// active order puts it. The detail is read back when possible.
func (s *Service) insert(ctx context.Context, id int64, title string) []task.Task {
	t, err := s.Persistence.TaskDetail(ctx, id)
	if err != nil {
		t = task.Task{ID: id, Title: strings.TrimSpace(title), Created: time.Now()}
	}
	pos := 0
	if s.order == task.ByTitle {
		key := strings.ToLower(t.Title)
		for pos < len(s.tasks) && strings.ToLower(s.tasks[pos].Title) <= key {
			pos++
		}
	}
	out := make([]task.Task, 0, len(s.tasks)+1)
	out = append(out, s.tasks[:pos]...)
	out = append(out, t)
	return append(out, s.tasks[pos:]...)
}

// Rows returns the list rows in display order.
func (s *Service) Rows() []task.Summary {
	return s.list.Rows()
}

// Order is the active sort order.
func (s *Service) Order() task.Order {
	return s.order
}

// Pane returns the current detail pane snapshot.
func (s *Service) Pane() Pane {
	return s.pane
}

// HasTasks reports whether the list has any rows.
func (s *Service) HasTasks() bool {
	return s.list.Len() > 0
}

func (s *Service) setTasks(tasks []task.Task) {
	s.tasks = append([]task.Task(nil), tasks...)
	s.list.Replace(task.Summaries(s.tasks))
}

// reselect adopts the in-memory copy of id, or clears when it is gone.
func (s *Service) reselect(id int64) {
	idx, ok := s.list.IndexOf(id)
	if !ok {
		s.sel.Clear()
		return
	}
	s.sel.Adopt(idx, s.tasks[idx])
}

func (s *Service) sync() {
	next := Pane{
		Index:   s.sel.Index(),
		Loading: s.sel.Loading(),
		Version: s.pane.Version,
	}
	if t, ok := s.sel.Detail(); ok {
		next.Visible = true
		next.Task = t
	}
	if next != s.pane {
		next.Version++
		s.pane = next
	}
}
