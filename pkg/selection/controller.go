// Package selection implements the task selection state machine: a
// debounced loading indicator, a monotonic token that logically cancels
// superseded detail fetches, and delivery of fetch results back onto the
// Bubble Tea update loop.
//
// Every Controller method must be called from the update loop. The only
// state shared with fetch goroutines is the current token, which they read
// to find out whether they were superseded.
package selection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tasks/pkg/task"
)

// DefaultDebounce is how long a fetch may run before the indicator shows.
const DefaultDebounce = 100 * time.Millisecond

// ErrSuperseded is returned by fetches that skipped their read because a
// newer selection replaced them.
var ErrSuperseded = errors.New("selection: superseded")

// State is the phase of the current selection.
type State int

const (
	Idle State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "idle"
	}
}

// Result describes what Update did with a message.
type Result int

const (
	// ResultIgnored means the message was stale or not a selection message.
	ResultIgnored Result = iota
	// ResultIndicator means the loading indicator is now shown.
	ResultIndicator
	// ResultLoaded means the detail for the current selection arrived.
	ResultLoaded
	// ResultFailed means the current fetch failed and the selection is Idle.
	ResultFailed
)

// DebounceMsg fires once the debounce delay for Token has elapsed.
type DebounceMsg struct {
	Token uint64
}

// FetchedMsg carries the outcome of the detail fetch started for Token.
type FetchedMsg struct {
	Token uint64
	Index int
	Task  task.Task
	Err   error
}

// DetailFetcher reads a task's full detail off the update loop. superseded
// reports whether the requesting selection has been replaced.
type DetailFetcher interface {
	Fetch(ctx context.Context, id int64, superseded func() bool) (task.Task, error)
}

// FetchFunc adapts a function to DetailFetcher.
type FetchFunc func(ctx context.Context, id int64, superseded func() bool) (task.Task, error)

// Fetch calls f.
func (f FetchFunc) Fetch(ctx context.Context, id int64, superseded func() bool) (task.Task, error) {
	return f(ctx, id, superseded)
}

// Scheduler delivers msg to the update loop after d.
type Scheduler func(d time.Duration, msg tea.Msg) tea.Cmd

// Tick is the default Scheduler, backed by tea.Tick.
func Tick(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the debounce scheduler.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.schedule = s
		}
	}
}

// WithDebounce sets the indicator delay.
func WithDebounce(d time.Duration) Option {
	return func(c *Controller) { c.debounce = d }
}

// WithLogger sets the logger used for discarded results.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithContext sets the context handed to fetches.
func WithContext(ctx context.Context) Option {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// Controller owns the selection state.
type Controller struct {
	ctx      context.Context
	fetcher  DetailFetcher
	schedule Scheduler
	debounce time.Duration
	log      *slog.Logger

	token atomic.Uint64

	state   State
	index   int
	id      int64
	detail  task.Task
	loading bool
}

// New returns an Idle controller that fetches through f.
func New(f DetailFetcher, opts ...Option) *Controller {
	c := &Controller{
		ctx:      context.Background(),
		fetcher:  f,
		schedule: Tick,
		debounce: DefaultDebounce,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		index:    -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Select starts loading the task id shown at index. A negative index clears
// the selection. Either way any in-flight fetch becomes stale.
func (c *Controller) Select(index int, id int64) tea.Cmd {
	tok := c.token.Add(1)
	if index < 0 {
		c.reset()
		return nil
	}
	c.state = Loading
	c.index = index
	c.id = id
	c.detail = task.Task{}
	c.loading = false
	c.log.Debug("selection started", "index", index, "id", id, "token", tok)
	return tea.Batch(
		c.schedule(c.debounce, DebounceMsg{Token: tok}),
		c.fetch(tok, index, id),
	)
}

// Adopt selects index with an already known detail, skipping the fetch.
func (c *Controller) Adopt(index int, t task.Task) {
	tok := c.token.Add(1)
	if index < 0 {
		c.reset()
		return
	}
	c.state = Loaded
	c.index = index
	c.id = t.ID
	c.detail = t
	c.loading = false
	c.log.Debug("selection adopted", "index", index, "id", t.ID, "token", tok)
}

// Clear drops the selection.
func (c *Controller) Clear() {
	c.token.Add(1)
	c.reset()
}

// Patch replaces the loaded detail when it is the same task.
func (c *Controller) Patch(t task.Task) {
	if c.state == Loaded && c.id == t.ID {
		c.detail = t
	}
}

// Update applies a DebounceMsg or FetchedMsg. Messages minted for anything
// but the current token are ignored.
func (c *Controller) Update(msg tea.Msg) (Result, error) {
	switch msg := msg.(type) {
	case DebounceMsg:
		if msg.Token != c.token.Load() || c.state != Loading {
			return ResultIgnored, nil
		}
		c.loading = true
		return ResultIndicator, nil
	case FetchedMsg:
		if msg.Token != c.token.Load() || c.state != Loading {
			c.log.Debug("stale fetch discarded", "token", msg.Token, "current", c.token.Load(), "err", msg.Err)
			return ResultIgnored, nil
		}
		if msg.Err != nil {
			c.reset()
			return ResultFailed, msg.Err
		}
		c.state = Loaded
		c.detail = msg.Task
		c.loading = false
		return ResultLoaded, nil
	default:
		return ResultIgnored, nil
	}
}

// State is the current phase.
func (c *Controller) State() State { return c.state }

// Index is the selected row, -1 when Idle.
func (c *Controller) Index() int { return c.index }

// Token is the current generation.
func (c *Controller) Token() uint64 { return c.token.Load() }

// Loading reports whether the loading indicator is shown.
func (c *Controller) Loading() bool { return c.loading }

// SelectedID is the id of the selected task while Loading or Loaded.
func (c *Controller) SelectedID() (int64, bool) {
	if c.state == Idle {
		return 0, false
	}
	return c.id, true
}

// Detail is the loaded task. ok is false unless the state is Loaded.
func (c *Controller) Detail() (task.Task, bool) {
	if c.state != Loaded {
		return task.Task{}, false
	}
	return c.detail, true
}

func (c *Controller) reset() {
	c.state = Idle
	c.index = -1
	c.id = 0
	c.detail = task.Task{}
	c.loading = false
}

func (c *Controller) fetch(tok uint64, index int, id int64) tea.Cmd {
	ctx := c.ctx
	f := c.fetcher
	token := &c.token
	superseded := func() bool { return token.Load() != tok }
	return func() tea.Msg {
		t, err := f.Fetch(ctx, id, superseded)
		return FetchedMsg{Token: tok, Index: index, Task: t, Err: err}
	}
}
