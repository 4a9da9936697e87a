package selection

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/tasks/pkg/task"
)

// immediate delivers the scheduled message as soon as the cmd runs, so a
// test decides the delivery order itself.
func immediate(_ time.Duration, msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// run executes cmd and every cmd it batches, returning the messages.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// split separates the debounce message from the fetch result.
func split(t *testing.T, msgs []tea.Msg) (DebounceMsg, FetchedMsg) {
	t.Helper()
	var (
		d    DebounceMsg
		f    FetchedMsg
		gotD bool
		gotF bool
	)
	for _, m := range msgs {
		switch m := m.(type) {
		case DebounceMsg:
			d, gotD = m, true
		case FetchedMsg:
			f, gotF = m, true
		}
	}
	if !gotD || !gotF {
		t.Fatalf("expected a debounce and a fetch message, got %#v", msgs)
	}
	return d, f
}

// byID answers every fetch with a task titled after its id, ignoring
// supersession so stale results actually reach Update.
var byID = FetchFunc(func(_ context.Context, id int64, _ func() bool) (task.Task, error) {
	return task.Task{ID: id, Title: fmt.Sprintf("task %d", id)}, nil
})

func TestSelectLatestWinsUnderAnyCompletionOrder(t *testing.T) {
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	for _, order := range orders {
		c := New(byID, WithScheduler(immediate))
		var fetched []FetchedMsg
		for i, id := range []int64{10, 20, 30} {
			_, f := split(t, run(c.Select(i, id)))
			fetched = append(fetched, f)
		}
		for _, i := range order {
			c.Update(fetched[i])
		}
		got, ok := c.Detail()
		if !ok || got.ID != 30 {
			t.Fatalf("order %v: expected task 30 loaded, got %+v ok=%v", order, got, ok)
		}
		if c.Index() != 2 {
			t.Fatalf("order %v: expected index 2, got %d", order, c.Index())
		}
		if c.Loading() {
			t.Fatalf("order %v: indicator left on", order)
		}
	}
}

func TestFastFetchNeverShowsIndicator(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	d, f := split(t, run(c.Select(0, 1)))

	if res, _ := c.Update(f); res != ResultLoaded {
		t.Fatalf("expected loaded, got %v", res)
	}
	if res, _ := c.Update(d); res != ResultIgnored {
		t.Fatalf("late debounce should be ignored, got %v", res)
	}
	if c.Loading() {
		t.Fatal("indicator shown for a fetch that beat the debounce")
	}
}

func TestSlowFetchShowsThenHidesIndicator(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	d, f := split(t, run(c.Select(0, 1)))

	if res, _ := c.Update(d); res != ResultIndicator {
		t.Fatalf("expected indicator, got %v", res)
	}
	if !c.Loading() || c.State() != Loading {
		t.Fatalf("expected loading state with indicator, got %v %v", c.State(), c.Loading())
	}
	if _, ok := c.Detail(); ok {
		t.Fatal("detail should not be available while loading")
	}
	c.Update(f)
	if c.Loading() || c.State() != Loaded {
		t.Fatalf("expected loaded without indicator, got %v %v", c.State(), c.Loading())
	}
}

func TestStaleDebounceIgnored(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	oldD, _ := split(t, run(c.Select(0, 1)))
	_, f := split(t, run(c.Select(1, 2)))

	if res, _ := c.Update(oldD); res != ResultIgnored || c.Loading() {
		t.Fatalf("stale debounce raised the indicator: %v", res)
	}
	c.Update(f)
	if got, _ := c.Detail(); got.ID != 2 {
		t.Fatalf("expected task 2, got %+v", got)
	}
}

func TestSchedulerReceivesDebounce(t *testing.T) {
	var delays []time.Duration
	sched := func(d time.Duration, msg tea.Msg) tea.Cmd {
		delays = append(delays, d)
		return immediate(d, msg)
	}
	c := New(byID, WithScheduler(sched), WithDebounce(42*time.Millisecond))
	run(c.Select(0, 1))
	if len(delays) != 1 || delays[0] != 42*time.Millisecond {
		t.Fatalf("expected one 42ms debounce, got %v", delays)
	}
}

func TestCurrentFailureRevertsToIdle(t *testing.T) {
	boom := errors.New("boom")
	f := FetchFunc(func(context.Context, int64, func() bool) (task.Task, error) {
		return task.Task{}, boom
	})
	c := New(f, WithScheduler(immediate))
	d, fetched := split(t, run(c.Select(0, 1)))
	c.Update(d)

	res, err := c.Update(fetched)
	if res != ResultFailed || !errors.Is(err, boom) {
		t.Fatalf("expected failure with boom, got %v %v", res, err)
	}
	if c.State() != Idle || c.Loading() || c.Index() != -1 {
		t.Fatalf("expected idle after failure, got %v loading=%v index=%d", c.State(), c.Loading(), c.Index())
	}
	if _, ok := c.SelectedID(); ok {
		t.Fatal("no task should be selected after failure")
	}
}

func TestStaleFailureIgnored(t *testing.T) {
	boom := errors.New("boom")
	f := FetchFunc(func(_ context.Context, id int64, _ func() bool) (task.Task, error) {
		if id == 1 {
			return task.Task{}, boom
		}
		return task.Task{ID: id}, nil
	})
	c := New(f, WithScheduler(immediate))
	_, first := split(t, run(c.Select(0, 1)))
	_, second := split(t, run(c.Select(1, 2)))
	c.Update(second)

	if res, err := c.Update(first); res != ResultIgnored || err != nil {
		t.Fatalf("stale failure should be ignored, got %v %v", res, err)
	}
	if got, ok := c.Detail(); !ok || got.ID != 2 {
		t.Fatalf("expected task 2 to stay loaded, got %+v %v", got, ok)
	}
}

func TestNegativeIndexClearsAndInvalidates(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	_, f := split(t, run(c.Select(0, 1)))
	if cmd := c.Select(-1, 0); cmd != nil {
		t.Fatal("clearing should not start a fetch")
	}
	if res, _ := c.Update(f); res != ResultIgnored {
		t.Fatalf("in-flight result after clear should be ignored, got %v", res)
	}
	if c.State() != Idle {
		t.Fatalf("expected idle, got %v", c.State())
	}
}

func TestAdoptInvalidatesInFlight(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	d, f := split(t, run(c.Select(0, 1)))
	c.Adopt(3, task.Task{ID: 7, Title: "adopted"})

	c.Update(d)
	c.Update(f)
	got, ok := c.Detail()
	if !ok || got.ID != 7 || c.Index() != 3 || c.Loading() {
		t.Fatalf("expected adopted task to survive, got %+v index=%d loading=%v", got, c.Index(), c.Loading())
	}
}

func TestClearDropsSelection(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	c.Adopt(0, task.Task{ID: 1})
	before := c.Token()
	c.Clear()
	if c.Token() <= before {
		t.Fatal("clear should advance the token")
	}
	if c.State() != Idle || c.Index() != -1 {
		t.Fatalf("expected idle, got %v %d", c.State(), c.Index())
	}
}

func TestPatchOnlyMatchingLoadedTask(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	c.Adopt(0, task.Task{ID: 1, Title: "old"})

	c.Patch(task.Task{ID: 2, Title: "other"})
	if got, _ := c.Detail(); got.Title != "old" {
		t.Fatalf("patch of another task applied: %+v", got)
	}
	c.Patch(task.Task{ID: 1, Title: "new"})
	if got, _ := c.Detail(); got.Title != "new" {
		t.Fatalf("patch not applied: %+v", got)
	}
}

func TestTokenIsMonotonic(t *testing.T) {
	c := New(byID, WithScheduler(immediate))
	last := c.Token()
	steps := []func(){
		func() { c.Select(0, 1) },
		func() { c.Adopt(0, task.Task{ID: 1}) },
		func() { c.Clear() },
		func() { c.Select(-1, 0) },
		func() { c.Select(1, 2) },
	}
	for i, step := range steps {
		step()
		if c.Token() <= last {
			t.Fatalf("step %d: token did not advance from %d", i, last)
		}
		last = c.Token()
	}
}

func TestFetchSeesSupersession(t *testing.T) {
	var got []bool
	f := FetchFunc(func(_ context.Context, id int64, superseded func() bool) (task.Task, error) {
		got = append(got, superseded())
		return task.Task{ID: id}, nil
	})
	c := New(f, WithScheduler(func(time.Duration, tea.Msg) tea.Cmd { return nil }))
	first := c.Select(0, 1)
	second := c.Select(1, 2)
	run(first)
	run(second)
	if len(got) != 2 || !got[0] || got[1] {
		t.Fatalf("expected first superseded and second current, got %v", got)
	}
}
