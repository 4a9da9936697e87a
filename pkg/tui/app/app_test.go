package teaui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/muesli/reflow/ansi"

	"tableflip.dev/tasks/pkg/app"
	"tableflip.dev/tasks/pkg/selection"
	"tableflip.dev/tasks/pkg/store"
	"tableflip.dev/tasks/pkg/task"
)

func stripANSI(s string) string {
	var b strings.Builder
	ansiSeq := false
	for _, r := range s {
		if r == ansi.Marker {
			ansiSeq = true
			continue
		}
		if ansiSeq {
			if ansi.IsTerminator(r) {
				ansiSeq = false
			}
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newTestModel(t *testing.T) (*Model, *store.DB) {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Initialize(ctx); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	fetch := selection.FetchFunc(func(ctx context.Context, id int64, _ func() bool) (task.Task, error) {
		return db.TaskDetail(ctx, id)
	})
	immediate := func(_ time.Duration, msg tea.Msg) tea.Cmd {
		return func() tea.Msg { return msg }
	}
	svc := app.New(db, selection.New(fetch, selection.WithScheduler(immediate)))
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	m := New(ctx, svc)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, db
}

// selectionMsgs runs cmd and keeps only the selection messages it yields,
// leaving cursor blink commands unrun.
func selectionMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	switch msg := msg.(type) {
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, selectionMsgs(c)...)
		}
		return out
	case selection.DebounceMsg, selection.FetchedMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func press(m *Model, msg tea.KeyPressMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

// navigate presses a selection key and delivers everything it starts.
func navigate(m *Model, msg tea.KeyPressMsg) {
	for _, sm := range selectionMsgs(press(m, msg)) {
		m.Update(sm)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

var (
	keyDown  = tea.KeyPressMsg{Code: tea.KeyDown}
	keyEsc   = tea.KeyPressMsg{Code: tea.KeyEscape}
	keyTab   = tea.KeyPressMsg{Code: tea.KeyTab}
	keyEnter = tea.KeyPressMsg{Code: tea.KeyEnter}
	keySave  = tea.KeyPressMsg{Code: 's', Mod: tea.ModCtrl}
)

func TestViewShowsSampleTaskAfterSelect(t *testing.T) {
	m, _ := newTestModel(t)
	view := stripANSI(m.View())
	if !strings.Contains(view, task.SampleTitle) || !strings.Contains(view, "No task selected") {
		t.Fatalf("expected list with sample task and empty pane; view=%q", view)
	}

	navigate(m, keyDown)
	view = stripANSI(m.View())
	if !strings.Contains(view, "▸") || strings.Contains(view, "No task selected") {
		t.Fatalf("expected sample task selected; view=%q", view)
	}
	if strings.Contains(view, "Loading") {
		t.Fatalf("indicator left on after load; view=%q", view)
	}
	if !strings.Contains(view, "Created") {
		t.Fatalf("expected detail fields; view=%q", view)
	}
}

func TestViewShowsIndicatorForSlowFetch(t *testing.T) {
	m, _ := newTestModel(t)
	msgs := selectionMsgs(press(m, keyDown))
	var fetched tea.Msg
	for _, msg := range msgs {
		if _, ok := msg.(selection.DebounceMsg); ok {
			m.Update(msg)
		} else {
			fetched = msg
		}
	}
	if view := stripANSI(m.View()); !strings.Contains(view, "Loading…") {
		t.Fatalf("expected loading indicator; view=%q", view)
	}
	m.Update(fetched)
	if view := stripANSI(m.View()); strings.Contains(view, "Loading…") {
		t.Fatalf("indicator should hide once loaded; view=%q", view)
	}
}

func TestAddTaskFromInput(t *testing.T) {
	m, db := newTestModel(t)
	press(m, tea.KeyPressMsg{Code: 'n', Text: "n"})
	if m.mode != modeAdd {
		t.Fatalf("expected add mode, got %v", m.mode)
	}
	typeText(m, "Fix bug")
	press(m, keyEnter)

	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after add, got %v", m.mode)
	}
	tasks, err := db.ListTasks(context.Background(), task.ByTitle)
	if err != nil || len(tasks) != 2 {
		t.Fatalf("expected two stored tasks, got %d %v", len(tasks), err)
	}
	if got := m.fields[fieldTitle].Value(); got != "Fix bug" {
		t.Fatalf("expected new task in the form, got %q", got)
	}
	if !strings.Contains(stripANSI(m.View()), `Added "Fix bug"`) {
		t.Fatal("expected add status")
	}
}

func TestEditAndSave(t *testing.T) {
	ctx := context.Background()
	m, db := newTestModel(t)
	navigate(m, keyDown)
	id := m.svc.Pane().Task.ID

	press(m, keyTab)
	if m.mode != modeEdit {
		t.Fatalf("expected edit mode, got %v", m.mode)
	}
	typeText(m, "!")
	press(m, keyTab)
	typeText(m, "t-9")
	press(m, keySave)

	if m.mode != modeNormal {
		t.Fatalf("expected normal mode after save, status %q", m.status)
	}
	got, err := db.TaskDetail(ctx, id)
	if err != nil {
		t.Fatalf("detail: %v", err)
	}
	if got.Title != task.SampleTitle+"!" || got.TrackerURL != "t-9" {
		t.Fatalf("unexpected saved task %+v", got)
	}
	if rows := m.svc.Rows(); rows[0].Title != task.SampleTitle+"!" {
		t.Fatalf("row not updated: %+v", rows[0])
	}
}

func TestEditCancelRestoresForm(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, keyDown)
	press(m, keyTab)
	typeText(m, "xyz")
	press(m, keyEsc)
	if m.mode != modeNormal || m.fields[fieldTitle].Value() != task.SampleTitle {
		t.Fatalf("expected original title after cancel, got %q", m.fields[fieldTitle].Value())
	}
}

func TestSaveBlankTitleShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, keyDown)
	press(m, keyTab)
	m.fields[fieldTitle].SetValue("   ")
	press(m, keySave)
	if m.mode != modeEdit || !m.statusErr {
		t.Fatalf("expected to stay editing with an error, got mode %v status %q", m.mode, m.status)
	}
	if !strings.Contains(stripANSI(m.View()), "ERR: title must not be blank") {
		t.Fatal("expected blank title error in status line")
	}
}

func TestTabWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t)
	press(m, keyTab)
	if m.mode != modeNormal {
		t.Fatalf("edit should need a loaded task, got mode %v", m.mode)
	}
}

func TestSortToggleAndCurrent(t *testing.T) {
	ctx := context.Background()
	m, db := newTestModel(t)
	press(m, tea.KeyPressMsg{Code: 's', Text: "s"})
	if m.svc.Order() != task.ByCreatedDesc {
		t.Fatalf("expected created order, got %v", m.svc.Order())
	}
	if !strings.Contains(stripANSI(m.View()), "by created") {
		t.Fatal("expected list header to show the order")
	}

	press(m, tea.KeyPressMsg{Code: 'c', Text: "c"})
	if !m.statusErr {
		t.Fatal("setting current without a selection should report an error")
	}

	navigate(m, keyDown)
	press(m, tea.KeyPressMsg{Code: 'c', Text: "c"})
	tasks, err := db.ListTasks(ctx, task.ByTitle)
	if err != nil || !tasks[0].IsCurrent {
		t.Fatalf("expected stored current task, got %+v %v", tasks, err)
	}
	if !strings.Contains(stripANSI(m.View()), "★") {
		t.Fatal("expected current marker in the list")
	}
}

func TestEscDeselects(t *testing.T) {
	m, _ := newTestModel(t)
	navigate(m, keyDown)
	press(m, keyEsc)
	if m.svc.Pane().Index != -1 {
		t.Fatalf("expected no selection, got %+v", m.svc.Pane())
	}
	if !strings.Contains(stripANSI(m.View()), "No task selected") {
		t.Fatal("expected empty pane after deselect")
	}
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	cmd := press(m, tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected QuitMsg")
	}
}
