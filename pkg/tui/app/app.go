package teaui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/tasks/pkg/app"
	"tableflip.dev/tasks/pkg/task"
	"tableflip.dev/tasks/pkg/tui/theme"
)

type mode int

const (
	modeNormal mode = iota
	modeEdit
	modeAdd
)

const (
	fieldTitle = iota
	fieldTracker
	fieldBranch
	fieldReview
	fieldCommit
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Tracker", "Branch", "Review", "Commit", "Notes"}

const (
	helpNormal = "j/k move · esc deselect · s sort · tab edit · c current · n new · q quit"
	helpEdit   = "tab/shift+tab field · ctrl+s save · esc cancel"
	helpAdd    = "enter add · esc cancel"
)

// Model is the root Bubble Tea model.
type Model struct {
	svc  *app.Service
	ctx  context.Context
	th   theme.Theme
	mode mode

	fields [fieldCount]textinput.Model
	field  int
	// formVersion is the pane version the form was last filled from.
	formVersion uint64
	formReady   bool
	formTask    int64

	input textinput.Model

	status    string
	statusErr bool

	termWidth  int
	termHeight int
}

// New creates the UI over a loaded Service.
func New(ctx context.Context, svc *app.Service) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := &Model{
		svc:    svc,
		ctx:    ctx,
		th:     theme.Default(),
		mode:   modeNormal,
		input:  newInput("New task title"),
		status: "Ready",
	}
	for i := range m.fields {
		m.fields[i] = newInput(fieldLabels[i])
	}
	m.syncForm()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	ti.Styles.Cursor.Shape = tea.CursorBlock
	return ti
}

// Init has nothing to load; the Service is loaded before the program starts.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and keybindings.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handled, err := m.svc.Handle(msg); handled {
		if err != nil {
			m.setError(err)
		}
		m.syncForm()
		return m, nil
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case tea.KeyPressMsg:
		switch m.mode {
		case modeEdit:
			cmd = m.handleEditKey(msg)
		case modeAdd:
			cmd = m.handleAddKey(msg)
		default:
			cmd = m.handleNormalKey(msg)
		}
	}
	m.syncForm()
	return m, cmd
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		return m.move(-1)
	case "down", "j":
		return m.move(1)
	case "esc":
		return m.svc.SelectTask(-1)
	case "s":
		order := m.svc.Order().Toggle()
		if err := m.svc.ChangeSortOrder(m.ctx, order); err != nil {
			m.setError(err)
			return nil
		}
		m.setStatus(fmt.Sprintf("Sorted by %s", order))
	case "c":
		if err := m.svc.SetCurrent(m.ctx); err != nil {
			m.setError(err)
			return nil
		}
		m.setStatus("Current task set")
	case "tab", "enter":
		if !m.svc.Pane().Visible {
			m.setStatus("Select a loaded task to edit")
			return nil
		}
		m.mode = modeEdit
		return m.focusField(fieldTitle)
	case "n":
		m.mode = modeAdd
		m.input.SetValue("")
		return m.input.Focus()
	}
	return nil
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.leaveEdit()
		m.resetForm()
		m.setStatus("Edit cancelled")
		return nil
	case "tab", "down":
		return m.focusField((m.field + 1) % fieldCount)
	case "shift+tab", "up":
		return m.focusField((m.field + fieldCount - 1) % fieldCount)
	case "ctrl+s":
		if err := m.svc.SaveDetail(m.ctx, m.formFields()); err != nil {
			m.setError(err)
			return nil
		}
		m.leaveEdit()
		m.setStatus("Saved")
		return nil
	}
	var cmd tea.Cmd
	m.fields[m.field], cmd = m.fields[m.field].Update(msg)
	return cmd
}

func (m *Model) handleAddKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		m.leaveAdd()
		return nil
	case "enter":
		title := m.input.Value()
		m.leaveAdd()
		added, err := m.svc.AddTask(m.ctx, title)
		if err != nil {
			m.setError(err)
			return nil
		}
		if added {
			m.setStatus(fmt.Sprintf("Added %q", strings.TrimSpace(title)))
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// move shifts the selection by delta, starting from the ends when nothing
// is selected.
func (m *Model) move(delta int) tea.Cmd {
	n := len(m.svc.Rows())
	if n == 0 {
		return nil
	}
	cur := m.svc.Pane().Index
	next := cur + delta
	if cur < 0 {
		next = 0
		if delta < 0 {
			next = n - 1
		}
	}
	if next < 0 {
		next = 0
	}
	if next >= n {
		next = n - 1
	}
	if next == cur {
		return nil
	}
	return m.svc.SelectTask(next)
}

func (m *Model) focusField(i int) tea.Cmd {
	for j := range m.fields {
		m.fields[j].Blur()
	}
	m.field = i
	return m.fields[i].Focus()
}

func (m *Model) leaveEdit() {
	for j := range m.fields {
		m.fields[j].Blur()
	}
	m.mode = modeNormal
}

func (m *Model) leaveAdd() {
	m.input.Blur()
	m.input.SetValue("")
	m.mode = modeNormal
}

func (m *Model) formFields() task.Fields {
	return task.Fields{
		Title:          m.fields[fieldTitle].Value(),
		TrackerURL:     m.fields[fieldTracker].Value(),
		Branch:         m.fields[fieldBranch].Value(),
		ReviewURL:      m.fields[fieldReview].Value(),
		CommitTemplate: m.fields[fieldCommit].Value(),
		Notes:          m.fields[fieldNotes].Value(),
	}
}

// syncForm refills the form whenever the pane shows something new. Edits
// in progress survive pane changes that keep the same task.
func (m *Model) syncForm() {
	pane := m.svc.Pane()
	if m.formReady && pane.Version == m.formVersion {
		return
	}
	m.formReady = true
	m.formVersion = pane.Version
	if m.mode == modeEdit {
		if pane.Visible && pane.Task.ID == m.formTask {
			return
		}
		m.leaveEdit()
	}
	m.resetForm()
}

func (m *Model) resetForm() {
	pane := m.svc.Pane()
	var f task.Fields
	m.formTask = 0
	if pane.Visible {
		f = pane.Task.Fields()
		m.formTask = pane.Task.ID
	}
	values := [fieldCount]string{f.Title, f.TrackerURL, f.Branch, f.ReviewURL, f.CommitTemplate, f.Notes}
	for i := range m.fields {
		m.fields[i].SetValue(values[i])
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	switch {
	case errors.Is(err, app.ErrNoSelection):
		m.status = "ERR: select a task first"
	case errors.Is(err, app.ErrEmptyTitle):
		m.status = "ERR: title must not be blank"
	default:
		m.status = "ERR: " + err.Error()
	}
	m.statusErr = true
}

// Run launches the interactive TUI program.
func Run(ctx context.Context, svc *app.Service) error {
	p := tea.NewProgram(New(ctx, svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
