package teaui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultListWidth = 32
	minListWidth     = 20
	maxListWidth     = 48
)

// View renders the list, the detail pane and the footer.
func (m *Model) View() string {
	left := m.renderList()
	right := m.renderDetail()
	gap := lipgloss.NewStyle().Padding(0, 1).Render
	sections := []string{lipgloss.JoinHorizontal(lipgloss.Top, left, gap(" "), right)}

	if m.mode == modeAdd {
		sections = append(sections, m.th.Footer.Prompt.Render("New task: ")+m.input.View())
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n\n")
}

func (m *Model) listWidth() int {
	if m.termWidth == 0 {
		return defaultListWidth
	}
	w := m.termWidth / 3
	if w < minListWidth {
		w = minListWidth
	}
	if w > maxListWidth {
		w = maxListWidth
	}
	return w
}

func (m *Model) renderList() string {
	width := m.listWidth()
	lines := []string{m.th.List.Title.Render(fmt.Sprintf("Tasks · by %s", m.svc.Order()))}

	rows := m.svc.Rows()
	if len(rows) == 0 {
		lines = append(lines, m.th.List.Empty.Render("No tasks. Press n to add one."))
	}
	selected := m.svc.Pane().Index
	for i, row := range rows {
		marker := "  "
		if i == selected {
			marker = "▸ "
		}
		flag := "  "
		if row.IsCurrent {
			flag = "★ "
		}
		text := truncate.StringWithTail(marker+flag+row.Title, uint(width), "…")
		style := m.th.List.Row
		switch {
		case i == selected:
			style = m.th.List.Selected
		case row.IsCurrent:
			style = m.th.List.Current
		}
		lines = append(lines, style.Render(text))
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderDetail() string {
	pane := m.svc.Pane()
	var body string
	switch {
	case pane.Loading:
		body = m.th.Detail.Loading.Render("Loading…")
	case pane.Visible:
		body = m.renderFields()
	case pane.Index >= 0:
		// Fetch still inside the debounce window.
		body = ""
	default:
		body = m.th.Detail.Placeholder.Render("No task selected")
	}
	frame := m.th.Detail.Frame
	if m.termWidth > 0 {
		if w := m.termWidth - m.listWidth() - 6; w > 20 {
			frame = frame.Width(w)
		}
	}
	return frame.Render(body)
}

func (m *Model) renderFields() string {
	pane := m.svc.Pane()
	lines := make([]string, 0, fieldCount+2)
	for i := 0; i < fieldCount; i++ {
		label := m.th.Detail.Label
		if m.mode == modeEdit && i == m.field {
			label = m.th.Detail.FocusLabel
		}
		var value string
		if m.mode == modeEdit {
			value = m.fields[i].View()
		} else {
			value = m.th.Detail.Value.Render(m.fields[i].Value())
		}
		lines = append(lines, label.Render(fieldLabels[i])+value)
	}
	lines = append(lines, "")
	created := pane.Task.CreatedLabel()
	if pane.Task.IsCurrent {
		created += " · current"
	}
	lines = append(lines, m.th.Detail.Label.Render("Created")+m.th.Detail.Value.Render(created))
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	help := helpNormal
	switch m.mode {
	case modeEdit:
		help = helpEdit
	case modeAdd:
		help = helpAdd
	}
	status := m.th.Footer.Status.Render(m.status)
	if m.statusErr {
		status = m.th.Footer.Error.Render(m.status)
	}
	return status + "\n" + m.th.Footer.Help.Render(help)
}
