package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	List   ListTheme
	Detail DetailTheme
	Footer FooterTheme
}

// ListTheme styles the task list column.
type ListTheme struct {
	Title    lipgloss.Style
	Row      lipgloss.Style
	Selected lipgloss.Style
	Current  lipgloss.Style
	Empty    lipgloss.Style
}

// DetailTheme styles the detail pane.
type DetailTheme struct {
	Frame       lipgloss.Style
	Label       lipgloss.Style
	FocusLabel  lipgloss.Style
	Value       lipgloss.Style
	Loading     lipgloss.Style
	Placeholder lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244")).
		Width(10)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	return Theme{
		List: ListTheme{
			Title:    lipgloss.NewStyle().Bold(true).MarginBottom(1),
			Row:      lipgloss.NewStyle(),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Current:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Empty:    dim,
		},
		Detail: DetailTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(1, 2),
			Label:       label,
			FocusLabel:  label.Foreground(lipgloss.Color("212")).Bold(true),
			Value:       lipgloss.NewStyle(),
			Loading:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Italic(true),
			Placeholder: dim,
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
			Prompt: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		},
	}
}
