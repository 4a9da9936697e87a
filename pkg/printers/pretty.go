package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/tasks/pkg/app"
	"tableflip.dev/tasks/pkg/task"
	"tableflip.dev/tasks/pkg/timeutil"
)

// PrettyPrint renders tasks and work logs for the terminal.
type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int, noun string) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintf(pp.out(), " %s\n", noun)
	default:
		_, _ = c.Fprintf(pp.out(), " %ss\n", noun)
	}
}

// Note prints a faint one-line message.
func (pp *PrettyPrint) Note(msg string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), " %s\n", msg)
}

// Tasks prints one row per task; the current task is starred.
func (pp *PrettyPrint) Tasks(tasks ...task.Task) {
	if len(tasks) == 0 {
		pp.Note("none")
		pp.NewLine()
		return
	}

	star := color.New(color.FgHiYellow, color.Bold)
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	for _, t := range tasks {
		mark := " "
		if t.IsCurrent {
			mark = star.Sprint("★")
		}
		row := []interface{}{mark, t.Title, t.CreatedLabel()}
		if pp.ShowID {
			row = append([]interface{}{y.Sprint(t.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Detail prints every field of t.
func (pp *PrettyPrint) Detail(t task.Task) {
	b := color.New(color.Bold)
	pp.Title(t.Title)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.Wrap = true
	tbl.MaxColWidth = 72
	current := "no"
	if t.IsCurrent {
		current = "yes"
	}
	tbl.AddRow(b.Sprint("ID"), t.ID)
	tbl.AddRow(b.Sprint("Created"), t.CreatedLabel())
	tbl.AddRow(b.Sprint("Current"), current)
	tbl.AddRow(b.Sprint("Tracker"), t.TrackerURL)
	tbl.AddRow(b.Sprint("Branch"), t.Branch)
	tbl.AddRow(b.Sprint("Review"), t.ReviewURL)
	tbl.AddRow(b.Sprint("Commit"), t.CommitTemplate)
	tbl.AddRow(b.Sprint("Notes"), strings.TrimSpace(t.Notes))
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Report prints the sessions of a work-log report followed by per-task
// totals.
func (pp *PrettyPrint) Report(r app.ReportResult, window string) {
	pp.TitleWithCount(fmt.Sprintf("Work log · last %s", window), len(r.Sessions), "session")
	if len(r.Sessions) == 0 {
		pp.Note("none")
		pp.NewLine()
		return
	}

	open := color.New(color.FgHiGreen)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, s := range r.Sessions {
		d := formatDuration(s.Duration)
		if s.Open {
			d = open.Sprint(d + " (open)")
		}
		tbl.AddRow(s.Entry.StartTime.Local().Format("2006-01-02 15:04"), titleOrID(s.Title, s.Entry.TaskID), d)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	pp.Title("Totals")
	totals := uitable.New()
	totals.Separator = "  "
	for _, t := range r.Totals {
		totals.AddRow(titleOrID(t.Title, t.TaskID), t.Sessions, formatDuration(t.Duration))
	}
	totals.AddRow(color.New(color.Bold).Sprint("all"), len(r.Sessions), formatDuration(r.Total))
	_, _ = fmt.Fprintln(pp.out(), totals)
	pp.NewLine()
}

func titleOrID(title string, id int64) string {
	if title == "" {
		return fmt.Sprintf("#%d", id)
	}
	return title
}

func formatDuration(d time.Duration) string {
	return timeutil.FormatWindow(d.Truncate(time.Minute))
}
