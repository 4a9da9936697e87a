// Package task defines the task tracker's entities and their projections.
package task

import (
	"strconv"
	"strings"
	"time"
)

// SampleTitle is the title of the task seeded into an empty store.
const SampleTitle = "Sample Task"

const (
	// StorageLayout is fixed width so lexical order matches chronological order.
	StorageLayout = "2006-01-02T15:04:05.000000000Z07:00"
	displayLayout = "2006-01-02 15:04"
)

// Task is a persisted unit of work.
type Task struct {
	ID             int64     `json:"id" yaml:"id"`
	Title          string    `json:"title" yaml:"title"`
	Created        time.Time `json:"created" yaml:"created"`
	TrackerURL     string    `json:"trackerUrl" yaml:"trackerUrl"`
	Branch         string    `json:"branch" yaml:"branch"`
	ReviewURL      string    `json:"reviewUrl" yaml:"reviewUrl"`
	CommitTemplate string    `json:"commitTemplate" yaml:"commitTemplate"`
	Notes          string    `json:"notes" yaml:"notes"`
	IsCurrent      bool      `json:"isCurrent" yaml:"isCurrent"`
}

// Fields is the editable subset of a Task.
type Fields struct {
	Title          string
	TrackerURL     string
	Branch         string
	ReviewURL      string
	CommitTemplate string
	Notes          string
}

// Fields returns the editable fields of t.
func (t Task) Fields() Fields {
	return Fields{
		Title:          t.Title,
		TrackerURL:     t.TrackerURL,
		Branch:         t.Branch,
		ReviewURL:      t.ReviewURL,
		CommitTemplate: t.CommitTemplate,
		Notes:          t.Notes,
	}
}

// Apply overwrites the editable fields of t. ID, Created and IsCurrent are
// left alone.
func (t *Task) Apply(f Fields) {
	t.Title = f.Title
	t.TrackerURL = f.TrackerURL
	t.Branch = f.Branch
	t.ReviewURL = f.ReviewURL
	t.CommitTemplate = f.CommitTemplate
	t.Notes = f.Notes
}

// CreatedLabel renders the creation time for display.
func (t Task) CreatedLabel() string {
	if t.Created.IsZero() {
		return ""
	}
	return t.Created.Local().Format(displayLayout)
}

// Summary is the list row projection of a Task.
type Summary struct {
	ID        int64
	Title     string
	IsCurrent bool
}

// Summarize projects t into a list row.
func Summarize(t Task) Summary {
	return Summary{ID: t.ID, Title: t.Title, IsCurrent: t.IsCurrent}
}

// Summaries projects every task, preserving order.
func Summaries(tasks []Task) []Summary {
	out := make([]Summary, len(tasks))
	for i, t := range tasks {
		out[i] = Summarize(t)
	}
	return out
}

// WorkLogEntry records the start of a work session on a task.
type WorkLogEntry struct {
	ID        int64     `json:"id" yaml:"id"`
	TaskID    int64     `json:"taskId" yaml:"taskId"`
	StartTime time.Time `json:"startTime" yaml:"startTime"`
}

// Order is the active list ordering.
type Order int

const (
	// ByTitle sorts case-insensitively by title.
	ByTitle Order = iota
	// ByCreatedDesc sorts newest first.
	ByCreatedDesc
)

// ParseOrder decodes the persisted setting value. Anything unknown is ByTitle.
func ParseOrder(v string) Order {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return ByTitle
	}
	switch Order(n) {
	case ByCreatedDesc:
		return ByCreatedDesc
	default:
		return ByTitle
	}
}

// OrderFromName decodes a user facing order name ("title" or "created").
func OrderFromName(name string) (Order, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "title", "name":
		return ByTitle, true
	case "created", "recent", "newest":
		return ByCreatedDesc, true
	default:
		return ByTitle, false
	}
}

// Value is the persisted setting value.
func (o Order) Value() string {
	return strconv.Itoa(int(o))
}

// Toggle returns the opposite ordering.
func (o Order) Toggle() Order {
	if o == ByCreatedDesc {
		return ByTitle
	}
	return ByCreatedDesc
}

func (o Order) String() string {
	if o == ByCreatedDesc {
		return "created"
	}
	return "title"
}

// FormatTime renders t in the storage layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(StorageLayout)
}

// ParseTime accepts the storage layout and plain RFC3339.
func ParseTime(v string) (time.Time, error) {
	t, err := time.Parse(StorageLayout, v)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}
