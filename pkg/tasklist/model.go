// Package tasklist holds the ordered task rows shown by the UI.
package tasklist

import (
	"errors"
	"fmt"

	"tableflip.dev/tasks/pkg/task"
)

// ErrIndexOutOfRange reports a row index outside the list.
var ErrIndexOutOfRange = errors.New("tasklist: index out of range")

// Model is the in-memory mirror of the visible task summaries.
type Model struct {
	rows []task.Summary
}

// New returns a model holding rows.
func New(rows []task.Summary) *Model {
	m := &Model{}
	m.Replace(rows)
	return m
}

// Replace swaps every row at once.
func (m *Model) Replace(rows []task.Summary) {
	m.rows = append([]task.Summary(nil), rows...)
}

// PatchRow replaces the row at index, leaving the others untouched.
func (m *Model) PatchRow(index int, row task.Summary) error {
	if index < 0 || index >= len(m.rows) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(m.rows))
	}
	m.rows[index] = row
	return nil
}

// IndexOf returns the row index of the task with id.
func (m *Model) IndexOf(id int64) (int, bool) {
	for i, row := range m.rows {
		if row.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Row returns the row at index.
func (m *Model) Row(index int) (task.Summary, bool) {
	if index < 0 || index >= len(m.rows) {
		return task.Summary{}, false
	}
	return m.rows[index], true
}

// Rows returns a copy of every row.
func (m *Model) Rows() []task.Summary {
	return append([]task.Summary(nil), m.rows...)
}

// Len is the number of rows.
func (m *Model) Len() int {
	return len(m.rows)
}
