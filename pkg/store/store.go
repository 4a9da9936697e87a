package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"tableflip.dev/tasks/pkg/task"
)

// Persistence defines the persistence contract for tasks, the sort setting
// and the work log.
type Persistence interface {
	Initialize(ctx context.Context) error
	SortOrder(ctx context.Context) (task.Order, error)
	SaveSortOrder(ctx context.Context, order task.Order) error
	ListTasks(ctx context.Context, order task.Order) ([]task.Task, error)
	TaskDetail(ctx context.Context, id int64) (task.Task, error)
	UpdateTaskDetail(ctx context.Context, id int64, fields task.Fields) error
	SetCurrentTask(ctx context.Context, id int64) error
	AddTask(ctx context.Context, title string) (int64, bool, error)
	WorkLog(ctx context.Context, since time.Time) ([]task.WorkLogEntry, error)
	Close() error
}

var (
	// ErrNotFound reports that no task has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrConstraint reports that the database rejected a write.
	ErrConstraint = errors.New("constraint violation")
	// ErrIO reports that the database could not be reached or read.
	ErrIO = errors.New("io error")
)

// classify maps driver errors onto the store's error sentinels.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrConstraint) || errors.Is(err, ErrIO) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		return fmt.Errorf("store: %s: %w: %w", op, ErrConstraint, err)
	}
	return fmt.Errorf("store: %s: %w: %w", op, ErrIO, err)
}
