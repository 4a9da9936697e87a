package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tableflip.dev/tasks/pkg/task"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  title TEXT NOT NULL,
  created TEXT NOT NULL,
  tracker_url TEXT NOT NULL DEFAULT '',
  branch TEXT NOT NULL DEFAULT '',
  review_url TEXT NOT NULL DEFAULT '',
  commit_template TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  is_current INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS tasks_single_current ON tasks(is_current) WHERE is_current = 1;
CREATE TABLE IF NOT EXISTS settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS work_log (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  task_id INTEGER NOT NULL,
  start_time TEXT NOT NULL
);
`

const (
	sortOrderKey = "sort_order"
	taskColumns  = "id, title, created, tracker_url, branch, review_url, commit_template, notes, is_current"
)

// Option configures a DB.
type Option func(*DB)

// WithClock overrides the time source used for created and start_time stamps.
func WithClock(now func() time.Time) Option {
	return func(d *DB) {
		if now != nil {
			d.now = now
		}
	}
}

// DB is the interactive SQLite handle. It is meant to be used from one
// goroutine at a time (the UI loop or a CLI runner).
type DB struct {
	db  *sql.DB
	now func() time.Time
}

var _ Persistence = (*DB)(nil)

// Open opens (creating if needed) the database file at path. Call Initialize
// before use.
func Open(path string, opts ...Option) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store: database path required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dsn(path, "journal_mode(WAL)"))
	if err != nil {
		return nil, classify("open", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, classify("open", err)
	}
	d := &DB{db: db, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

func dsn(path string, pragmas ...string) string {
	var b strings.Builder
	b.WriteString("file:")
	b.WriteString(path)
	b.WriteString("?_pragma=busy_timeout(5000)")
	for _, p := range pragmas {
		b.WriteString("&_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// Close releases the handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// Initialize creates the schema if absent and seeds a sample task into an
// empty task table. It is safe to call on every launch.
func (d *DB) Initialize(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("initialize", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return classify("initialize: create schema", err)
	}
	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		return classify("initialize: count tasks", err)
	}
	if count == 0 {
		if _, err := insertTask(ctx, tx, task.SampleTitle, d.now()); err != nil {
			return classify("initialize: seed", err)
		}
	}
	return classify("initialize: commit", tx.Commit())
}

// SortOrder returns the persisted ordering, ByTitle when unset.
func (d *DB) SortOrder(ctx context.Context) (task.Order, error) {
	var value string
	err := d.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, sortOrderKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return task.ByTitle, nil
	}
	if err != nil {
		return task.ByTitle, classify("sort order", err)
	}
	return task.ParseOrder(value), nil
}

// SaveSortOrder persists order.
func (d *DB) SaveSortOrder(ctx context.Context, order task.Order) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		sortOrderKey, order.Value())
	return classify("save sort order", err)
}

// ListTasks returns every task in the requested order.
func (d *DB) ListTasks(ctx context.Context, order task.Order) ([]task.Task, error) {
	q := `SELECT ` + taskColumns + ` FROM tasks ORDER BY title COLLATE NOCASE, id`
	if order == task.ByCreatedDesc {
		q = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created DESC, id DESC`
	}
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, classify("list tasks", err)
	}
	defer rows.Close()

	var out []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, classify("list tasks", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list tasks", err)
	}
	return out, nil
}

// TaskDetail returns the task with id.
func (d *DB) TaskDetail(ctx context.Context, id int64) (task.Task, error) {
	return queryTask(ctx, d.db, id)
}

// UpdateTaskDetail overwrites the editable fields of task id.
func (d *DB) UpdateTaskDetail(ctx context.Context, id int64, f task.Fields) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, tracker_url = ?, branch = ?, review_url = ?, commit_template = ?, notes = ? WHERE id = ?`,
		f.Title, f.TrackerURL, f.Branch, f.ReviewURL, f.CommitTemplate, f.Notes, id)
	if err != nil {
		return classify("update task", err)
	}
	return requireRow("update task", res)
}

// SetCurrentTask makes id the only current task and logs a work session
// start. The whole operation is one transaction.
func (d *DB) SetCurrentTask(ctx context.Context, id int64) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return classify("set current", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE tasks SET is_current = 0 WHERE is_current <> 0`); err != nil {
		return classify("set current: clear", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE tasks SET is_current = 1 WHERE id = ?`, id)
	if err != nil {
		return classify("set current: mark", err)
	}
	if err := requireRow("set current: mark", res); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO work_log (task_id, start_time) VALUES (?, ?)`, id, task.FormatTime(d.now())); err != nil {
		return classify("set current: log", err)
	}
	return classify("set current: commit", tx.Commit())
}

// AddTask inserts a task titled with the trimmed title. A blank title is a
// no-op and reports added == false.
func (d *DB) AddTask(ctx context.Context, title string) (int64, bool, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return 0, false, nil
	}
	id, err := insertTask(ctx, d.db, trimmed, d.now())
	if err != nil {
		return 0, false, classify("add task", err)
	}
	return id, true, nil
}

// WorkLog returns work log entries started at or after since, newest first.
// A zero since returns the whole log.
func (d *DB) WorkLog(ctx context.Context, since time.Time) ([]task.WorkLogEntry, error) {
	q := `SELECT id, task_id, start_time FROM work_log ORDER BY start_time DESC, id DESC`
	var args []any
	if !since.IsZero() {
		q = `SELECT id, task_id, start_time FROM work_log WHERE start_time >= ? ORDER BY start_time DESC, id DESC`
		args = append(args, task.FormatTime(since))
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify("work log", err)
	}
	defer rows.Close()

	var out []task.WorkLogEntry
	for rows.Next() {
		var (
			e     task.WorkLogEntry
			start string
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &start); err != nil {
			return nil, classify("work log", err)
		}
		e.StartTime, _ = task.ParseTime(start)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("work log", err)
	}
	return out, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func insertTask(ctx context.Context, db execer, title string, now time.Time) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO tasks (title, created, tracker_url, branch, review_url, commit_template, notes, is_current) VALUES (?, ?, '', '', '', '', '', 0)`,
		title, task.FormatTime(now))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func queryTask(ctx context.Context, db rowQuerier, id int64) (task.Task, error) {
	row := db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return task.Task{}, classify(fmt.Sprintf("task %d", id), err)
	}
	return t, nil
}

func scanTask(s scanner) (task.Task, error) {
	var (
		t       task.Task
		created string
		current int64
	)
	if err := s.Scan(&t.ID, &t.Title, &created, &t.TrackerURL, &t.Branch, &t.ReviewURL, &t.CommitTemplate, &t.Notes, &current); err != nil {
		return task.Task{}, err
	}
	t.Created, _ = task.ParseTime(created)
	t.IsCurrent = current != 0
	return t, nil
}

func requireRow(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return classify(op, err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s: %w", op, ErrNotFound)
	}
	return nil
}
