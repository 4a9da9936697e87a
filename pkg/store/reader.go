package store

import (
	"context"
	"database/sql"

	"tableflip.dev/tasks/pkg/task"
)

// Reader is a read-only handle, independent of the interactive DB, used by
// background detail fetches so they never contend for the UI's connection.
type Reader struct {
	db *sql.DB
}

// OpenReader opens an independent read-only handle on the database at path.
func OpenReader(path string) (*Reader, error) {
	db, err := sql.Open("sqlite", dsn(path, "query_only(1)"))
	if err != nil {
		return nil, classify("open reader", err)
	}
	return &Reader{db: db}, nil
}

// TaskDetail reads the task with id.
func (r *Reader) TaskDetail(ctx context.Context, id int64) (task.Task, error) {
	return queryTask(ctx, r.db, id)
}

// Close releases the handle.
func (r *Reader) Close() error {
	return r.db.Close()
}
