package app

import (
	"context"
	"sort"
	"time"

	"tableflip.dev/tasks/pkg/task"
)

// Session is one work-log entry and how long it lasted. A session runs until
// the next entry starts; the newest one is still Open and runs until the end
// of the report window.
type Session struct {
	Entry    task.WorkLogEntry
	Title    string
	Duration time.Duration
	Open     bool
}

// TaskTotal sums the sessions of one task.
type TaskTotal struct {
	TaskID   int64
	Title    string
	Sessions int
	Duration time.Duration
}

// ReportResult encapsulates a work-log report for a time window.
type ReportResult struct {
	Since    time.Time
	Until    time.Time
	Sessions []Session
	Totals   []TaskTotal
	Total    time.Duration
}

// Report returns work sessions started between the provided bounds, newest
// first, with per-task totals sorted by time spent.
func (s *Service) Report(ctx context.Context, since, until time.Time) (ReportResult, error) {
	if since.After(until) {
		since, until = until, since
	}
	entries, err := s.Persistence.WorkLog(ctx, since)
	if err != nil {
		return ReportResult{}, err
	}
	tasks, err := s.Persistence.ListTasks(ctx, task.ByTitle)
	if err != nil {
		return ReportResult{}, err
	}
	titles := make(map[int64]string, len(tasks))
	for _, t := range tasks {
		titles[t.ID] = t.Title
	}

	result := ReportResult{Since: since, Until: until}
	end := until
	open := true
	totals := make(map[int64]*TaskTotal)
	// entries are newest first, so each one ends where the previous began.
	for _, e := range entries {
		if e.StartTime.After(until) {
			// A later session superseded whichever one was running at until.
			open = false
			continue
		}
		d := end.Sub(e.StartTime)
		if d < 0 {
			d = 0
		}
		result.Sessions = append(result.Sessions, Session{
			Entry:    e,
			Title:    titles[e.TaskID],
			Duration: d,
			Open:     open,
		})
		total, ok := totals[e.TaskID]
		if !ok {
			total = &TaskTotal{TaskID: e.TaskID, Title: titles[e.TaskID]}
			totals[e.TaskID] = total
		}
		total.Sessions++
		total.Duration += d
		result.Total += d
		end = e.StartTime
		open = false
	}

	for _, total := range totals {
		result.Totals = append(result.Totals, *total)
	}
	sort.Slice(result.Totals, func(i, j int) bool {
		a, b := result.Totals[i], result.Totals[j]
		if a.Duration != b.Duration {
			return a.Duration > b.Duration
		}
		return a.TaskID < b.TaskID
	})
	return result, nil
}
