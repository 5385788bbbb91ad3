// Package storage is a task.Repo backed by a private in-memory SQLite
// database. Nothing is written to disk; the data lives as long as the Store.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"todo/internal/task"
)

// memoryDSN opens a database that exists only for the lifetime of its
// connection, so the pool is pinned to exactly one connection.
const memoryDSN = ":memory:"

var _ task.Repo = (*Store)(nil)

type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	ids *task.IDSource
}

func Open(ids *task.IDSource) (*Store, error) {
	if ids == nil {
		ids = task.NewIDSource(nil)
	}
	db, err := sql.Open("sqlite", memoryDSN)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	s := &Store{db: db, ids: ids}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS tasks (
	id INTEGER PRIMARY KEY,
	text TEXT NOT NULL,
	done INTEGER NOT NULL DEFAULT 0,
	due TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

func (s *Store) Create(text string, due time.Time) (task.Task, error) {
	if err := task.Validate(text, due); err != nil {
		return task.Task{}, err
	}
	due = task.NormalizeDue(due)

	s.mu.Lock()
	defer s.mu.Unlock()

	t := task.Task{ID: s.ids.Next(), Text: text, Due: due}
	_, err := s.db.Exec(`INSERT INTO tasks (id, text, done, due) VALUES (?, ?, 0, ?);`,
		t.ID, t.Text, task.FormatDue(t.Due))
	if err != nil {
		return task.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (s *Store) Edit(id int64, text string, due time.Time) (task.Task, error) {
	if err := task.Validate(text, due); err != nil {
		return task.Task{}, err
	}
	due = task.NormalizeDue(due)

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE tasks SET text = ?, due = ? WHERE id = ?;`,
		text, task.FormatDue(due), id)
	if err != nil {
		return task.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return task.Task{}, err
	}
	return s.get(id)
}

func (s *Store) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete task %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) ToggleDone(id int64) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE tasks SET done = 1 - done WHERE id = ?;`, id)
	if err != nil {
		return task.Task{}, fmt.Errorf("toggle task %d: %w", id, err)
	}
	if err := requireRow(res); err != nil {
		return task.Task{}, err
	}
	return s.get(id)
}

// List returns tasks in added order. Ids come from a strictly increasing
// source, so id order is insertion order.
func (s *Store) List() ([]task.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, text, done, due FROM tasks ORDER BY id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// get must be called with s.mu held.
func (s *Store) get(id int64) (task.Task, error) {
	row := s.db.QueryRow(`SELECT id, text, done, due FROM tasks WHERE id = ?;`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return task.Task{}, task.ErrNotFound
	}
	return t, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (task.Task, error) {
	var t task.Task
	var doneInt int
	var dueStr string
	if err := sc.Scan(&t.ID, &t.Text, &doneInt, &dueStr); err != nil {
		return task.Task{}, err
	}
	t.Done = doneInt == 1
	due, err := time.Parse(task.DateLayout, dueStr)
	if err != nil {
		return task.Task{}, fmt.Errorf("task %d: bad due date %q: %w", t.ID, dueStr, err)
	}
	t.Due = due
	return t, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return task.ErrNotFound
	}
	return nil
}
