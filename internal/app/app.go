// Package app is the command and query surface the UI talks to. It owns the
// task repository and the theme store for one running program and tells
// subscribers about every successful change.
package app

import (
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"todo/internal/task"
	"todo/internal/theme"
)

type EventKind int

const (
	TaskCreated EventKind = iota + 1
	TaskEdited
	TaskDeleted
	TaskToggled
	ThemeToggled
)

func (k EventKind) String() string {
	switch k {
	case TaskCreated:
		return "task_created"
	case TaskEdited:
		return "task_edited"
	case TaskDeleted:
		return "task_deleted"
	case TaskToggled:
		return "task_toggled"
	case ThemeToggled:
		return "theme_toggled"
	default:
		return "unknown"
	}
}

// Event describes one applied mutation. TaskID is zero for theme changes.
type Event struct {
	Kind   EventKind
	TaskID int64
}

type App struct {
	tasks task.Repo
	theme *theme.Store
	log   *slog.Logger

	mu        sync.Mutex
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func(Event)
}

// New wires an App. A nil logger discards output.
func New(tasks task.Repo, th *theme.Store, log *slog.Logger) *App {
	if th == nil {
		th = theme.New()
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{
		tasks:     tasks,
		theme:     th,
		log:       log,
	}
}

// Subscribe registers fn for change events. Listeners are called
// synchronously, in subscription order, after the store has applied the
// change.
func (a *App) Subscribe(fn func(Event)) (unsubscribe func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := a.nextID
	a.nextID++
	a.listeners = append(a.listeners, listener{id: id, fn: fn})
	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		a.listeners = slices.DeleteFunc(a.listeners, func(l listener) bool {
			return l.id == id
		})
	}
}

func (a *App) notify(ev Event) {
	a.mu.Lock()
	ls := slices.Clone(a.listeners)
	a.mu.Unlock()

	for _, l := range ls {
		l.fn(ev)
	}
}

func (a *App) CreateTask(text string, due time.Time) (task.Task, error) {
	t, err := a.tasks.Create(text, due)
	if err != nil {
		a.log.Warn("create task rejected", "error", err)
		return task.Task{}, err
	}
	a.log.Info("task created", "id", t.ID, "due", task.FormatDue(t.Due))
	a.notify(Event{Kind: TaskCreated, TaskID: t.ID})
	return t, nil
}

func (a *App) EditTask(id int64, text string, due time.Time) (task.Task, error) {
	t, err := a.tasks.Edit(id, text, due)
	if err != nil {
		a.log.Warn("edit task rejected", "id", id, "error", err)
		return task.Task{}, err
	}
	a.log.Info("task edited", "id", id, "due", task.FormatDue(t.Due))
	a.notify(Event{Kind: TaskEdited, TaskID: id})
	return t, nil
}

// DeleteTask removes the task. An unknown id is a no-op: it returns
// (false, nil) and emits no event.
func (a *App) DeleteTask(id int64) (bool, error) {
	removed, err := a.tasks.Delete(id)
	if err != nil {
		a.log.Error("delete task failed", "id", id, "error", err)
		return false, err
	}
	if !removed {
		a.log.Debug("delete of unknown task ignored", "id", id)
		return false, nil
	}
	a.log.Info("task deleted", "id", id)
	a.notify(Event{Kind: TaskDeleted, TaskID: id})
	return true, nil
}

func (a *App) ToggleTaskDone(id int64) (task.Task, error) {
	t, err := a.tasks.ToggleDone(id)
	if err != nil {
		a.log.Warn("toggle task rejected", "id", id, "error", err)
		return task.Task{}, err
	}
	a.log.Info("task toggled", "id", id, "done", t.Done)
	a.notify(Event{Kind: TaskToggled, TaskID: id})
	return t, nil
}

func (a *App) ToggleTheme() bool {
	dark := a.theme.Toggle()
	a.log.Info("theme toggled", "dark", dark)
	a.notify(Event{Kind: ThemeToggled})
	return dark
}

func (a *App) AllTasks() ([]task.Task, error) {
	return a.tasks.List()
}

func (a *App) IsDark() bool {
	return a.theme.IsDark()
}

// Project returns the current tasks filtered by f and ordered by s.
func (a *App) Project(f task.Filter, s task.Sort) ([]task.Task, error) {
	tasks, err := a.tasks.List()
	if err != nil {
		return nil, err
	}
	return task.Project(tasks, f, s), nil
}
