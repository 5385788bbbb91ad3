package task

import (
	"sync"
	"time"
)

var _ Repo = (*MemoryStore)(nil)

// MemoryStore keeps tasks in a slice in the order they were added.
type MemoryStore struct {
	mu    sync.RWMutex
	ids   *IDSource
	tasks []Task
}

func NewMemoryStore(ids *IDSource) *MemoryStore {
	if ids == nil {
		ids = NewIDSource(nil)
	}
	return &MemoryStore{ids: ids}
}

func (s *MemoryStore) Create(text string, due time.Time) (Task, error) {
	if err := Validate(text, due); err != nil {
		return Task{}, err
	}
	due = NormalizeDue(due)

	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:   s.ids.Next(),
		Text: text,
		Due:  due,
	}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *MemoryStore) Edit(id int64, text string, due time.Time) (Task, error) {
	if err := Validate(text, due); err != nil {
		return Task{}, err
	}
	due = NormalizeDue(due)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	s.tasks[i].Text = text
	s.tasks[i].Due = due
	return s.tasks[i], nil
}

func (s *MemoryStore) Delete(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return true, nil
}

func (s *MemoryStore) ToggleDone(id int64) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	s.tasks[i].Done = !s.tasks[i].Done
	return s.tasks[i], nil
}

func (s *MemoryStore) List() ([]Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// indexOf must be called with s.mu held.
func (s *MemoryStore) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
