// Package task holds the task model, the repository contract shared by the
// task stores, and the filter/sort projection used to build the list view.
package task

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DateLayout is the textual form of a due date.
const DateLayout = "2006-01-02"

var (
	ErrInvalidInput = errors.New("task text and due date are required")
	ErrNotFound     = errors.New("task not found")
)

type Task struct {
	ID   int64
	Text string
	Done bool
	Due  time.Time
}

// Validate reports ErrInvalidInput when text is blank or due is unset.
func Validate(text string, due time.Time) error {
	if strings.TrimSpace(text) == "" || due.IsZero() {
		return ErrInvalidInput
	}
	return nil
}

// ParseDue parses a YYYY-MM-DD date. A blank value is reported as
// ErrInvalidInput since every task needs a due date.
func ParseDue(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, ErrInvalidInput
	}
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: due date %q: %v", ErrInvalidInput, v, err)
	}
	return t, nil
}

// NormalizeDue reduces t to its calendar date in its own location,
// expressed as UTC midnight. Stores keep due dates in this form.
func NormalizeDue(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDue(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// IDSource hands out task ids derived from the creation time in
// milliseconds. Ids are strictly increasing: when the clock has not moved
// past the previous id the next one is last+1.
type IDSource struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

func (s *IDSource) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.now().UnixMilli()
	if id <= s.last {
		id = s.last + 1
	}
	s.last = id
	return id
}
