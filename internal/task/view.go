package task

import (
	"fmt"
	"slices"
	"strings"
)

type Filter int

const (
	FilterAll Filter = iota
	FilterCompleted
	FilterPending
)

func (f Filter) String() string {
	switch f {
	case FilterCompleted:
		return "Completed"
	case FilterPending:
		return "Pending"
	default:
		return "All"
	}
}

// Next cycles All -> Completed -> Pending -> All.
func (f Filter) Next() Filter {
	return (f + 1) % 3
}

func (f Filter) match(t Task) bool {
	switch f {
	case FilterCompleted:
		return t.Done
	case FilterPending:
		return !t.Done
	default:
		return true
	}
}

func ParseFilter(v string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "all":
		return FilterAll, nil
	case "completed", "done":
		return FilterCompleted, nil
	case "pending":
		return FilterPending, nil
	}
	return FilterAll, fmt.Errorf("unknown filter %q", v)
}

type Sort int

const (
	SortAdded Sort = iota
	SortDueDate
	SortCompletedFirst
	SortPendingFirst
)

func (s Sort) String() string {
	switch s {
	case SortDueDate:
		return "Date wise"
	case SortCompletedFirst:
		return "Completed first"
	case SortPendingFirst:
		return "Pending first"
	default:
		return "Added date"
	}
}

// Next cycles through the sort modes in declaration order.
func (s Sort) Next() Sort {
	return (s + 1) % 4
}

func ParseSort(v string) (Sort, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "added":
		return SortAdded, nil
	case "date", "due":
		return SortDueDate, nil
	case "completed-first":
		return SortCompletedFirst, nil
	case "pending-first":
		return SortPendingFirst, nil
	}
	return SortAdded, fmt.Errorf("unknown sort %q", v)
}

func (s Sort) compare(a, b Task) int {
	switch s {
	case SortDueDate:
		return a.Due.Compare(b.Due)
	case SortCompletedFirst:
		return doneRank(b) - doneRank(a)
	case SortPendingFirst:
		return doneRank(a) - doneRank(b)
	default:
		return 0
	}
}

func doneRank(t Task) int {
	if t.Done {
		return 1
	}
	return 0
}

// Project returns the tasks matching f, stably ordered by s. Ties keep
// their added order. The input slice is never modified.
func Project(tasks []Task, f Filter, s Sort) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if f.match(t) {
			out = append(out, t)
		}
	}
	if s != SortAdded {
		slices.SortStableFunc(out, s.compare)
	}
	return out
}
