package task

import "time"

// Repo is the task store. Implementations serialize writers and return
// snapshot copies to readers; failed calls leave the store unchanged.
//
// Edit validates its input before looking up the id. Delete of an unknown
// id is a no-op reported as (false, nil).
type Repo interface {
	Create(text string, due time.Time) (Task, error)
	Edit(id int64, text string, due time.Time) (Task, error)
	Delete(id int64) (bool, error)
	ToggleDone(id int64) (Task, error)
	List() ([]Task, error)
}
