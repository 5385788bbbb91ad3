package task

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *MemoryStore {
	now := time.UnixMilli(1)
	return NewMemoryStore(NewIDSource(func() time.Time { return now }))
}

func TestMemoryStore_Create(t *testing.T) {
	s := newTestStore()
	due := date(t, "2024-01-02")

	created, err := s.Create("write report", due)
	require.NoError(t, err)
	assert.False(t, created.Done)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
	assert.Equal(t, "write report", list[0].Text)
	assert.Equal(t, due, list[0].Due)
}

func TestMemoryStore_CreateInvalidLeavesStoreUnchanged(t *testing.T) {
	s := newTestStore()
	_, err := s.Create("keep", date(t, "2024-01-01"))
	require.NoError(t, err)

	_, err = s.Create("", date(t, "2024-01-01"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Create("no date", time.Time{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, _ := s.List()
	assert.Len(t, list, 1)
}

func TestMemoryStore_UniqueIDs(t *testing.T) {
	s := newTestStore()
	due := date(t, "2024-01-01")

	seen := map[int64]bool{}
	for i := 0; i < 50; i++ {
		created, err := s.Create("task", due)
		require.NoError(t, err)
		assert.False(t, seen[created.ID], "duplicate id %d", created.ID)
		seen[created.ID] = true
	}

	list, _ := s.List()
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestMemoryStore_Edit(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a", date(t, "2024-01-01"))
	b, _ := s.Create("b", date(t, "2024-01-02"))
	_, err := s.ToggleDone(a.ID)
	require.NoError(t, err)

	edited, err := s.Edit(a.ID, "a2", date(t, "2024-02-01"))
	require.NoError(t, err)
	assert.Equal(t, a.ID, edited.ID)
	assert.True(t, edited.Done, "edit keeps done")

	list, _ := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID, "edit keeps added order")
	assert.Equal(t, "a2", list[0].Text)
	assert.Equal(t, date(t, "2024-02-01"), list[0].Due)
	assert.Equal(t, b, list[1])
}

func TestMemoryStore_EditErrors(t *testing.T) {
	s := newTestStore()

	_, err := s.Edit(999, "x", date(t, "2024-01-01"))
	assert.ErrorIs(t, err, ErrNotFound)

	a, _ := s.Create("a", date(t, "2024-01-01"))
	_, err = s.Edit(a.ID, "", date(t, "2024-01-05"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	list, _ := s.List()
	assert.Equal(t, []Task{a}, list)
}

func TestMemoryStore_Delete(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a", date(t, "2024-01-01"))
	b, _ := s.Create("b", date(t, "2024-01-01"))

	removed, err := s.Delete(a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	list, _ := s.List()
	assert.Equal(t, []Task{b}, list)

	removed, err = s.Delete(a.ID)
	require.NoError(t, err)
	assert.False(t, removed, "second delete is a no-op")

	list, _ = s.List()
	assert.Equal(t, []Task{b}, list)
}

func TestMemoryStore_ToggleDone(t *testing.T) {
	s := newTestStore()
	a, _ := s.Create("a", date(t, "2024-01-01"))

	once, err := s.ToggleDone(a.ID)
	require.NoError(t, err)
	assert.True(t, once.Done)

	twice, err := s.ToggleDone(a.ID)
	require.NoError(t, err)
	assert.Equal(t, a, twice)

	_, err = s.ToggleDone(12345)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ListIsSnapshot(t *testing.T) {
	s := newTestStore()
	_, _ = s.Create("a", date(t, "2024-01-01"))

	list, _ := s.List()
	list[0].Text = "mutated"

	again, _ := s.List()
	assert.Equal(t, "a", again[0].Text)
}

func TestMemoryStore_ConcurrentCreate(t *testing.T) {
	s := NewMemoryStore(nil)
	due := date(t, "2024-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create("task", due)
			_, _ = s.List()
		}()
	}
	wg.Wait()

	list, _ := s.List()
	assert.Len(t, list, 20)
	seen := map[int64]bool{}
	for _, tk := range list {
		assert.False(t, seen[tk.ID])
		seen[tk.ID] = true
	}
}
