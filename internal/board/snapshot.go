package board

import (
	"sync"

	"github.com/sandeepkv93/taskboard/internal/model"
)

// SnapshotStore holds the authoritative task list as last fetched from, or
// merged back from, the server. It is safe for concurrent use; readers get
// copies.
type SnapshotStore struct {
	mu    sync.RWMutex
	tasks []model.Task
}

func NewSnapshotStore(initial []model.Task) *SnapshotStore {
	s := &SnapshotStore{}
	s.Replace(initial)
	return s
}

// Replace swaps in a freshly fetched list.
func (s *SnapshotStore) Replace(tasks []model.Task) {
	next := cloneTasks(tasks)
	s.mu.Lock()
	s.tasks = next
	s.mu.Unlock()
}

// Upsert replaces the task with the same id in place, or appends it.
func (s *SnapshotStore) Upsert(task model.Task) {
	task = task.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
	s.tasks = append(s.tasks, task)
}

// Remove drops the task with id and reports whether it was present.
func (s *SnapshotStore) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

func (s *SnapshotStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

func (s *SnapshotStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t.Clone(), true
		}
	}
	return model.Task{}, false
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

type signatureEntry struct {
	id     string
	status model.Status
}

// Signature is the structural key of a task list: the ordered (id, status)
// pairs. Two lists with equal signatures project to identical columns.
type Signature []signatureEntry

func SignatureOf(tasks []model.Task) Signature {
	out := make(Signature, len(tasks))
	for i, t := range tasks {
		out[i] = signatureEntry{id: t.ID, status: t.Status}
	}
	return out
}

func (s Signature) Equal(other Signature) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

func (s Signature) withStatus(id string, status model.Status) Signature {
	out := make(Signature, len(s))
	copy(out, s)
	for i := range out {
		if out[i].id == id {
			out[i].status = status
		}
	}
	return out
}

func cloneTasks(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
