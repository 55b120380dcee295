package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// fakeStore is an in-memory Store with the same all-or-nothing bulk semantics
// as the Postgres repository.
type fakeStore struct {
	mu       sync.RWMutex
	subtasks map[string]*model.Subtask
}

func newFakeStore() *fakeStore {
	return &fakeStore{subtasks: make(map[string]*model.Subtask)}
}

func cloneSubtask(s *model.Subtask) *model.Subtask {
	out := *s
	out.Stages = append([]model.Stage(nil), s.Stages...)
	out.TimeLogs = append([]model.TimeLogEntry(nil), s.TimeLogs...)
	if s.CurrentStageIndex != nil {
		v := *s.CurrentStageIndex
		out.CurrentStageIndex = &v
	}
	return &out
}

func (f *fakeStore) CreateSubtask(_ context.Context, s *model.Subtask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subtasks[s.ID] = cloneSubtask(s)
	return nil
}

func (f *fakeStore) GetSubtask(_ context.Context, id string) (*model.Subtask, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.subtasks[id]
	if !ok {
		return nil, model.ErrSubtaskNotFound
	}
	return cloneSubtask(s), nil
}

func (f *fakeStore) SaveSubtask(_ context.Context, s *model.Subtask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subtasks[s.ID]; !ok {
		return model.ErrSubtaskNotFound
	}
	f.subtasks[s.ID] = cloneSubtask(s)
	return nil
}

func (f *fakeStore) ListSubtasks(_ context.Context) ([]*model.Subtask, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := make([]string, 0, len(f.subtasks))
	for id := range f.subtasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*model.Subtask, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneSubtask(f.subtasks[id]))
	}
	return out, nil
}

func (f *fakeStore) missing(ids []string) []string {
	var missing []string
	for _, id := range ids {
		if _, ok := f.subtasks[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	return missing
}

func (f *fakeStore) BulkUpdate(_ context.Context, ids []string, patch model.BulkPatch) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if missing := f.missing(ids); len(missing) > 0 {
		return &model.NotFoundError{IDs: missing}
	}
	for _, id := range ids {
		s := f.subtasks[id]
		if patch.AssignTo != nil {
			s.AssignTo = model.AssigneeRef(*patch.AssignTo)
		}
		if patch.Priority != nil {
			s.Priority = *patch.Priority
		}
	}
	return nil
}

func (f *fakeStore) BulkDelete(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if missing := f.missing(ids); len(missing) > 0 {
		return &model.NotFoundError{IDs: missing}
	}
	for _, id := range ids {
		delete(f.subtasks, id)
	}
	return nil
}

// fakeDirectory maps employee ids to departments.
type fakeDirectory struct {
	departments map[string]string
}

func (d *fakeDirectory) DepartmentOf(_ context.Context, employeeID string) (string, error) {
	dept, ok := d.departments[employeeID]
	if !ok {
		return "", errors.New("employee not found")
	}
	return dept, nil
}
