package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/subtrackhq/go-subtrack-backend/internal/config"
	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// SubtaskService owns the write side of the subtask lifecycle. Mutations on a
// single record are serialized through its write lock; the store behind the
// port only ever sees one writer per id.
type SubtaskService struct {
	store    Store
	locks    *lockTable
	policy   model.OpenPolicy
	lockWait time.Duration
}

func NewSubtaskService(store Store, cfg *config.Config) *SubtaskService {
	return &SubtaskService{
		store:    store,
		locks:    newLockTable(),
		policy:   model.ParseOpenPolicy(cfg.TimeLogOpenPolicy),
		lockWait: time.Duration(cfg.LockWaitMs) * time.Millisecond,
	}
}

type CreateSubtaskInput struct {
	ProjectID   string         `json:"project_id" binding:"required"`
	TaskName    string         `json:"task_name" binding:"required"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	StageNames  []string       `json:"stages"`
	Priority    model.Priority `json:"priority"`
	AssignTo    string         `json:"assign_to"`
	AssignDate  time.Time      `json:"assign_date"`
	DueDate     time.Time      `json:"due_date" binding:"required"`
}

// Create builds a new record with all stages incomplete and an empty ledger.
func (s *SubtaskService) Create(ctx context.Context, in CreateSubtaskInput) (*model.Subtask, error) {
	if strings.TrimSpace(in.TaskName) == "" || strings.TrimSpace(in.ProjectID) == "" {
		return nil, model.ErrMissingField
	}
	if in.DueDate.IsZero() {
		return nil, model.ErrMissingField
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	} else if _, err := model.ParsePriority(string(priority)); err != nil {
		return nil, err
	}
	now := time.Now()
	assignDate := in.AssignDate
	if assignDate.IsZero() {
		assignDate = now
	}
	st := &model.Subtask{
		ID:            uuid.NewString(),
		ProjectID:     in.ProjectID,
		TaskName:      in.TaskName,
		Description:   in.Description,
		URL:           in.URL,
		StagePipeline: model.NewStagePipeline(in.StageNames),
		Priority:      priority,
		Status:        model.StatusToDo,
		AssignTo:      model.AssigneeRef(in.AssignTo),
		AssignDate:    assignDate,
		DueDate:       in.DueDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.CreateSubtask(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SubtaskService) Get(ctx context.Context, id string) (*model.Subtask, error) {
	return s.store.GetSubtask(ctx, id)
}

func (s *SubtaskService) List(ctx context.Context) ([]*model.Subtask, error) {
	return s.store.ListSubtasks(ctx)
}

// mutate runs fn against the locked record and persists the result.
func (s *SubtaskService) mutate(ctx context.Context, id string, fn func(*model.Subtask) error) (*model.Subtask, error) {
	if err := s.locks.acquire(id, s.lockWait); err != nil {
		return nil, err
	}
	defer s.locks.release(id)

	st, err := s.store.GetSubtask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	st.UpdatedAt = time.Now()
	if err := s.store.SaveSubtask(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *SubtaskService) CompleteStage(ctx context.Context, id string, index int, by string, at time.Time) (*model.Subtask, error) {
	return s.mutate(ctx, id, func(st *model.Subtask) error {
		return st.CompleteStage(index, by, at)
	})
}

func (s *SubtaskService) StartTimeLog(ctx context.Context, id, userID string, at time.Time) (*model.Subtask, error) {
	return s.mutate(ctx, id, func(st *model.Subtask) error {
		return st.OpenEntry(userID, at, s.policy)
	})
}

func (s *SubtaskService) StopTimeLog(ctx context.Context, id, userID string, at time.Time) (*model.Subtask, error) {
	return s.mutate(ctx, id, func(st *model.Subtask) error {
		return st.CloseEntry(userID, at)
	})
}

// Patch edits header fields only; it never touches the ledger or the stages.
func (s *SubtaskService) Patch(ctx context.Context, id string, p model.FieldPatch) (*model.Subtask, error) {
	if p.Empty() {
		return nil, model.ErrNoChangesRequested
	}
	return s.mutate(ctx, id, func(st *model.Subtask) error {
		if p.AssignTo != nil {
			if err := st.UpdateAssignment(*p.AssignTo); err != nil {
				return err
			}
		}
		if p.Priority != nil {
			if err := st.UpdatePriority(*p.Priority); err != nil {
				return err
			}
		}
		if p.Status != nil {
			if err := st.UpdateStatus(*p.Status); err != nil {
				return err
			}
		}
		if p.AssignDate != nil {
			st.AssignDate = *p.AssignDate
		}
		if p.DueDate != nil {
			st.DueDate = *p.DueDate
		}
		return nil
	})
}

// Delete removes the record with its stages and logs. Terminal.
func (s *SubtaskService) Delete(ctx context.Context, id string) error {
	if err := s.locks.acquire(id, s.lockWait); err != nil {
		return err
	}
	defer s.locks.release(id)
	return s.store.BulkDelete(ctx, []string{id})
}

// BulkUpdate applies one patch to every id, all-or-nothing. An empty patch is
// rejected up front so the API stays self-describing.
func (s *SubtaskService) BulkUpdate(ctx context.Context, ids []string, patch model.BulkPatch) error {
	if patch.Empty() || len(ids) == 0 {
		return model.ErrNoChangesRequested
	}
	if patch.AssignTo != nil && *patch.AssignTo == "" {
		return model.ErrEmptyEmployeeID
	}
	if patch.Priority != nil {
		if _, err := model.ParsePriority(string(*patch.Priority)); err != nil {
			return err
		}
	}
	held, err := s.locks.acquireAll(ids, s.lockWait)
	if err != nil {
		return err
	}
	defer s.locks.releaseAll(held)
	return s.store.BulkUpdate(ctx, held, patch)
}

// BulkDelete removes every id, all-or-nothing.
func (s *SubtaskService) BulkDelete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return model.ErrNoChangesRequested
	}
	held, err := s.locks.acquireAll(ids, s.lockWait)
	if err != nil {
		return err
	}
	defer s.locks.releaseAll(held)
	return s.store.BulkDelete(ctx, held)
}
