package service

import (
	"context"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// Store is the persistence port for subtask records. Bulk operations are
// all-or-nothing: any unknown id fails the whole batch with
// *model.NotFoundError and zero records modified.
type Store interface {
	CreateSubtask(ctx context.Context, s *model.Subtask) error
	GetSubtask(ctx context.Context, id string) (*model.Subtask, error)
	SaveSubtask(ctx context.Context, s *model.Subtask) error
	ListSubtasks(ctx context.Context) ([]*model.Subtask, error)
	BulkUpdate(ctx context.Context, ids []string, patch model.BulkPatch) error
	BulkDelete(ctx context.Context, ids []string) error
}
