package model

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidStageIndex  = errors.New("invalid stage index")
	ErrNonMonotonicTime   = errors.New("end time before start time")
	ErrEmptyEmployeeID    = errors.New("employee id is empty")
	ErrInvalidPriority    = errors.New("invalid priority")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrNoChangesRequested = errors.New("no changes requested")
	ErrMissingField       = errors.New("missing required field")
)

// Conflict errors
var (
	ErrAlreadyOpenEntry = errors.New("time log already open for user")
	ErrNoOpenEntry      = errors.New("no open time log for user")
)

// Not-found / concurrency errors
var (
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrLockNotAcquired = errors.New("write lock not acquired")
)

// NotFoundError reports which ids of a batch were unknown. The whole batch is
// rejected, so callers can surface the exact offenders to the UI.
type NotFoundError struct {
	IDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("subtask not found: %s", strings.Join(e.IDs, ", "))
}

// Is makes errors.Is(err, ErrSubtaskNotFound) match batch not-found errors too.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrSubtaskNotFound
}
