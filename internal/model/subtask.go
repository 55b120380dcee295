package model

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	}
	return "", ErrInvalidPriority
}

type Status string

const (
	StatusToDo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusPaused     Status = "paused"
	StatusBlocked    Status = "blocked"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusToDo, StatusInProgress, StatusInReview, StatusPaused, StatusBlocked, StatusCompleted:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Subtask is the aggregate root: header fields plus the stage pipeline and the
// time ledger. Created with all stages incomplete and an empty ledger; removed
// only by explicit delete.
type Subtask struct {
	ID          string `json:"id"`
	ProjectID   string `json:"project_id"`
	TaskName    string `json:"task_name"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	StagePipeline
	Priority   Priority    `json:"priority"`
	Status     Status      `json:"status"`
	AssignTo   AssigneeRef `json:"assign_to,omitempty"`
	AssignDate time.Time   `json:"assign_date"`
	DueDate    time.Time   `json:"due_date"`
	TimeLedger
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateAssignment reassigns the subtask. Historical time logs keep their
// original user_id; attribution is never rewritten.
func (s *Subtask) UpdateAssignment(employeeID string) error {
	if employeeID == "" {
		return ErrEmptyEmployeeID
	}
	s.AssignTo = AssigneeRef(employeeID)
	return nil
}

func (s *Subtask) UpdatePriority(p Priority) error {
	if _, err := ParsePriority(string(p)); err != nil {
		return err
	}
	s.Priority = p
	return nil
}

func (s *Subtask) UpdateStatus(st Status) error {
	if _, err := ParseStatus(string(st)); err != nil {
		return err
	}
	s.Status = st
	return nil
}

// RemainingTime is either a sentinel (completed, overdue) or a positive
// duration until the due date.
type RemainingTime struct {
	Completed bool          `json:"completed"`
	Overdue   bool          `json:"overdue"`
	Duration  time.Duration `json:"-"`
}

// Label renders remaining time at day/hour/minute granularity. Tracked time
// uses HH:MM:SS instead; the two precisions are intentionally different.
func (r RemainingTime) Label() string {
	if r.Completed {
		return "Completed"
	}
	if r.Overdue {
		return "Overdue"
	}
	d := r.Duration
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	mins := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%dd %dh %dm", days, hours, mins)
}

// RemainingTime reports time until due. A completed subtask reports the
// Completed sentinel regardless of its due date.
func (s *Subtask) RemainingTime(now time.Time) RemainingTime {
	if s.Status == StatusCompleted {
		return RemainingTime{Completed: true}
	}
	d := s.DueDate.Sub(now)
	if d < 0 {
		return RemainingTime{Overdue: true}
	}
	return RemainingTime{Duration: d}
}
