package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSubtask_RemainingTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		status    Status
		due       time.Time
		wantLabel string
	}{
		{"completed ignores due date", StatusCompleted, now.Add(-72 * time.Hour), "Completed"},
		{"completed with future due", StatusCompleted, now.Add(72 * time.Hour), "Completed"},
		{"overdue two days", StatusInProgress, now.Add(-48 * time.Hour), "Overdue"},
		{"due in future", StatusInProgress, now.Add(50*time.Hour + 30*time.Minute), "2d 2h 30m"},
		{"due right now", StatusToDo, now, "0d 0h 0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Subtask{Status: tt.status, DueDate: tt.due}
			if got := s.RemainingTime(now).Label(); got != tt.wantLabel {
				t.Errorf("RemainingTime().Label() = %q, want %q", got, tt.wantLabel)
			}
		})
	}
}

func TestSubtask_Setters(t *testing.T) {
	t.Parallel()

	s := Subtask{}

	if err := s.UpdateAssignment(""); !errors.Is(err, ErrEmptyEmployeeID) {
		t.Fatalf("expected ErrEmptyEmployeeID, got %v", err)
	}
	if err := s.UpdateAssignment("emp-2"); err != nil {
		t.Fatalf("UpdateAssignment: %v", err)
	}
	if s.AssignTo != "emp-2" {
		t.Fatalf("assign_to = %q, want emp-2", s.AssignTo)
	}

	if err := s.UpdatePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
	if err := s.UpdatePriority(PriorityHigh); err != nil {
		t.Fatalf("UpdatePriority: %v", err)
	}

	if err := s.UpdateStatus("done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if err := s.UpdateStatus(StatusBlocked); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestSubtask_ReassignmentKeepsLedgerAttribution(t *testing.T) {
	t.Parallel()

	s := Subtask{AssignTo: "emp-1"}
	if err := s.OpenEntry("emp-1", baseTime, OpenPolicyAutoClose); err != nil {
		t.Fatalf("OpenEntry: %v", err)
	}
	if err := s.CloseEntry("emp-1", baseTime.Add(time.Hour)); err != nil {
		t.Fatalf("CloseEntry: %v", err)
	}

	if err := s.UpdateAssignment("emp-2"); err != nil {
		t.Fatalf("UpdateAssignment: %v", err)
	}
	if s.TimeLogs[0].UserID != "emp-1" {
		t.Fatalf("historical entry reattributed to %q", s.TimeLogs[0].UserID)
	}
}

func TestAssigneeRef_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	var s Subtask
	data := []byte(`{"id": "st-1", "assign_to": {"id": "emp-7", "username": "jo"}}`)
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal populated shape: %v", err)
	}
	if s.AssignTo != "emp-7" {
		t.Fatalf("assign_to = %q, want emp-7", s.AssignTo)
	}

	data = []byte(`{"id": "st-2", "assign_to": "emp-9"}`)
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal raw id: %v", err)
	}
	if s.AssignTo != "emp-9" {
		t.Fatalf("assign_to = %q, want emp-9", s.AssignTo)
	}
}
