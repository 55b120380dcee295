package model

import "time"

// BulkPatch applies the same changes to every subtask in a selection set.
type BulkPatch struct {
	AssignTo *string   `json:"assign_to,omitempty"`
	Priority *Priority `json:"priority,omitempty"`
}

func (p BulkPatch) Empty() bool {
	return p.AssignTo == nil && p.Priority == nil
}

// FieldPatch is the single-record update path: header fields only, never the
// ledger or the stage list.
type FieldPatch struct {
	AssignTo   *string    `json:"assign_to,omitempty"`
	Priority   *Priority  `json:"priority,omitempty"`
	Status     *Status    `json:"status,omitempty"`
	AssignDate *time.Time `json:"assign_date,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

func (p FieldPatch) Empty() bool {
	return p.AssignTo == nil && p.Priority == nil && p.Status == nil &&
		p.AssignDate == nil && p.DueDate == nil
}
