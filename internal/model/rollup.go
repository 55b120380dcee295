package model

import "fmt"

type GroupBy string

const (
	GroupByProject    GroupBy = "project"
	GroupByEmployee   GroupBy = "employee"
	GroupByDepartment GroupBy = "department"
)

func ParseGroupBy(s string) (GroupBy, error) {
	switch GroupBy(s) {
	case GroupByProject, GroupByEmployee, GroupByDepartment:
		return GroupBy(s), nil
	}
	return "", fmt.Errorf("unknown group_by %q", s)
}

// GroupRollup is a derived summary over one grouping key, computed fresh per
// query and never persisted. A member subtask counts even when none of its
// logs fall inside the filter window.
type GroupRollup struct {
	Key                 string         `json:"key"`
	SubtaskCount        int            `json:"subtask_count"`
	CompletedCount      int            `json:"completed_count"`
	TotalTrackedSeconds int64          `json:"total_tracked_seconds"`
	ByStatusCounts      map[Status]int `json:"by_status_counts"`

	// Employee rollups only
	TotalHours       float64 `json:"total_hours,omitempty"`
	WorkloadCategory string  `json:"workload_category,omitempty"`
}

// SubtaskSummary is the per-subtask dashboard shape.
type SubtaskSummary struct {
	ID              string   `json:"id"`
	TaskName        string   `json:"task_name"`
	ProjectID       string   `json:"project_id"`
	Status          Status   `json:"status"`
	Priority        Priority `json:"priority"`
	ProgressPercent int      `json:"progress_percent"`
	CurrentStage    string   `json:"current_stage"`
	RemainingTime   string   `json:"remaining_time"`
	TrackedSeconds  int64    `json:"tracked_seconds"`
	TrackedHMS      string   `json:"tracked_hms"`
}
