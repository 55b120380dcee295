package utils

import (
	"time"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// ConvertSubtaskToSummary builds the dashboard shape for one subtask under a
// filter window.
func ConvertSubtaskToSummary(st *model.Subtask, f model.TimeFilter, now time.Time) model.SubtaskSummary {
	tracked := st.DurationWithin(f, now)
	return model.SubtaskSummary{
		ID:              st.ID,
		TaskName:        st.TaskName,
		ProjectID:       st.ProjectID,
		Status:          st.Status,
		Priority:        st.Priority,
		ProgressPercent: st.ProgressPercent(),
		CurrentStage:    st.CurrentStageName(),
		RemainingTime:   st.RemainingTime(now).Label(),
		TrackedSeconds:  int64(tracked / time.Second),
		TrackedHMS:      model.FormatHMS(tracked),
	}
}

func ConvertSubtasksToSummaries(subtasks []*model.Subtask, f model.TimeFilter, now time.Time) []model.SubtaskSummary {
	out := make([]model.SubtaskSummary, 0, len(subtasks))
	for _, st := range subtasks {
		out = append(out, ConvertSubtaskToSummary(st, f, now))
	}
	return out
}
