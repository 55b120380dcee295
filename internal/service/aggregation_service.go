package service

import (
	"context"
	"sort"
	"time"

	"github.com/subtrackhq/go-subtrack-backend/internal/config"
	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// Directory resolves employee ids to departments for department rollups.
type Directory interface {
	DepartmentOf(ctx context.Context, employeeID string) (string, error)
}

const (
	keyUnassigned = "unassigned"
	keyUnknown    = "unknown"
)

// AggregationService is the read side: group rollups and activity-filtered
// listings over a store snapshot. It never fails on an individual record and
// never blocks on write locks.
type AggregationService struct {
	store Store
	dir   Directory
	cfg   *config.Config
}

func NewAggregationService(store Store, dir Directory, cfg *config.Config) *AggregationService {
	return &AggregationService{store: store, dir: dir, cfg: cfg}
}

func (a *AggregationService) groupKey(ctx context.Context, st *model.Subtask, groupBy model.GroupBy) string {
	switch groupBy {
	case model.GroupByProject:
		if st.ProjectID == "" {
			return keyUnknown
		}
		return st.ProjectID
	case model.GroupByEmployee:
		if st.AssignTo == "" {
			return keyUnassigned
		}
		return st.AssignTo.String()
	case model.GroupByDepartment:
		if st.AssignTo == "" {
			return keyUnassigned
		}
		dept, err := a.dir.DepartmentOf(ctx, st.AssignTo.String())
		if err != nil || dept == "" {
			return keyUnknown
		}
		return dept
	}
	return keyUnknown
}

// Rollup summarizes every subtask under the filter window, grouped by project,
// employee, or department. Members with zero tracked seconds in the window
// still count; list-level activity filtering is ListWithActivity.
func (a *AggregationService) Rollup(ctx context.Context, f model.TimeFilter, groupBy model.GroupBy, now time.Time) ([]model.GroupRollup, error) {
	records, err := a.store.ListSubtasks(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*model.GroupRollup)
	for _, st := range records {
		key := a.groupKey(ctx, st, groupBy)
		g, ok := groups[key]
		if !ok {
			g = &model.GroupRollup{Key: key, ByStatusCounts: make(map[model.Status]int)}
			groups[key] = g
		}
		g.SubtaskCount++
		g.ByStatusCounts[st.Status]++
		if st.Status == model.StatusCompleted {
			g.CompletedCount++
		}
		g.TotalTrackedSeconds += int64(st.DurationWithin(f, now) / time.Second)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.GroupRollup, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		if groupBy == model.GroupByEmployee {
			g.TotalHours = float64(g.TotalTrackedSeconds) / 3600.0
			g.WorkloadCategory = a.workloadCategory(g.TotalHours)
		}
		out = append(out, *g)
	}
	return out, nil
}

// workloadCategory buckets weekly hours against the configured thresholds.
func (a *AggregationService) workloadCategory(hours float64) string {
	switch {
	case hours <= a.cfg.WorkloadUnderload:
		return "underload"
	case hours >= a.cfg.WorkloadOverload:
		return "overload"
	default:
		return "normal"
	}
}

// ListWithActivity returns only subtasks with at least one time log starting
// inside the window. This is the list-level filter the dashboards use, kept
// separate from duration aggregation.
func (a *AggregationService) ListWithActivity(ctx context.Context, f model.TimeFilter, now time.Time) ([]*model.Subtask, error) {
	records, err := a.store.ListSubtasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Subtask, 0, len(records))
	for _, st := range records {
		if st.HasEntryWithin(f, now) {
			out = append(out, st)
		}
	}
	return out, nil
}
