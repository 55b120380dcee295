package model

import (
	"fmt"
	"time"
)

type FilterKind string

const (
	FilterAllTime   FilterKind = "all"
	FilterToday     FilterKind = "today"
	FilterThisWeek  FilterKind = "week"
	FilterThisMonth FilterKind = "month"
	FilterCustom    FilterKind = "custom"
)

// TimeFilter scopes duration aggregation to a named or explicit date range.
// Named windows are evaluated against "now" at query time.
type TimeFilter struct {
	Kind FilterKind `json:"kind"`
	From time.Time  `json:"from,omitempty"`
	To   time.Time  `json:"to,omitempty"`
}

func AllTime() TimeFilter   { return TimeFilter{Kind: FilterAllTime} }
func Today() TimeFilter     { return TimeFilter{Kind: FilterToday} }
func ThisWeek() TimeFilter  { return TimeFilter{Kind: FilterThisWeek} }
func ThisMonth() TimeFilter { return TimeFilter{Kind: FilterThisMonth} }

// Custom builds an inclusive [from, to] filter; to is extended to end of day.
func Custom(from, to time.Time) TimeFilter {
	return TimeFilter{Kind: FilterCustom, From: from, To: to}
}

// Contains reports whether ts falls inside the filter window evaluated at now.
// Unrecognized kinds behave like AllTime so dashboards keep rendering.
func (f TimeFilter) Contains(ts, now time.Time) bool {
	t := ts.In(now.Location())
	switch f.Kind {
	case FilterToday:
		y1, m1, d1 := t.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case FilterThisWeek:
		// ISO week
		y1, w1 := t.ISOWeek()
		y2, w2 := now.ISOWeek()
		return y1 == y2 && w1 == w2
	case FilterThisMonth:
		return t.Year() == now.Year() && t.Month() == now.Month()
	case FilterCustom:
		start := startOfDay(f.From)
		endExcl := startOfDay(f.To).AddDate(0, 0, 1)
		return !ts.Before(start) && ts.Before(endExcl)
	default:
		return true
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseFilterKind maps a query-string value to a filter kind.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case FilterAllTime, FilterToday, FilterThisWeek, FilterThisMonth, FilterCustom:
		return FilterKind(s), nil
	case "":
		return FilterAllTime, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// FormatHMS renders a tracked duration as HH:MM:SS. Tracked-time displays use
// this fixed precision; remaining-time labels use day granularity instead.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
