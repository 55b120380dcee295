package model

import "time"

// TimeLogEntry is one interval of tracked work by one contributor. A nil
// EndTime means the interval is still open.
type TimeLogEntry struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	UserID    string     `json:"user_id"`
}

func (e TimeLogEntry) Open() bool {
	return e.EndTime == nil
}

// DurationAt returns the entry's duration, using now for open entries and
// clamping to zero.
func (e TimeLogEntry) DurationAt(now time.Time) time.Duration {
	end := now
	if e.EndTime != nil {
		end = *e.EndTime
	}
	d := end.Sub(e.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// OpenPolicy decides what happens when a user opens a second entry while one
// is already open on the same subtask.
type OpenPolicy string

const (
	// OpenPolicyAutoClose closes the prior open entry at the new start, so no
	// open interval is silently lost and nothing is double-counted.
	OpenPolicyAutoClose OpenPolicy = "autoclose"
	// OpenPolicyReject fails the call with ErrAlreadyOpenEntry.
	OpenPolicyReject OpenPolicy = "reject"
)

// ParseOpenPolicy falls back to autoclose for unknown values.
func ParseOpenPolicy(s string) OpenPolicy {
	if OpenPolicy(s) == OpenPolicyReject {
		return OpenPolicyReject
	}
	return OpenPolicyAutoClose
}

// TimeLedger is the append-only interval collection of one subtask.
// At most one entry per user is open at any instant.
type TimeLedger struct {
	TimeLogs []TimeLogEntry `json:"time_logs"`
}

func (l *TimeLedger) openIndexFor(userID string) int {
	for i := len(l.TimeLogs) - 1; i >= 0; i-- {
		if l.TimeLogs[i].UserID == userID && l.TimeLogs[i].Open() {
			return i
		}
	}
	return -1
}

func (l *TimeLedger) HasOpenEntry(userID string) bool {
	return l.openIndexFor(userID) >= 0
}

// OpenEntry appends an open entry for the user. An existing open entry for
// the same user is either closed at start or rejected, per policy.
func (l *TimeLedger) OpenEntry(userID string, start time.Time, policy OpenPolicy) error {
	if userID == "" {
		return ErrEmptyEmployeeID
	}
	if i := l.openIndexFor(userID); i >= 0 {
		if policy == OpenPolicyReject {
			return ErrAlreadyOpenEntry
		}
		end := start
		if end.Before(l.TimeLogs[i].StartTime) {
			// keep end >= start on the prior entry
			end = l.TimeLogs[i].StartTime
		}
		l.TimeLogs[i].EndTime = &end
	}
	l.TimeLogs = append(l.TimeLogs, TimeLogEntry{StartTime: start, UserID: userID})
	return nil
}

// CloseEntry closes the most recent open entry for the user.
func (l *TimeLedger) CloseEntry(userID string, end time.Time) error {
	if userID == "" {
		return ErrEmptyEmployeeID
	}
	i := l.openIndexFor(userID)
	if i < 0 {
		return ErrNoOpenEntry
	}
	if end.Before(l.TimeLogs[i].StartTime) {
		return ErrNonMonotonicTime
	}
	t := end
	l.TimeLogs[i].EndTime = &t
	return nil
}

// DurationWithin sums the durations of entries whose start time falls inside
// the filter window. Entries still open at query time contribute up to now.
func (l *TimeLedger) DurationWithin(f TimeFilter, now time.Time) time.Duration {
	var total time.Duration
	for _, e := range l.TimeLogs {
		if f.Contains(e.StartTime, now) {
			total += e.DurationAt(now)
		}
	}
	return total
}

// HasEntryWithin reports whether at least one entry starts inside the window.
// This backs list-level activity filtering, which is a distinct behavior from
// duration aggregation and must not be conflated with it.
func (l *TimeLedger) HasEntryWithin(f TimeFilter, now time.Time) bool {
	for _, e := range l.TimeLogs {
		if f.Contains(e.StartTime, now) {
			return true
		}
	}
	return false
}
