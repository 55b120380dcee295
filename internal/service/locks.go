package service

import (
	"sort"
	"sync"
	"time"

	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

// lockTable serializes writes per subtask id. Every mutating operation holds
// the record's lock for its full duration; reads aggregate over store
// snapshots and never take these locks.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]chan struct{})}
}

func (t *lockTable) lockFor(id string) chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	ch, ok := t.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		t.locks[id] = ch
	}
	return ch
}

// acquire takes the exclusive lock for id, failing with ErrLockNotAcquired
// after wait so the caller can retry.
func (t *lockTable) acquire(id string, wait time.Duration) error {
	ch := t.lockFor(id)
	select {
	case ch <- struct{}{}:
		return nil
	default:
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case ch <- struct{}{}:
		return nil
	case <-timer.C:
		return model.ErrLockNotAcquired
	}
}

func (t *lockTable) release(id string) {
	<-t.lockFor(id)
}

// acquireAll locks every id in sorted order, so overlapping bulk operations
// cannot deadlock. On failure nothing stays held.
func (t *lockTable) acquireAll(ids []string, wait time.Duration) ([]string, error) {
	sorted := sortedUnique(ids)
	for i, id := range sorted {
		if err := t.acquire(id, wait); err != nil {
			for _, held := range sorted[:i] {
				t.release(held)
			}
			return nil, err
		}
	}
	return sorted, nil
}

func (t *lockTable) releaseAll(ids []string) {
	for _, id := range ids {
		t.release(id)
	}
}

func sortedUnique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
