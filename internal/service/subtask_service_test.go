package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/subtrackhq/go-subtrack-backend/internal/config"
	"github.com/subtrackhq/go-subtrack-backend/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		TimeLogOpenPolicy: "autoclose",
		LockWaitMs:        500,
		WorkloadUnderload: 35,
		WorkloadNormalMin: 36,
		WorkloadNormalMax: 45,
		WorkloadOverload:  60,
	}
}

func newServiceWithFakeStore(t *testing.T) (*fakeStore, *SubtaskService) {
	t.Helper()
	store := newFakeStore()
	return store, NewSubtaskService(store, testConfig())
}

func mustCreateSubtask(t *testing.T, svc *SubtaskService, project, name string) *model.Subtask {
	t.Helper()
	st, err := svc.Create(context.Background(), CreateSubtaskInput{
		ProjectID:  project,
		TaskName:   name,
		StageNames: []string{"design", "build", "review"},
		DueDate:    time.Now().Add(7 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("failed to prepare subtask: %v", err)
	}
	return st
}

func TestSubtaskService_Create_Defaults(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeStore(t)
	st := mustCreateSubtask(t, svc, "proj-1", "cut panels")

	if st.Status != model.StatusToDo {
		t.Fatalf("status = %q, want todo", st.Status)
	}
	if st.Priority != model.PriorityMedium {
		t.Fatalf("priority = %q, want medium", st.Priority)
	}
	if len(st.TimeLogs) != 0 {
		t.Fatal("new subtask must have an empty ledger")
	}
	if st.CompletedStageCount() != 0 {
		t.Fatal("new subtask must have all stages incomplete")
	}
}

func TestSubtaskService_Create_Validation(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeStore(t)

	_, err := svc.Create(context.Background(), CreateSubtaskInput{ProjectID: "p", TaskName: "  ", DueDate: time.Now()})
	if !errors.Is(err, model.ErrMissingField) {
		t.Fatalf("expected ErrMissingField, got %v", err)
	}
	_, err = svc.Create(context.Background(), CreateSubtaskInput{ProjectID: "p", TaskName: "x"})
	if !errors.Is(err, model.ErrMissingField) {
		t.Fatalf("expected ErrMissingField for zero due date, got %v", err)
	}
}

func TestSubtaskService_TimeLogRoundTrip(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeStore(t)
	st := mustCreateSubtask(t, svc, "proj-1", "cut panels")

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.StartTimeLog(context.Background(), st.ID, "emp-1", start); err != nil {
		t.Fatalf("StartTimeLog: %v", err)
	}
	got, err := svc.StopTimeLog(context.Background(), st.ID, "emp-1", start.Add(time.Hour))
	if err != nil {
		t.Fatalf("StopTimeLog: %v", err)
	}
	if got.HasOpenEntry("emp-1") {
		t.Fatal("entry should be closed")
	}
	if d := got.DurationWithin(model.AllTime(), start.Add(2*time.Hour)); d != time.Hour {
		t.Fatalf("tracked = %v, want 1h", d)
	}

	_, err = svc.StopTimeLog(context.Background(), st.ID, "emp-1", start.Add(2*time.Hour))
	if !errors.Is(err, model.ErrNoOpenEntry) {
		t.Fatalf("expected ErrNoOpenEntry, got %v", err)
	}
}

func TestSubtaskService_CompleteStage_PersistsStamp(t *testing.T) {
	t.Parallel()

	store, svc := newServiceWithFakeStore(t)
	st := mustCreateSubtask(t, svc, "proj-1", "cut panels")

	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	if _, err := svc.CompleteStage(context.Background(), st.ID, 1, "emp-1", at); err != nil {
		t.Fatalf("CompleteStage: %v", err)
	}

	stored, err := store.GetSubtask(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("GetSubtask: %v", err)
	}
	if !stored.Stages[1].Completed || stored.Stages[1].CompletedBy != "emp-1" {
		t.Fatalf("stage stamp not persisted: %+v", stored.Stages[1])
	}

	_, err = svc.CompleteStage(context.Background(), st.ID, 9, "emp-1", at)
	if !errors.Is(err, model.ErrInvalidStageIndex) {
		t.Fatalf("expected ErrInvalidStageIndex, got %v", err)
	}
}

func TestSubtaskService_Patch_EmptyPatch(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeStore(t)
	st := mustCreateSubtask(t, svc, "proj-1", "cut panels")

	_, err := svc.Patch(context.Background(), st.ID, model.FieldPatch{})
	if !errors.Is(err, model.ErrNoChangesRequested) {
		t.Fatalf("expected ErrNoChangesRequested, got %v", err)
	}
}

func TestSubtaskService_BulkUpdate_EmptyPatch(t *testing.T) {
	t.Parallel()

	store, svc := newServiceWithFakeStore(t)
	a := mustCreateSubtask(t, svc, "proj-1", "a")
	b := mustCreateSubtask(t, svc, "proj-1", "b")

	err := svc.BulkUpdate(context.Background(), []string{a.ID, b.ID}, model.BulkPatch{})
	if !errors.Is(err, model.ErrNoChangesRequested) {
		t.Fatalf("expected ErrNoChangesRequested, got %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, err := store.GetSubtask(context.Background(), id)
		if err != nil {
			t.Fatalf("GetSubtask: %v", err)
		}
		if got.Priority != model.PriorityMedium || got.AssignTo != "" {
			t.Fatalf("record %s modified by empty patch", id)
		}
	}
}

func TestSubtaskService_BulkUpdate_UnknownIDIsAtomic(t *testing.T) {
	t.Parallel()

	store, svc := newServiceWithFakeStore(t)
	a := mustCreateSubtask(t, svc, "proj-1", "a")
	c := mustCreateSubtask(t, svc, "proj-1", "c")

	high := model.PriorityHigh
	err := svc.BulkUpdate(context.Background(), []string{a.ID, "missing-b", c.ID}, model.BulkPatch{Priority: &high})

	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(nf.IDs) != 1 || nf.IDs[0] != "missing-b" {
		t.Fatalf("error should name the missing id, got %v", nf.IDs)
	}
	if !errors.Is(err, model.ErrSubtaskNotFound) {
		t.Fatal("NotFoundError should match ErrSubtaskNotFound")
	}

	for _, id := range []string{a.ID, c.ID} {
		got, _ := store.GetSubtask(context.Background(), id)
		if got.Priority != model.PriorityMedium {
			t.Fatalf("record %s partially updated", id)
		}
	}
}

func TestSubtaskService_BulkUpdate_AppliesPatch(t *testing.T) {
	t.Parallel()

	store, svc := newServiceWithFakeStore(t)
	a := mustCreateSubtask(t, svc, "proj-1", "a")
	b := mustCreateSubtask(t, svc, "proj-2", "b")

	high := model.PriorityHigh
	emp := "emp-5"
	err := svc.BulkUpdate(context.Background(), []string{a.ID, b.ID, a.ID}, model.BulkPatch{Priority: &high, AssignTo: &emp})
	if err != nil {
		t.Fatalf("BulkUpdate: %v", err)
	}

	for _, id := range []string{a.ID, b.ID} {
		got, _ := store.GetSubtask(context.Background(), id)
		if got.Priority != model.PriorityHigh || got.AssignTo != "emp-5" {
			t.Fatalf("patch not applied to %s: %+v", id, got)
		}
	}
}

func TestSubtaskService_BulkDelete(t *testing.T) {
	t.Parallel()

	store, svc := newServiceWithFakeStore(t)
	a := mustCreateSubtask(t, svc, "proj-1", "a")
	b := mustCreateSubtask(t, svc, "proj-1", "b")

	err := svc.BulkDelete(context.Background(), []string{a.ID, "ghost"})
	var nf *model.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if _, err := store.GetSubtask(context.Background(), a.ID); err != nil {
		t.Fatal("no record may be deleted when the batch fails")
	}

	if err := svc.BulkDelete(context.Background(), []string{a.ID, b.ID}); err != nil {
		t.Fatalf("BulkDelete: %v", err)
	}
	if _, err := store.GetSubtask(context.Background(), a.ID); !errors.Is(err, model.ErrSubtaskNotFound) {
		t.Fatal("record a should be gone")
	}
}

func TestSubtaskService_ConcurrentStartStop_NoDoubleCount(t *testing.T) {
	t.Parallel()

	_, svc := newServiceWithFakeStore(t)
	st := mustCreateSubtask(t, svc, "proj-1", "race")

	base := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			at := base.Add(time.Duration(i) * time.Minute)
			if i%2 == 0 {
				svc.StartTimeLog(context.Background(), st.ID, "emp-1", at)
			} else {
				svc.StopTimeLog(context.Background(), st.ID, "emp-1", at)
			}
		}(i)
	}
	wg.Wait()

	got, err := svc.Get(context.Background(), st.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	open := 0
	for _, e := range got.TimeLogs {
		if e.Open() {
			open++
		}
	}
	if open > 1 {
		t.Fatalf("found %d open entries for one user, want at most 1", open)
	}

	now := base.Add(time.Hour)
	if total := got.DurationWithin(model.AllTime(), now); total > now.Sub(base) {
		t.Fatalf("tracked %v exceeds wall clock %v", total, now.Sub(base))
	}
}

func TestLockTable_Timeout(t *testing.T) {
	t.Parallel()

	locks := newLockTable()
	if err := locks.acquire("id-1", 10*time.Millisecond); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if err := locks.acquire("id-1", 10*time.Millisecond); !errors.Is(err, model.ErrLockNotAcquired) {
		t.Fatalf("expected ErrLockNotAcquired, got %v", err)
	}
	locks.release("id-1")
	if err := locks.acquire("id-1", 10*time.Millisecond); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	locks.release("id-1")
}

func TestLockTable_OverlappingBulkAcquire(t *testing.T) {
	t.Parallel()

	locks := newLockTable()
	// two overlapping selections, opposite declaration order
	setA := []string{"a", "b", "c"}
	setB := []string{"c", "b", "d"}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if held, err := locks.acquireAll(setA, time.Second); err == nil {
				locks.releaseAll(held)
			}
		}()
		go func() {
			defer wg.Done()
			if held, err := locks.acquireAll(setB, time.Second); err == nil {
				locks.releaseAll(held)
			}
		}()
	}
	wg.Wait()
}
