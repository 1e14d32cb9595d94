package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"taskforce/internal/domain"
	"taskforce/internal/store"
	"taskforce/internal/workflow"
)

var _ store.Store = (*TaskStore)(nil)

func TestTaskStore_CreateAndGet(t *testing.T) {
	ts := New()
	ctx := context.Background()

	in := domain.Task{
		CustomerID:  5,
		Title:       "t1",
		Description: "d1",
		Status:      workflow.StatusCompleted,
	}

	created, err := ts.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create() err = %v, want nil", err)
	}
	if created.ID <= 0 {
		t.Fatalf("Create() id = %d, want > 0", created.ID)
	}
	if created.Status != workflow.StatusNew {
		t.Fatalf("Create() status = %s, want %s", created.Status, workflow.StatusNew)
	}
	if created.Version != 1 {
		t.Fatalf("Create() version = %d, want 1", created.Version)
	}

	got, err := ts.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() err = %v, want nil", err)
	}
	if got.ID != created.ID || got.Title != in.Title || got.Description != in.Description || got.CustomerID != 5 {
		t.Fatalf("Get() returned unexpected task: %+v", got)
	}
	if got.Status != workflow.StatusNew {
		t.Fatalf("Get() status = %s, want %s", got.Status, workflow.StatusNew)
	}
}

func TestTaskStore_Get_NotFound(t *testing.T) {
	ts := New()

	_, err := ts.Get(context.Background(), 9999)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestTaskStore_List(t *testing.T) {
	ts := New()
	ctx := context.Background()

	t1, _ := ts.Create(ctx, domain.Task{Title: "t1"})
	t2, _ := ts.Create(ctx, domain.Task{Title: "t2"})

	list, err := ts.List(ctx)
	if err != nil {
		t.Fatalf("List() err = %v, want nil", err)
	}
	if len(list) != 2 {
		t.Fatalf("List() len = %d, want 2", len(list))
	}
	if list[0].ID != t1.ID || list[1].ID != t2.ID {
		t.Fatalf("List() ids = [%d %d], want [%d %d]", list[0].ID, list[1].ID, t1.ID, t2.ID)
	}
}

func TestTaskStore_UpdateStatus(t *testing.T) {
	ts := New()
	ctx := context.Background()

	created, _ := ts.Create(ctx, domain.Task{Title: "t", CustomerID: 1})
	performer := int64(9)

	updated, err := ts.UpdateStatus(ctx, created.ID, created.Version, workflow.StatusInWork, &performer)
	if err != nil {
		t.Fatalf("UpdateStatus() err = %v, want nil", err)
	}
	if updated.Status != workflow.StatusInWork {
		t.Fatalf("UpdateStatus() Status = %s, want %s", updated.Status, workflow.StatusInWork)
	}
	if updated.Version != created.Version+1 {
		t.Fatalf("UpdateStatus() Version = %d, want %d", updated.Version, created.Version+1)
	}

	performer = 100

	got, err := ts.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() err = %v, want nil", err)
	}
	if got.Status != workflow.StatusInWork {
		t.Fatalf("Get() Status = %s, want %s", got.Status, workflow.StatusInWork)
	}
	if got.PerformerID == nil || *got.PerformerID != 9 {
		t.Fatalf("Get() PerformerID = %v, want 9", got.PerformerID)
	}
}

func TestTaskStore_UpdateStatus_StaleVersion(t *testing.T) {
	ts := New()
	ctx := context.Background()

	created, _ := ts.Create(ctx, domain.Task{Title: "t"})
	if _, err := ts.UpdateStatus(ctx, created.ID, created.Version, workflow.StatusCanceled, nil); err != nil {
		t.Fatalf("first UpdateStatus() err = %v, want nil", err)
	}

	_, err := ts.UpdateStatus(ctx, created.ID, created.Version, workflow.StatusInWork, nil)
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second UpdateStatus() err = %v, want %v", err, store.ErrConflict)
	}

	got, _ := ts.Get(ctx, created.ID)
	if got.Status != workflow.StatusCanceled {
		t.Fatalf("Get() Status = %s, want %s", got.Status, workflow.StatusCanceled)
	}
}

func TestTaskStore_UpdateStatus_NotFound(t *testing.T) {
	ts := New()

	_, err := ts.UpdateStatus(context.Background(), 321, 1, workflow.StatusCompleted, nil)
	if err == nil {
		t.Fatalf("UpdateStatus() err = nil, want non-nil")
	}
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("UpdateStatus() err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestTaskStore_Events(t *testing.T) {
	ts := New()
	ctx := context.Background()

	created, _ := ts.Create(ctx, domain.Task{Title: "t"})
	now := time.Now()

	second := domain.TaskEvent{ID: "b", TaskID: created.ID, Action: workflow.CodeRespond, CreatedAt: now.Add(time.Second)}
	first := domain.TaskEvent{ID: "a", TaskID: created.ID, Action: domain.ActionCreate, CreatedAt: now}

	if err := ts.AppendEvent(ctx, second); err != nil {
		t.Fatalf("AppendEvent() err = %v, want nil", err)
	}
	if err := ts.AppendEvent(ctx, first); err != nil {
		t.Fatalf("AppendEvent() err = %v, want nil", err)
	}

	events, err := ts.ListEvents(ctx, created.ID)
	if err != nil {
		t.Fatalf("ListEvents() err = %v, want nil", err)
	}
	if len(events) != 2 || events[0].ID != "a" || events[1].ID != "b" {
		t.Fatalf("ListEvents() = %+v, want [a b]", events)
	}

	if err := ts.AppendEvent(ctx, domain.TaskEvent{TaskID: 999}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("AppendEvent() unknown task err = %v, want %v", err, store.ErrNotFound)
	}
}

func TestTaskStore_ConcurrentUpdate_OneWins(t *testing.T) {
	ts := New()
	ctx := context.Background()

	created, _ := ts.Create(ctx, domain.Task{Title: "x"})

	const n = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins := 0

	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := ts.UpdateStatus(ctx, created.ID, created.Version, workflow.StatusCanceled, nil); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("successful updates = %d, want 1", wins)
	}
}

func TestTaskStore_ConcurrentCreate(t *testing.T) {
	ts := New()
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = ts.Create(ctx, domain.Task{Title: "x"})
		}()
	}

	wg.Wait()

	list, err := ts.List(ctx)
	if err != nil {
		t.Fatalf("List() err = %v, want nil", err)
	}
	if len(list) != n {
		t.Fatalf("List() len = %d, want %d", len(list), n)
	}
}
