package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"taskforce/internal/domain"
	"taskforce/internal/store"
	"taskforce/internal/workflow"
)

var (
	ErrNotInitialized = errors.New("task store not initialized")
)

type TaskStore struct {
	mu     sync.RWMutex
	nextID int64
	tasks  map[int64]domain.Task
	events map[int64][]domain.TaskEvent
}

func New() *TaskStore {
	return &TaskStore{
		tasks:  make(map[int64]domain.Task),
		events: make(map[int64][]domain.TaskEvent),
	}
}

func (ts *TaskStore) Create(_ context.Context, task domain.Task) (domain.Task, error) {
	id := atomic.AddInt64(&ts.nextID, 1)

	task.ID = id

	// status is not definable by user, so here we set its init value
	task.Status = workflow.StatusNew
	task.PerformerID = copyID(task.PerformerID)
	task.Version = 1
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.UpdatedAt = task.CreatedAt

	ts.mu.Lock()
	ts.tasks[id] = task
	ts.mu.Unlock()

	return task, nil
}

func (ts *TaskStore) Get(_ context.Context, id int64) (domain.Task, error) {
	ts.mu.RLock()
	task, ok := ts.tasks[id]
	ts.mu.RUnlock()

	if !ok {
		return domain.Task{}, store.ErrNotFound
	}

	task.PerformerID = copyID(task.PerformerID)
	return task, nil
}

func (ts *TaskStore) List(_ context.Context) ([]domain.Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	if ts.tasks == nil {
		return nil, ErrNotInitialized
	}

	tasks := make([]domain.Task, 0, len(ts.tasks))
	for _, t := range ts.tasks {
		t.PerformerID = copyID(t.PerformerID)
		tasks = append(tasks, t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })

	return tasks, nil
}

func (ts *TaskStore) UpdateStatus(_ context.Context, id, expectedVersion int64, status workflow.Status, performerID *int64) (domain.Task, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	task, ok := ts.tasks[id]
	if !ok {
		return domain.Task{}, store.ErrNotFound
	}
	if task.Version != expectedVersion {
		return domain.Task{}, store.ErrConflict
	}

	task.Status = status
	task.PerformerID = copyID(performerID)
	task.Version++
	task.UpdatedAt = time.Now().UTC()
	ts.tasks[id] = task

	task.PerformerID = copyID(task.PerformerID)
	return task, nil
}

func (ts *TaskStore) AppendEvent(_ context.Context, e domain.TaskEvent) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, ok := ts.tasks[e.TaskID]; !ok {
		return store.ErrNotFound
	}
	ts.events[e.TaskID] = append(ts.events[e.TaskID], e)
	return nil
}

func (ts *TaskStore) ListEvents(_ context.Context, taskID int64) ([]domain.TaskEvent, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	events := ts.events[taskID]
	out := make([]domain.TaskEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (ts *TaskStore) Close() error { return nil }

// stored tasks never share the performer pointer with callers
func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
