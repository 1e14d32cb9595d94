package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskforce/internal/domain"
	"taskforce/internal/logger"
	"taskforce/internal/store"
	"taskforce/internal/workerpool"
	"taskforce/internal/workflow"
)

type TaskStore interface {
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Get(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)
	UpdateStatus(ctx context.Context, id, expectedVersion int64, status workflow.Status, performerID *int64) (domain.Task, error)
	AppendEvent(ctx context.Context, e domain.TaskEvent) error
	ListEvents(ctx context.Context, taskID int64) ([]domain.TaskEvent, error)
}

// TaskView is a task as seen by one viewer.
type TaskView struct {
	Task domain.Task

	// Available lists the candidate actions for the status, for anyone.
	Available []workflow.ActionKind

	// Action is the single action offered to the viewer, if any.
	Action *workflow.Resolution

	// NextStatus is where Action leads.
	NextStatus *workflow.Status
}

type TaskService struct {
	store TaskStore
	pool  workerpool.EventPool
	log   logger.Logger
	now   func() time.Time
}

func New(store TaskStore, pool workerpool.EventPool, log logger.Logger) (*TaskService, error) {
	if store == nil {
		return nil, ErrStoreNil
	}
	if pool == nil {
		return nil, ErrPoolNil
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &TaskService{
		store: store,
		pool:  pool,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *TaskService) CreateTask(ctx context.Context, customerID int64, title, description string) (domain.Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	// assumption: description is optional
	if title == "" || customerID <= 0 {
		return domain.Task{}, ErrInvalidInput
	}

	created, err := s.store.Create(ctx, domain.Task{
		CustomerID:  customerID,
		Title:       title,
		Description: description,
		CreatedAt:   s.now(),
	})
	if err != nil {
		return domain.Task{}, err
	}

	s.log.Info("task created", "task_id", created.ID, "customer_id", customerID)
	s.record(ctx, domain.TaskEvent{
		TaskID:   created.ID,
		ActorID:  customerID,
		Action:   domain.ActionCreate,
		ToStatus: created.Status,
	})

	return created, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (domain.Task, error) {
	if id <= 0 {
		return domain.Task{}, ErrInvalidID
	}

	task, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Task{}, ErrNotFound
	}
	if err != nil {
		return domain.Task{}, err
	}
	return task, nil
}

func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.store.List(ctx)
}

// ViewTask resolves what the viewer may do with the task. userID 0 is an
// anonymous viewer and gets no action.
func (s *TaskService) ViewTask(ctx context.Context, id, userID int64) (TaskView, error) {
	if userID < 0 {
		return TaskView{}, ErrInvalidUser
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return TaskView{}, err
	}

	state, err := s.state(task, userID)
	if err != nil {
		return TaskView{}, err
	}

	view := TaskView{
		Task:      task,
		Available: workflow.AvailableActions(state),
	}
	if userID == 0 {
		return view, nil
	}

	if res, ok := workflow.ResolveAction(state); ok {
		view.Action = &res
	}
	if next, ok := workflow.NextStatus(state); ok {
		view.NextStatus = &next
	}
	return view, nil
}

// ApplyAction performs the action named by code on behalf of userID and
// persists the resulting status. The write only lands if the task is still at
// the version that was read.
func (s *TaskService) ApplyAction(ctx context.Context, id, userID int64, code string) (domain.Task, error) {
	if userID <= 0 {
		return domain.Task{}, ErrInvalidUser
	}

	action, ok := workflow.ParseAction(code)
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %q", ErrUnknownAction, code)
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return domain.Task{}, err
	}

	state, err := s.state(task, userID)
	if err != nil {
		return domain.Task{}, err
	}

	if !slices.Contains(workflow.PermittedActions(state), action) {
		s.log.Warn("action rejected",
			"task_id", id, "user_id", userID, "action", code, "status", task.Status.String())
		return domain.Task{}, fmt.Errorf("%w: %s on %s task", ErrActionNotPermitted, code, task.Status)
	}

	next := workflow.NextStatusFor(action)

	performerID := task.PerformerID
	if action == workflow.ActionRespond {
		performerID = &userID
	}

	updated, err := s.store.UpdateStatus(ctx, task.ID, task.Version, next, performerID)
	switch {
	case errors.Is(err, store.ErrConflict):
		return domain.Task{}, ErrConflict
	case errors.Is(err, store.ErrNotFound):
		return domain.Task{}, ErrNotFound
	case err != nil:
		return domain.Task{}, err
	}

	s.log.Info("task status changed",
		"task_id", id, "user_id", userID, "action", code,
		"from", task.Status.String(), "to", next.String())
	s.record(ctx, domain.TaskEvent{
		TaskID:     id,
		ActorID:    userID,
		Action:     code,
		FromStatus: task.Status,
		ToStatus:   next,
	})

	return updated, nil
}

func (s *TaskService) TaskEvents(ctx context.Context, id int64) ([]domain.TaskEvent, error) {
	if _, err := s.GetTask(ctx, id); err != nil {
		return nil, err
	}
	return s.store.ListEvents(ctx, id)
}

func (s *TaskService) state(task domain.Task, userID int64) (workflow.TaskState, error) {
	state, err := task.State(userID)
	if err != nil {
		// stored data is corrupt; never guess a status
		s.log.Error("task has invalid status", "task_id", task.ID, "status", int(task.Status), "error", err)
		return workflow.TaskState{}, fmt.Errorf("task %d: %w", task.ID, err)
	}
	return state, nil
}

// record hands the event to the pool, writing it inline when the pool
// rejects it so history is not lost.
func (s *TaskService) record(ctx context.Context, e domain.TaskEvent) {
	e.ID = uuid.NewString()
	e.CreatedAt = s.now()

	err := s.pool.Enqueue(e)
	if err == nil {
		return
	}

	s.log.Warn("event pool rejected event, writing inline", "task_id", e.TaskID, "reason", err)
	if err := s.store.AppendEvent(ctx, e); err != nil {
		s.log.Error("failed to record task event", "task_id", e.TaskID, "action", e.Action, "error", err)
	}
}
