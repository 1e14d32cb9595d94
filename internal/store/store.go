package store

import (
	"context"
	"errors"

	"taskforce/internal/domain"
	"taskforce/internal/workflow"
)

var (
	ErrNotFound = errors.New("task not found")
	// ErrConflict means the task changed since it was read.
	ErrConflict = errors.New("task was modified concurrently")
)

// TaskStore persists tasks. Create assigns ID and Version and always stores
// the task as new.
type TaskStore interface {
	Create(ctx context.Context, t domain.Task) (domain.Task, error)
	Get(ctx context.Context, id int64) (domain.Task, error)
	List(ctx context.Context) ([]domain.Task, error)

	// UpdateStatus writes status and performer only if the stored version
	// still equals expectedVersion, then bumps the version.
	UpdateStatus(ctx context.Context, id, expectedVersion int64, status workflow.Status, performerID *int64) (domain.Task, error)
}

type EventStore interface {
	AppendEvent(ctx context.Context, e domain.TaskEvent) error
	// ListEvents returns the history of one task, oldest first.
	ListEvents(ctx context.Context, taskID int64) ([]domain.TaskEvent, error)
}

// Store is what a storage backend provides.
type Store interface {
	TaskStore
	EventStore
	Close() error
}
