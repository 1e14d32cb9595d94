package domain

import (
	"time"

	"taskforce/internal/workflow"
)

type Task struct {
	ID          int64
	CustomerID  int64
	PerformerID *int64 // nil until somebody responds
	Title       string
	Description string

	Status workflow.Status

	// Version is bumped on every status change and guards concurrent writers.
	Version int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State builds the workflow view of the task for one viewer.
func (t Task) State(userID int64) (workflow.TaskState, error) {
	return workflow.NewTaskState(t.ID, t.PerformerID, t.CustomerID, userID, int(t.Status))
}
