package domain

import (
	"time"

	"taskforce/internal/workflow"
)

// ActionCreate marks the event written when a task is published.
const ActionCreate = "create"

// TaskEvent is an audit entry for a task status change.
type TaskEvent struct {
	ID         string
	TaskID     int64
	ActorID    int64
	Action     string
	FromStatus workflow.Status // zero for ActionCreate
	ToStatus   workflow.Status
	CreatedAt  time.Time
}
