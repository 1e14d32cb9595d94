package workflow

import (
	"errors"
	"fmt"
)

// Status is the persisted lifecycle position of a task. The numeric values
// are the wire and storage codes and must not change.
type Status int

const (
	StatusNew       Status = 1
	StatusCanceled  Status = 2
	StatusInWork    Status = 3
	StatusCompleted Status = 4
	StatusFailed    Status = 5
)

var ErrInvalidStatus = errors.New("invalid task status")

// InvalidStatusError reports a status value outside the known set.
type InvalidStatusError struct {
	Value int
}

func (e *InvalidStatusError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %d", ErrInvalidStatus.Error(), e.Value)
}

func (e *InvalidStatusError) Unwrap() error { return ErrInvalidStatus }

// AllStatuses returns every status in code order.
func AllStatuses() []Status {
	return []Status{
		StatusNew,
		StatusCanceled,
		StatusInWork,
		StatusCompleted,
		StatusFailed,
	}
}

// ParseStatus converts a raw stored code into a Status.
func ParseStatus(raw int) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return 0, &InvalidStatusError{Value: raw}
	}
	return s, nil
}

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusCanceled, StatusInWork, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no action can leave the status.
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(statusActions[s]) == 0
}

func (s Status) String() string {
	switch s {
	case StatusNew:
		return "new"
	case StatusCanceled:
		return "canceled"
	case StatusInWork:
		return "in_work"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Label is the human-readable name shown to users.
func (s Status) Label() string {
	switch s {
	case StatusNew:
		return "New"
	case StatusCanceled:
		return "Canceled"
	case StatusInWork:
		return "In work"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
