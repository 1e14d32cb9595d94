package workflow

// TaskState is one task's workflow position as seen by one viewer. It is
// built per request from persisted data and never mutated.
type TaskState struct {
	taskID      int64
	performerID *int64
	customerID  int64
	userID      int64
	status      Status
}

// NewTaskState validates the raw stored status. An *InvalidStatusError is the
// only failure mode.
func NewTaskState(taskID int64, performerID *int64, customerID, userID int64, status int) (TaskState, error) {
	s, err := ParseStatus(status)
	if err != nil {
		return TaskState{}, err
	}

	// keep the caller's pointer out of the value
	var performer *int64
	if performerID != nil {
		id := *performerID
		performer = &id
	}

	return TaskState{
		taskID:      taskID,
		performerID: performer,
		customerID:  customerID,
		userID:      userID,
		status:      s,
	}, nil
}

func (t TaskState) TaskID() int64     { return t.taskID }
func (t TaskState) CustomerID() int64 { return t.customerID }
func (t TaskState) UserID() int64     { return t.userID }
func (t TaskState) Status() Status    { return t.status }

// PerformerID returns the assigned performer, if any.
func (t TaskState) PerformerID() (int64, bool) {
	if t.performerID == nil {
		return 0, false
	}
	return *t.performerID, true
}

// WithStatus returns a copy carrying next. The receiver is left unchanged.
func (t TaskState) WithStatus(next Status) (TaskState, error) {
	if !next.IsValid() {
		return TaskState{}, &InvalidStatusError{Value: int(next)}
	}
	t.status = next
	return t, nil
}
