package workflow

import "fmt"

// Role is the relationship of the viewer to a task. It is derived by
// comparing identities and never stored.
type Role int

const (
	RolePerformer Role = iota + 1
	RoleCustomer
)

func (r Role) String() string {
	switch r {
	case RolePerformer:
		return "performer"
	case RoleCustomer:
		return "customer"
	default:
		return "unknown"
	}
}

// ActionKind is an operation a viewer may invoke to move a task forward.
type ActionKind int

const (
	ActionRespond ActionKind = iota + 1
	ActionCancel
	ActionComplete
	ActionRefuse
)

// Action codes are serialized into API payloads and must stay stable.
const (
	CodeRespond  = "respond"
	CodeCancel   = "cancel"
	CodeComplete = "complete"
	CodeRefuse   = "refuse"
)

// AllActions returns every action kind.
func AllActions() []ActionKind {
	return []ActionKind{ActionRespond, ActionCancel, ActionComplete, ActionRefuse}
}

// ParseAction maps a wire code back to its action. Unknown codes are rejected.
func ParseAction(code string) (ActionKind, bool) {
	switch code {
	case CodeRespond:
		return ActionRespond, true
	case CodeCancel:
		return ActionCancel, true
	case CodeComplete:
		return ActionComplete, true
	case CodeRefuse:
		return ActionRefuse, true
	default:
		return 0, false
	}
}

func (a ActionKind) Code() string {
	switch a {
	case ActionRespond:
		return CodeRespond
	case ActionCancel:
		return CodeCancel
	case ActionComplete:
		return CodeComplete
	case ActionRefuse:
		return CodeRefuse
	default:
		return ""
	}
}

func (a ActionKind) String() string {
	if code := a.Code(); code != "" {
		return code
	}
	return "unknown"
}

// Title renders the label of the action for a concrete task.
func (a ActionKind) Title(taskID int64) string {
	switch a {
	case ActionRespond:
		return fmt.Sprintf("Respond to task #%d", taskID)
	case ActionCancel:
		return fmt.Sprintf("Cancel task #%d", taskID)
	case ActionComplete:
		return fmt.Sprintf("Complete task #%d", taskID)
	case ActionRefuse:
		return fmt.Sprintf("Refuse task #%d", taskID)
	default:
		return ""
	}
}

// Role returns who may invoke the action. Respond belongs to the performer
// side: whoever responds becomes the performer.
func (a ActionKind) Role() Role {
	switch a {
	case ActionCancel:
		return RoleCustomer
	case ActionRespond, ActionComplete, ActionRefuse:
		return RolePerformer
	default:
		return 0
	}
}

// IsPermitted evaluates the action guard over the three identities.
// performerID is nil while nobody has taken the task.
func (a ActionKind) IsPermitted(performerID *int64, customerID, userID int64) bool {
	switch a {
	case ActionRespond:
		return userID != customerID
	case ActionCancel:
		return userID == customerID
	case ActionComplete, ActionRefuse:
		return performerID != nil && *performerID == userID
	default:
		return false
	}
}
