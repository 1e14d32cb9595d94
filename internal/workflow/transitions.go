package workflow

import "fmt"

// statusActions lists the candidate actions per status. Order matters:
// the resolver surfaces the first permitted entry.
var statusActions = map[Status][]ActionKind{
	StatusNew:       {ActionRespond, ActionCancel},
	StatusCanceled:  {},
	StatusInWork:    {ActionComplete, ActionRefuse},
	StatusCompleted: {},
	StatusFailed:    {},
}

var actionNextStatus = map[ActionKind]Status{
	ActionRespond:  StatusInWork,
	ActionCancel:   StatusCanceled,
	ActionRefuse:   StatusFailed,
	ActionComplete: StatusCompleted,
}

func init() {
	if err := ValidateTables(); err != nil {
		panic(err)
	}
}

// ValidateTables checks that both transition tables are closed over the
// status and action sets and that the graph never re-enters New or loops.
func ValidateTables() error {
	for _, s := range AllStatuses() {
		actions, ok := statusActions[s]
		if !ok {
			return fmt.Errorf("status %s has no actions row", s)
		}
		for _, a := range actions {
			next, ok := actionNextStatus[a]
			if !ok {
				return fmt.Errorf("action %s available from %s has no next status", a, s)
			}
			if next == s {
				return fmt.Errorf("action %s loops on status %s", a, s)
			}
		}
	}
	if len(statusActions) != len(AllStatuses()) {
		return fmt.Errorf("actions table has %d rows, want %d", len(statusActions), len(AllStatuses()))
	}

	for _, a := range AllActions() {
		next, ok := actionNextStatus[a]
		if !ok {
			return fmt.Errorf("action %s has no next status", a)
		}
		if !next.IsValid() {
			return fmt.Errorf("action %s leads to invalid status %d", a, int(next))
		}
		if next == StatusNew {
			return fmt.Errorf("action %s returns to %s", a, StatusNew)
		}
	}
	if len(actionNextStatus) != len(AllActions()) {
		return fmt.Errorf("next status table has %d rows, want %d", len(actionNextStatus), len(AllActions()))
	}

	return nil
}

// ActionsFor returns a copy of the ordered candidate actions for a status.
func ActionsFor(s Status) []ActionKind {
	actions := statusActions[s]
	out := make([]ActionKind, len(actions))
	copy(out, actions)
	return out
}

// NextStatusFor maps an action to the status it produces. A missing entry is
// a programming error and panics.
func NextStatusFor(a ActionKind) Status {
	next, ok := actionNextStatus[a]
	if !ok {
		panic(fmt.Sprintf("workflow: no next status for action %d", int(a)))
	}
	return next
}
