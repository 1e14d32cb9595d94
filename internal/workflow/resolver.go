package workflow

// Resolution is the single action surfaced to a viewer.
type Resolution struct {
	Action ActionKind
	Code   string
	Title  string
}

// AvailableActions returns the ordered candidate actions for the state's
// status, regardless of who is looking. Terminal statuses yield none.
func AvailableActions(state TaskState) []ActionKind {
	return ActionsFor(state.status)
}

// ResolveAction returns the first candidate action the viewer is permitted to
// invoke.
//
// First match assumes one action per viewer and status. In InWork the
// performer passes both the Complete and Refuse guards, so Refuse is never
// surfaced here; PermittedActions lists everything the viewer may invoke.
func ResolveAction(state TaskState) (Resolution, bool) {
	for _, a := range statusActions[state.status] {
		if a.IsPermitted(state.performerID, state.customerID, state.userID) {
			return Resolution{
				Action: a,
				Code:   a.Code(),
				Title:  a.Title(state.taskID),
			}, true
		}
	}
	return Resolution{}, false
}

// NextStatus is the status that applying the resolved action would produce.
func NextStatus(state TaskState) (Status, bool) {
	res, ok := ResolveAction(state)
	if !ok {
		return 0, false
	}
	return NextStatusFor(res.Action), true
}

// PermittedActions returns every candidate action the viewer passes the guard
// for, in table order.
func PermittedActions(state TaskState) []ActionKind {
	var permitted []ActionKind
	for _, a := range statusActions[state.status] {
		if a.IsPermitted(state.performerID, state.customerID, state.userID) {
			permitted = append(permitted, a)
		}
	}
	return permitted
}
