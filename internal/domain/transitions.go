package domain

// RentalAction names a lifecycle move requested against a rental.
type RentalAction string

const (
	ActionConfirm  RentalAction = "confirm"
	ActionActivate RentalAction = "activate"
	ActionExtend   RentalAction = "extend"
	ActionComplete RentalAction = "complete"
	ActionCancel   RentalAction = "cancel"
)

// transitions is the full edge set of the rental lifecycle. Anything not
// listed here is illegal; terminal statuses have no outbound edges.
var transitions = map[RentalStatus]map[RentalAction]RentalStatus{
	RentalStatusPending: {
		ActionConfirm: RentalStatusConfirmed,
		ActionCancel:  RentalStatusCancelled,
	},
	RentalStatusConfirmed: {
		ActionActivate: RentalStatusActive,
		ActionCancel:   RentalStatusCancelled,
	},
	RentalStatusActive: {
		ActionExtend:   RentalStatusExtended,
		ActionComplete: RentalStatusCompleted,
		ActionCancel:   RentalStatusCancelled,
	},
	RentalStatusExtended: {
		// A rental may be extended repeatedly and stays EXTENDED.
		ActionExtend:   RentalStatusExtended,
		ActionComplete: RentalStatusCompleted,
		ActionCancel:   RentalStatusCancelled,
	},
}

// NextStatus resolves (current, action) against the transition table.
// It returns a TransitionError when the edge does not exist.
func NextStatus(current RentalStatus, action RentalAction) (RentalStatus, error) {
	if edges, ok := transitions[current]; ok {
		if next, ok := edges[action]; ok {
			return next, nil
		}
	}
	return "", &TransitionError{Current: current, Action: action}
}

// CanTransition reports whether the edge (current, action) exists.
func CanTransition(current RentalStatus, action RentalAction) bool {
	_, err := NextStatus(current, action)
	return err == nil
}
