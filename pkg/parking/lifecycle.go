package parking

// Event drives a session from one status to another.
type Event string

const (
	EventComplete Event = "complete"
	EventCancel   Event = "cancel"
)

// transitions holds the only legal moves. Both terminal states are absorbing.
var transitions = map[SessionStatus]map[Event]SessionStatus{
	StatusActive: {
		EventComplete: StatusCompleted,
		EventCancel:   StatusCancelled,
	},
}

// rejections names the error returned for each illegal move.
var rejections = map[SessionStatus]map[Event]error{
	StatusCompleted: {
		EventComplete: ErrAlreadyCompleted,
		EventCancel:   ErrCannotCancelCompleted,
	},
	StatusCancelled: {
		EventComplete: ErrSessionCancelled,
		EventCancel:   ErrAlreadyCancelled,
	},
}

// Transition returns the status reached by firing ev from current, or the
// lifecycle error that forbids it.
func Transition(current SessionStatus, ev Event) (SessionStatus, error) {
	if next, ok := transitions[current][ev]; ok {
		return next, nil
	}
	if err, ok := rejections[current][ev]; ok {
		return current, err
	}
	return current, ErrInvalidTransition
}
