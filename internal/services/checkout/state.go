package checkout

// State is the position of a checkout flow.
type State int

const (
	StateEditing State = iota
	StateValidating
	StateSubmitting
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateValidating:
		return "validating"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}
