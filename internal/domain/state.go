package domain

// State is the lifecycle state of a client or server run.
type State int

const (
	StateInit State = iota
	StateRunning
	StateCleanup
	StateTerminated
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateRunning:
		return "Running"
	case StateCleanup:
		return "Cleanup"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}
