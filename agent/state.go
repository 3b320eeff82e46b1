package agent

// State is the agent's position in the join flow.
type State int

const (
	StateIdle State = iota
	StateVerifying
	StateJoining
	StateJoined
	StateDisconnected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateVerifying:
		return "verifying"
	case StateJoining:
		return "joining"
	case StateJoined:
		return "joined"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// busy reports whether a join is in flight.
func (s State) busy() bool {
	return s == StateVerifying || s == StateJoining
}
