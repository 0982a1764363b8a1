package connector

// State represents the session connection state.
type State int

const (
	StateDisconnected State = iota
	StateProbing
	StateConnecting
	StateConnected
	StateReconnecting
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateProbing:
		return "probing"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// Viewport is the terminal widget's character grid.
type Viewport struct {
	Cols int
	Rows int
}

// Valid reports whether both dimensions are at least one cell.
func (v Viewport) Valid() bool {
	return v.Cols >= 1 && v.Rows >= 1
}
