package host

// Phase is a Host lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
	PhaseLoaded
	PhaseExecuted
	PhaseShutDown
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitialized:
		return "initialized"
	case PhaseLoaded:
		return "loaded"
	case PhaseExecuted:
		return "executed"
	case PhaseShutDown:
		return "shut_down"
	default:
		return "unknown"
	}
}
