package core

// State is the mutable state of a shell session. It's updated by the executor
// and builtins and read by the prompt.
type State struct {
	// LastStatus holds the aggregated status of the last command line.
	LastStatus int
	// Continue is false once the read-eval loop should stop.
	Continue bool
}

// NewState creates the state of a fresh session.
func NewState() *State {
	return &State{
		LastStatus: 0,
		Continue:   true,
	}
}
