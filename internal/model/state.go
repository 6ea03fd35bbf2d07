package model

// State tracks how far a model has advanced through the pipeline
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoaded        State = "loaded"
	StateCorrected     State = "corrected"
	StateGraphed       State = "graphed"
	StatePartitioned   State = "partitioned"
)

var stateOrder = map[State]int{
	StateUninitialized: 0,
	StateLoaded:        1,
	StateCorrected:     2,
	StateGraphed:       3,
	StatePartitioned:   4,
}

// AtLeast reports whether the state has reached the given stage.
func (s State) AtLeast(other State) bool {
	return stateOrder[s] >= stateOrder[other]
}

func (s State) String() string { return string(s) }
