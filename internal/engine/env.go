package engine

// Environment is the collaborator the trainer learns against. States are
// opaque indices in [0, NumStates) and actions are integers in
// [0, NumActions); both counts are fixed for the lifetime of the environment.
//
// Errors from Reset or Step abort training and propagate to the caller
// unmodified.
type Environment interface {
	NumStates() int
	NumActions() int

	// Reset re-initializes the environment and returns the starting state.
	Reset() (int, error)

	// Step advances the environment by one action and returns the next
	// state, the reward for the transition, and whether the episode ended.
	Step(action int) (next int, reward float64, done bool, err error)
}
