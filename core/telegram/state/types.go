package state

// State identifies a finite-state-machine step used in conversations.
type State string

const (
	// StateIdle indicates there is no active conversation with the user.
	StateIdle State = "idle"
)

// Session stores conversation state and temporary flow data for a user.
type Session struct {
	State    State
	TempData map[string]string
}

// Manager orchestrates user sessions and FSM state transitions.
type Manager interface {
	SetState(userID int64, st State)
	GetState(userID int64) State
	InProgress(userID int64) bool

	SetTemp(userID int64, key, value string)
	GetTemp(userID int64, key string) (string, bool)
	TempLen(userID int64) int

	// Clear removes the session entirely: state back to idle, data bag dropped.
	Clear(userID int64)

	// Do runs fn while holding the user's lock. All event handling for a
	// user goes through Do so that two flows from the same user never
	// interleave.
	Do(userID int64, fn func() error) error
}
