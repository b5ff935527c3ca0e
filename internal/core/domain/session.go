package domain

// SessionState is the lifecycle state of the client session.
type SessionState string

const (
	// SessionLoading is the state at process start, before persisted storage
	// has been consulted. It is entered exactly once and never re-entered.
	SessionLoading SessionState = "loading"

	SessionAuthenticated   SessionState = "authenticated"
	SessionUnauthenticated SessionState = "unauthenticated"
)

// Session is a snapshot of the current authentication state. User is nil
// unless IsAuthenticated; IsLoading is transient and never persisted.
type Session struct {
	User            *Identity `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"-"`
}

// State derives the state-machine position from the flags.
func (s Session) State() SessionState {
	switch {
	case s.IsLoading:
		return SessionLoading
	case s.IsAuthenticated:
		return SessionAuthenticated
	default:
		return SessionUnauthenticated
	}
}
