package domain

// User is the signed-in identity. Personal data is keyed by ID.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionState tracks whether a user is signed in.
type SessionState int

const (
	SessionAnonymous SessionState = iota
	SessionAuthenticated
)

// String returns a human-readable session state.
func (s SessionState) String() string {
	switch s {
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
