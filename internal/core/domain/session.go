package domain

import "time"

// SessionState represents the lifecycle state of a session store.
type SessionState string

const (
	StateLoading         SessionState = "loading"
	StateUnauthenticated SessionState = "unauthenticated"
	StateAuthenticated   SessionState = "authenticated"
)

// Persisted key names. Both are written together and removed together.
const (
	StorageKeyUser  = "user"
	StorageKeyToken = "auth_token"
)

// SessionSnapshot is an immutable view of a session at one instant.
type SessionSnapshot struct {
	State    SessionState `json:"state"`
	Identity *Identity    `json:"user,omitempty"`
}

// Role returns the role of the logged-in identity, or RoleNone.
func (s SessionSnapshot) Role() Role {
	if s.Identity == nil || s.State != StateAuthenticated {
		return RoleNone
	}
	if r, ok := ParseRole(string(s.Identity.Role)); ok {
		return r
	}
	return RoleNone
}

// ChangeKind names the transition that produced a SessionChange.
type ChangeKind string

const (
	ChangeRehydrated     ChangeKind = "rehydrated"
	ChangeLogin          ChangeKind = "login"
	ChangeRegister       ChangeKind = "register"
	ChangeLogout         ChangeKind = "logout"
	ChangeSessionCorrupt ChangeKind = "session_corrupt"
)

// SessionChange is delivered to session subscribers after every committed
// transition.
type SessionChange struct {
	SessionID string          `json:"session_id,omitempty"`
	Kind      ChangeKind      `json:"kind"`
	Snapshot  SessionSnapshot `json:"session"`
	At        time.Time       `json:"at"`
}
