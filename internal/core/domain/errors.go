package domain

import "errors"

var (
	// ErrAuthenticationFailed is returned for bad credentials. The session is
	// left untouched.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrRegistrationConflict is returned when the email is already in use.
	ErrRegistrationConflict = errors.New("email already registered")
	// ErrSessionCorrupt marks persisted session data that cannot be restored.
	ErrSessionCorrupt = errors.New("persisted session is corrupt")
	// ErrUnauthenticated means no identity is logged in.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrPermissionDenied means an identity is present but its role or
	// permissions are insufficient.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrOperationInFlight rejects a login or register submitted while
	// another one is still pending on the same session.
	ErrOperationInFlight = errors.New("another session operation is in progress")

	ErrAccountNotFound = errors.New("account not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrShellNotFound   = errors.New("layout shell not found")
)
