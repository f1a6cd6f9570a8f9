package service

import (
	"fmt"

	"github.com/spabook/portal/internal/core/domain"
)

// headerPage is the view-selector page holding header controls.
const headerPage = "header"

// Layout is everything a shell needs to wrap page content.
type Layout struct {
	Shell      domain.Shell      `json:"shell"`
	User       *domain.Identity  `json:"user,omitempty"`
	RoleLabel  string            `json:"roleLabel"`
	Navigation []domain.NavEntry `json:"navigation"`
	Header     []domain.Fragment `json:"header"`
}

// AccessError is a shell or route denial carrying where the client should
// be sent. It unwraps to domain.ErrUnauthenticated or
// domain.ErrPermissionDenied.
type AccessError struct {
	Err      error
	Redirect string
}

func (e *AccessError) Error() string { return e.Err.Error() }
func (e *AccessError) Unwrap() error { return e.Err }

// Deny builds the AccessError for a caller with the given role: anonymous
// callers go to the login page, logged-in ones to their own home.
func Deny(role domain.Role) *AccessError {
	if !role.Valid() {
		return &AccessError{Err: domain.ErrUnauthenticated, Redirect: "/login"}
	}
	return &AccessError{Err: domain.ErrPermissionDenied, Redirect: role.Home()}
}

// LayoutService composes the admin, customer and public shells.
type LayoutService struct {
	navigation map[domain.Shell]*NavigationRegistry
	views      *ViewSelector
}

func NewLayoutService(navigation map[domain.Shell]*NavigationRegistry, views *ViewSelector) *LayoutService {
	return &LayoutService{navigation: navigation, views: views}
}

// Authorize checks whether role may enter shell.
func (s *LayoutService) Authorize(shell domain.Shell, role domain.Role) error {
	var allowed bool
	switch shell {
	case domain.ShellPublic:
		allowed = true
	case domain.ShellAdmin:
		allowed = role.IsStaff()
	case domain.ShellCustomer:
		allowed = role == domain.RoleCustomer
	default:
		return fmt.Errorf("authorize %q: %w", shell, domain.ErrShellNotFound)
	}
	if !allowed {
		return Deny(role)
	}
	return nil
}

// Navigation returns the entries of shell visible to role.
func (s *LayoutService) Navigation(shell domain.Shell, role domain.Role) ([]domain.NavEntry, error) {
	reg, ok := s.navigation[shell]
	if !ok {
		return nil, fmt.Errorf("navigation %q: %w", shell, domain.ErrShellNotFound)
	}
	return reg.VisibleEntries(role), nil
}

// Compose authorises the snapshot for shell and assembles its layout.
func (s *LayoutService) Compose(shell domain.Shell, snap domain.SessionSnapshot) (*Layout, error) {
	role := snap.Role()
	if err := s.Authorize(shell, role); err != nil {
		return nil, err
	}

	nav, err := s.Navigation(shell, role)
	if err != nil {
		return nil, err
	}
	header, err := s.views.Select(headerPage, role)
	if err != nil {
		return nil, err
	}

	return &Layout{
		Shell:      shell,
		User:       snap.Identity,
		RoleLabel:  role.Label(),
		Navigation: nav,
		Header:     header,
	}, nil
}
