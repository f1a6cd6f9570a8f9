package service

import (
	"errors"
	"testing"

	"github.com/spabook/portal/internal/core/domain"
)

func newTestLayouts() *LayoutService {
	return NewLayoutService(DefaultNavigation(), NewViewSelector(DefaultViews()))
}

func snapshotFor(role domain.Role) domain.SessionSnapshot {
	if role == domain.RoleNone {
		return domain.SessionSnapshot{State: domain.StateUnauthenticated}
	}
	return domain.SessionSnapshot{
		State:    domain.StateAuthenticated,
		Identity: &domain.Identity{ID: "u1", FirstName: "Test", Role: role},
	}
}

func TestLayoutService_Authorize(t *testing.T) {
	layouts := newTestLayouts()

	tests := []struct {
		shell        domain.Shell
		role         domain.Role
		wantErr      error
		wantRedirect string
	}{
		{domain.ShellPublic, domain.RoleNone, nil, ""},
		{domain.ShellPublic, domain.RoleTherapist, nil, ""},
		{domain.ShellAdmin, domain.RoleReceptionist, nil, ""},
		{domain.ShellAdmin, domain.RoleNone, domain.ErrUnauthenticated, "/login"},
		{domain.ShellAdmin, domain.RoleCustomer, domain.ErrPermissionDenied, "/portal"},
		{domain.ShellCustomer, domain.RoleCustomer, nil, ""},
		{domain.ShellCustomer, domain.RoleNone, domain.ErrUnauthenticated, "/login"},
		{domain.ShellCustomer, domain.RoleManager, domain.ErrPermissionDenied, "/admin"},
	}

	for _, tt := range tests {
		err := layouts.Authorize(tt.shell, tt.role)
		if tt.wantErr == nil {
			if err != nil {
				t.Errorf("Authorize(%s, %q) returned %v", tt.shell, tt.role, err)
			}
			continue
		}
		var ae *AccessError
		if !errors.As(err, &ae) || !errors.Is(err, tt.wantErr) {
			t.Errorf("Authorize(%s, %q) = %v, want %v", tt.shell, tt.role, err, tt.wantErr)
			continue
		}
		if ae.Redirect != tt.wantRedirect {
			t.Errorf("Authorize(%s, %q) redirect = %q, want %q", tt.shell, tt.role, ae.Redirect, tt.wantRedirect)
		}
	}
}

func TestLayoutService_UnknownShell(t *testing.T) {
	layouts := newTestLayouts()
	if err := layouts.Authorize(domain.Shell("kiosk"), domain.RoleManager); !errors.Is(err, domain.ErrShellNotFound) {
		t.Fatalf("expected ErrShellNotFound, got %v", err)
	}
	if _, err := layouts.Navigation(domain.Shell("kiosk"), domain.RoleManager); !errors.Is(err, domain.ErrShellNotFound) {
		t.Fatalf("expected ErrShellNotFound, got %v", err)
	}
}

func TestLayoutService_Compose(t *testing.T) {
	layouts := newTestLayouts()

	l, err := layouts.Compose(domain.ShellAdmin, snapshotFor(domain.RoleManager))
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if l.Shell != domain.ShellAdmin || l.User == nil || l.RoleLabel != domain.RoleManager.Label() {
		t.Fatalf("unexpected layout: %+v", l)
	}
	if len(l.Navigation) == 0 || len(l.Header) == 0 {
		t.Fatalf("expected navigation and header, got %+v", l)
	}
	for _, e := range l.Navigation {
		if !e.VisibleTo(domain.RoleManager) {
			t.Errorf("entry %s not visible to manager", e.Path)
		}
	}
}

func TestLayoutService_ComposePublicAnonymous(t *testing.T) {
	l, err := newTestLayouts().Compose(domain.ShellPublic, snapshotFor(domain.RoleNone))
	if err != nil {
		t.Fatalf("Compose returned error: %v", err)
	}
	if l.User != nil {
		t.Fatal("anonymous layout must not carry a user")
	}
	if ids := fragmentIDs(l.Header); len(ids) != 1 || ids[0] != "login" {
		t.Fatalf("expected login control only, got %v", ids)
	}
	for _, e := range l.Navigation {
		if e.AllowedRoles != nil {
			t.Errorf("restricted entry %s leaked to anonymous caller", e.Path)
		}
	}
}

func TestLayoutService_ComposeDenied(t *testing.T) {
	_, err := newTestLayouts().Compose(domain.ShellCustomer, snapshotFor(domain.RoleTherapist))
	if !errors.Is(err, domain.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestLayoutService_LoadingSessionIsAnonymous(t *testing.T) {
	snap := domain.SessionSnapshot{
		State:    domain.StateLoading,
		Identity: &domain.Identity{Role: domain.RoleSuperAdmin},
	}
	if _, err := newTestLayouts().Compose(domain.ShellAdmin, snap); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated while loading, got %v", err)
	}
}
