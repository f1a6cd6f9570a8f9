package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

func guardContext(t *testing.T, m *service.SessionManager, email string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if email != "" {
		c.Set(sessionContextKey, loggedIn(t, m, "sid-"+email, email))
	}
	return c, rec
}

func okHandler(called *bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		*called = true
		return c.NoContent(http.StatusOK)
	}
}

func TestRequireRole_Allows(t *testing.T) {
	c, rec := guardContext(t, newManager(), service.DemoManagerEmail)

	called := false
	handler := RequireRole(domain.RoleManager, domain.RoleSuperAdmin)(okHandler(&called))

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next to run with 200, got called=%v code=%d", called, rec.Code)
	}
}

func TestRequireRole_Denials(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		wantErr      error
		wantRedirect string
	}{
		{"anonymous", "", domain.ErrUnauthenticated, "/login"},
		{"customer", "guest@example.com", domain.ErrPermissionDenied, "/portal"},
		{"therapist", service.DemoTherapistEmail, domain.ErrPermissionDenied, "/admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := guardContext(t, newManager(), tt.email)

			called := false
			err := RequireRole(domain.RoleManager, domain.RoleSuperAdmin)(okHandler(&called))(c)

			if called {
				t.Fatal("should not reach next handler")
			}
			var ae *service.AccessError
			if !errors.As(err, &ae) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected access error %v, got %v", tt.wantErr, err)
			}
			if ae.Redirect != tt.wantRedirect {
				t.Fatalf("expected redirect %q, got %q", tt.wantRedirect, ae.Redirect)
			}
		})
	}
}

func TestRequireRole_UnknownRoleGrantsNothing(t *testing.T) {
	c, _ := guardContext(t, newManager(), "")

	called := false
	err := RequireRole(domain.Role("owner"), domain.RoleNone)(okHandler(&called))(c)

	if called || !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated denial, got called=%v err=%v", called, err)
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		allowed bool
	}{
		{"wildcard admin", service.DemoAdminEmail, true},
		{"manager", service.DemoManagerEmail, true},
		{"receptionist", service.DemoReceptionistEmail, false},
		{"anonymous", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := guardContext(t, newManager(), tt.email)

			called := false
			err := RequirePermission(domain.CapViewReports)(okHandler(&called))(c)

			if called != tt.allowed {
				t.Fatalf("expected allowed=%v, got called=%v err=%v", tt.allowed, called, err)
			}
			if !tt.allowed && err == nil {
				t.Fatal("expected denial error")
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	c, _ := guardContext(t, newManager(), "")
	called := false
	if err := RequireAuth()(okHandler(&called))(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}

	c, _ = guardContext(t, newManager(), "guest@example.com")
	if err := RequireAuth()(okHandler(&called))(c); err != nil || !called {
		t.Fatalf("expected customer to pass, got err=%v called=%v", err, called)
	}
}
