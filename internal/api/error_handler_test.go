package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCode     int
		wantRedirect string
	}{
		{"http error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, ""},
		{"anonymous denial", service.Deny(domain.RoleNone), http.StatusUnauthorized, "/login"},
		{"customer denial", service.Deny(domain.RoleCustomer), http.StatusForbidden, "/portal"},
		{"staff denial", service.Deny(domain.RoleTherapist), http.StatusForbidden, "/admin"},
		{"bad credentials", domain.ErrAuthenticationFailed, http.StatusUnauthorized, ""},
		{"email taken", fmt.Errorf("create: %w", domain.ErrRegistrationConflict), http.StatusConflict, ""},
		{"double submit", domain.ErrOperationInFlight, http.StatusConflict, ""},
		{"unknown page", fmt.Errorf("select: %w", domain.ErrPageNotFound), http.StatusNotFound, ""},
		{"unknown shell", domain.ErrShellNotFound, http.StatusNotFound, ""},
		{"bare unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "/login"},
		{"bare denied", domain.ErrPermissionDenied, http.StatusForbidden, ""},
		{"cancelled", context.Canceled, statusClientClosedRequest, ""},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, ""},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			handle(tt.err, c)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Redirect != tt.wantRedirect {
				t.Fatalf("expected redirect %q, got %q", tt.wantRedirect, resp.Redirect)
			}
			if resp.Error == "" {
				t.Fatal("error message must not be empty")
			}
		})
	}
}

func TestHTTPErrorHandler_HidesInternalErrors(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("mongo: connection refused at 10.0.0.3"), c)

	var resp errorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Error != "internal server error" {
		t.Fatalf("internal cause leaked: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrPageNotFound, c)

	if rec.Code != http.StatusNotFound || rec.Body.Len() != 0 {
		t.Fatalf("expected empty 404, got %d %q", rec.Code, rec.Body.String())
	}
}
