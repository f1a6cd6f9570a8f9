package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/api/middleware"
	"github.com/spabook/portal/internal/core/service"
	"github.com/spabook/portal/internal/infrastructure/storage"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	views := service.NewViewSelector(service.DefaultViews())
	sessions := service.NewSessionManager(
		storage.NewMemoryProvider(0),
		service.NewDemoAuthenticator(),
		service.PlaceholderTokens{},
		service.SessionManagerOptions{Logger: zerolog.Nop()},
	)
	return NewRouter(Deps{
		Log:            zerolog.Nop(),
		Sessions:       sessions,
		Layouts:        service.NewLayoutService(service.DefaultNavigation(), views),
		Views:          views,
		SubmitGuard:    storage.NewMemoryGuard(),
		SubmitGuardTTL: 10 * time.Second,
		Registry:       prometheus.NewRegistry(),
	})
}

type exchange struct {
	method, path, body, sid, bearer string
}

func do(t *testing.T, h http.Handler, ex exchange) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if ex.body != "" {
		req = httptest.NewRequest(ex.method, ex.path, strings.NewReader(ex.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(ex.method, ex.path, nil)
	}
	if ex.sid != "" {
		req.Header.Set(middleware.SessionHeader, ex.sid)
	}
	if ex.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+ex.bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func redirectOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp.Redirect
}

func TestRouter_AdminFlow(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, exchange{method: http.MethodGet, path: "/v1/admin/reports/summary"})
	if rec.Code != http.StatusUnauthorized || redirectOf(t, rec) != "/login" {
		t.Fatalf("anonymous: expected 401 to /login, got %d %s", rec.Code, rec.Body.String())
	}
	sid := rec.Header().Get(middleware.SessionHeader)
	if sid == "" {
		t.Fatal("expected a session id to be issued")
	}

	rec = do(t, h, exchange{method: http.MethodPost, path: "/auth/login", sid: sid, body: `{"email":"manager@spabook.com","password":"pw"}`})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	anonymous := sid
	sid = rec.Header().Get(middleware.SessionHeader)
	if sid == "" || sid == anonymous {
		t.Fatalf("login must issue a new session id, got %q", sid)
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/admin/reports/summary", sid: anonymous})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("pre-login id: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/admin/reports/summary", sid: sid, bearer: service.PlaceholderToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("manager: expected 200, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/layout/customer", sid: sid})
	if rec.Code != http.StatusForbidden || redirectOf(t, rec) != "/admin" {
		t.Fatalf("staff in customer shell: expected 403 to /admin, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/session", sid: sid, bearer: "forged"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("mismatched bearer: expected 401, got %d", rec.Code)
	}

	rec = do(t, h, exchange{method: http.MethodPost, path: "/auth/logout", sid: sid})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/layout/admin", sid: sid})
	if rec.Code != http.StatusUnauthorized || redirectOf(t, rec) != "/login" {
		t.Fatalf("after logout: expected 401 to /login, got %d", rec.Code)
	}
}

func TestRouter_CustomerDeniedAdmin(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, exchange{method: http.MethodPost, path: "/auth/register", body: `{"email":"jane@example.com","password":"secret1","firstName":"Jane","lastName":"Doe"}`})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	sid := rec.Header().Get(middleware.SessionHeader)

	for _, path := range []string{"/v1/admin/reports/summary", "/v1/layout/admin"} {
		rec = do(t, h, exchange{method: http.MethodGet, path: path, sid: sid})
		if rec.Code != http.StatusForbidden || redirectOf(t, rec) != "/portal" {
			t.Fatalf("%s: expected 403 to /portal, got %d %s", path, rec.Code, rec.Body.String())
		}
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/layout/customer", sid: sid})
	if rec.Code != http.StatusOK {
		t.Fatalf("customer shell: expected 200, got %d", rec.Code)
	}
}

func TestRouter_ReceptionistLacksReportsRole(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, exchange{method: http.MethodPost, path: "/auth/login", body: `{"email":"receptionist@spabook.com","password":"pw"}`})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d", rec.Code)
	}
	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/admin/reports/summary", sid: rec.Header().Get(middleware.SessionHeader)})
	if rec.Code != http.StatusForbidden || redirectOf(t, rec) != "/admin" {
		t.Fatalf("expected 403 to /admin, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GuessableSessionIDIsReplaced(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, exchange{method: http.MethodPost, path: "/auth/login", sid: "1234", body: `{"email":"admin@spabook.com","password":"pw"}`})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(middleware.SessionHeader); got == "1234" {
		t.Fatal("client-chosen session id must not be kept")
	}

	rec = do(t, h, exchange{method: http.MethodGet, path: "/v1/layout/admin", sid: "1234"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("guessable id: expected 401, got %d", rec.Code)
	}
}

func TestRouter_Ops(t *testing.T) {
	h := newTestRouter(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics"} {
		if rec := do(t, h, exchange{method: http.MethodGet, path: path}); rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}

	rec := do(t, h, exchange{method: http.MethodGet, path: "/metrics"})
	if !strings.Contains(rec.Body.String(), "spabook_http_requests_total") {
		t.Error("expected HTTP request metrics on /metrics")
	}
}
