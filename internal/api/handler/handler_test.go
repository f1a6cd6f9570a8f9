package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/api/middleware"
	"github.com/spabook/portal/internal/core/service"
	"github.com/spabook/portal/internal/infrastructure/storage"
)

func newManager() *service.SessionManager {
	return service.NewSessionManager(
		storage.NewMemoryProvider(0),
		service.NewDemoAuthenticator(),
		service.PlaceholderTokens{},
		service.SessionManagerOptions{Logger: zerolog.Nop()},
	)
}

// sidOf maps a readable test name to a stable server-style session id.
func sidOf(name string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("session/"+name))
	id[6] = id[6]&0x0f | 0x40
	return id.String()
}

// loggedIn opens sid on m and logs email in.
func loggedIn(t *testing.T, m *service.SessionManager, sid, email string) {
	t.Helper()
	store, err := m.Open(context.Background(), sid)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := store.Login(context.Background(), email, "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
}

type call struct {
	method string
	target string
	body   string
	sid    string
	params map[string]string
}

// serve runs h behind the Session middleware and returns the recorder
// together with whatever error h returned.
func serve(t *testing.T, m *service.SessionManager, h echo.HandlerFunc, in call) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var body io.Reader
	if in.body != "" {
		body = strings.NewReader(in.body)
	}
	req := httptest.NewRequest(in.method, in.target, body)
	if in.body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if in.sid != "" {
		req.Header.Set(middleware.SessionHeader, in.sid)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for name, value := range in.params {
		values := c.ParamValues()
		c.SetParamNames(append(c.ParamNames(), name)...)
		c.SetParamValues(append(values, value)...)
	}

	err := middleware.Session(m, middleware.SessionOptions{Logger: zerolog.Nop()})(h)(c)
	return rec, err
}

type stubGuard struct {
	acquired bool
	err      error
	released []string
}

func (g *stubGuard) Acquire(context.Context, string, time.Duration) (bool, error) {
	return g.acquired, g.err
}

func (g *stubGuard) Release(_ context.Context, key string) error {
	g.released = append(g.released, key)
	return nil
}

func TestCtxSession_MissingMiddleware(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := ctxSession(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 HTTPError, got %v", err)
	}
}
