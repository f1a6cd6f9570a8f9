package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

const (
	// SessionCookie carries the browser session id.
	SessionCookie = "spabook_sid"
	// SessionHeader carries the session id for non-browser clients.
	SessionHeader = "X-Session-ID"

	sessionContextKey        = "session"
	sessionOptionsContextKey = "session_options"
	sessionCookieAge         = 30 * 24 * time.Hour
)

// SessionOpener resolves a session id to its live store.
type SessionOpener interface {
	Open(ctx context.Context, sessionID string) (*service.SessionStore, error)
}

type SessionOptions struct {
	SecureCookie bool
	Logger       zerolog.Logger
}

// Session resolves the caller's session store from the cookie or the
// X-Session-ID header and injects it into the context. Only server-issued
// UUIDs are accepted; a fresh id is issued when the caller has none or sends
// anything else. When an Authorization bearer token is sent it must match
// the token persisted for the session.
func Session(opener SessionOpener, opts SessionOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := requestSessionID(c.Request())

			store, err := opener.Open(c.Request().Context(), sid)
			if err != nil {
				opts.Logger.Warn().Err(err).Str("session_id", store.ID()).Msg("session opened unauthenticated")
			}

			c.Set(sessionOptionsContextKey, opts)
			if store.ID() != sid {
				setSessionCookie(c, store.ID(), opts)
			}
			c.Response().Header().Set(SessionHeader, store.ID())

			if authHeader := c.Request().Header.Get(echo.HeaderAuthorization); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
				}
				if store.State() != domain.StateAuthenticated || parts[1] != store.Token() {
					return service.Deny(domain.RoleNone)
				}
			}

			c.Set(sessionContextKey, store)
			return next(c)
		}
	}
}

// SessionFrom returns the store injected by Session.
func SessionFrom(c echo.Context) (*service.SessionStore, bool) {
	store, ok := c.Get(sessionContextKey).(*service.SessionStore)
	return store, ok && store != nil
}

// BindSession replaces the request's session with store and hands its id
// to the client, as after a login under a rotated id.
func BindSession(c echo.Context, store *service.SessionStore) {
	opts, _ := c.Get(sessionOptionsContextKey).(SessionOptions)
	setSessionCookie(c, store.ID(), opts)
	c.Response().Header().Set(SessionHeader, store.ID())
	c.Set(sessionContextKey, store)
}

func setSessionCookie(c echo.Context, sid string, opts SessionOptions) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(sessionCookieAge.Seconds()),
		HttpOnly: true,
		Secure:   opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// requestSessionID returns the canonical form of the caller's session id, or
// "" when the header and cookie carry nothing the server could have issued.
func requestSessionID(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(SessionHeader))
	if raw == "" {
		if ck, err := r.Cookie(SessionCookie); err == nil {
			raw = strings.TrimSpace(ck.Value)
		}
	}
	id, err := uuid.Parse(raw)
	if err != nil || id.Version() != 4 {
		return ""
	}
	return id.String()
}
