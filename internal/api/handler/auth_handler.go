package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/spabook/portal/internal/api/metrics"
	"github.com/spabook/portal/internal/api/middleware"
	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/ports"
	"github.com/spabook/portal/internal/core/service"
)

const (
	opLogin    = "login"
	opRegister = "register"
)

// SessionRotator moves a login onto a freshly issued session id.
type SessionRotator interface {
	Rotate(ctx context.Context, old *service.SessionStore, fn func(context.Context, *service.SessionStore) (*domain.Identity, error)) (*service.SessionStore, *domain.Identity, error)
}

type AuthHandler struct {
	sessions SessionRotator
	guard    ports.SubmitGuard
	guardTTL time.Duration
	log      zerolog.Logger
}

// NewAuthHandler builds the login/register/logout handler. A successful
// login or register always continues under a new session id. guard rejects
// a second submission for the same session while the first is pending,
// across instances when it is backed by Redis.
func NewAuthHandler(sessions SessionRotator, guard ports.SubmitGuard, guardTTL time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{sessions: sessions, guard: guard, guardTTL: guardTTL, log: log}
}

// Login authenticates the caller and binds the identity to their session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	fresh, identity, err := h.submit(c.Request().Context(), opLogin, store, func(ctx context.Context, s *service.SessionStore) (*domain.Identity, error) {
		return s.Login(ctx, req.Email, req.Password)
	})
	if err != nil {
		return err
	}

	middleware.BindSession(c, fresh)
	return c.JSON(http.StatusOK, authResponse{Token: fresh.Token(), User: identity})
}

// Register creates a customer account and logs it in.
//
// @Summary      Register a new customer
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Customer registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	store, err := ctxSession(c)
	if err != nil {
		return err
	}

	fresh, identity, err := h.submit(c.Request().Context(), opRegister, store, func(ctx context.Context, s *service.SessionStore) (*domain.Identity, error) {
		return s.Register(ctx, req.toRegistration())
	})
	if err != nil {
		return err
	}

	middleware.BindSession(c, fresh)
	return c.JSON(http.StatusCreated, authResponse{Token: fresh.Token(), User: identity})
}

// Logout clears the caller's session. Logging out twice is not an error.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Failure      500   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	store, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := store.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// submit rotates store through fn under the per-session submit guard and
// records the outcome.
func (h *AuthHandler) submit(ctx context.Context, op string, store *service.SessionStore, fn func(context.Context, *service.SessionStore) (*domain.Identity, error)) (*service.SessionStore, *domain.Identity, error) {
	key := "auth:" + store.ID()

	acquired, err := h.guard.Acquire(ctx, key, h.guardTTL)
	switch {
	case err != nil:
		// Fall back to the in-process guard of the store.
		h.log.Warn().Err(err).Str("session_id", store.ID()).Msg("submit guard unavailable")
	case !acquired:
		metrics.AuthAttemptsTotal.WithLabelValues(op, metrics.ResultConflict).Inc()
		return nil, nil, domain.ErrOperationInFlight
	default:
		defer func() {
			if err := h.guard.Release(context.WithoutCancel(ctx), key); err != nil {
				h.log.Warn().Err(err).Str("session_id", store.ID()).Msg("submit guard release failed")
			}
		}()
	}

	fresh, identity, err := h.sessions.Rotate(ctx, store, fn)
	metrics.AuthAttemptsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	if err != nil {
		h.log.Info().Err(err).Str("session_id", store.ID()).Str("operation", op).Msg("auth attempt rejected")
		return nil, nil, err
	}

	h.log.Info().
		Str("session_id", fresh.ID()).
		Str("previous_session_id", store.ID()).
		Str("operation", op).
		Str("user_id", identity.ID).
		Str("role", string(identity.Role)).
		Msg("auth attempt succeeded")
	return fresh, identity, nil
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, domain.ErrOperationInFlight), errors.Is(err, domain.ErrRegistrationConflict):
		return metrics.ResultConflict
	default:
		return metrics.ResultFailure
	}
}
