package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/spabook/portal/internal/core/domain"
	"github.com/spabook/portal/internal/core/service"
)

// RequireAuth rejects callers without an authenticated session.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if callerRole(c) == domain.RoleNone {
				return service.Deny(domain.RoleNone)
			}
			return next(c)
		}
	}
}

// RequireRole enforces role-based access control. Anonymous callers are
// sent to the login page, other roles to their own home.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := callerRole(c)
			if _, ok := allowed[role]; !ok || !role.Valid() {
				return service.Deny(role)
			}
			return next(c)
		}
	}
}

// RequirePermission rejects callers whose identity lacks capability.
func RequirePermission(capability domain.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			store, ok := SessionFrom(c)
			if !ok || !store.HasPermission(capability) {
				return service.Deny(callerRole(c))
			}
			return next(c)
		}
	}
}

func callerRole(c echo.Context) domain.Role {
	store, ok := SessionFrom(c)
	if !ok {
		return domain.RoleNone
	}
	return store.Snapshot().Role()
}
