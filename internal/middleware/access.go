package middleware

import (
	"bilemo-api/internal/model"

	"github.com/labstack/echo/v4"
)

// Principal is anything holding roles.
type Principal interface {
	HasRole(role string) bool
}

// Authorize allows p when it holds at least one of roles.
func Authorize(p Principal, reason string, roles ...string) error {
	if p == nil {
		return model.ErrUnauthenticated
	}
	for _, r := range roles {
		if p.HasRole(r) {
			return nil
		}
	}
	return &model.ForbiddenError{Reason: reason}
}

// RequireRoles runs Authorize against the authenticated principal before the
// handler. It must be mounted after RequireAuth.
func RequireRoles(reason string, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var p Principal
			if claims, ok := PrincipalFrom(c); ok {
				p = claims
			}
			if err := Authorize(p, reason, roles...); err != nil {
				return err
			}
			return next(c)
		}
	}
}
