package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bilemo-api/internal/middleware"
	"bilemo-api/internal/model"
	"bilemo-api/internal/serializer"
	"bilemo-api/internal/service"
	"bilemo-api/internal/store"

	"github.com/labstack/echo/v4"
)

// ParsePage reads ?page and ?limit, defaulting to 1 and 3. limit is clamped to maxLimit.
func ParsePage(c echo.Context, maxLimit int) (store.Page, error) {
	page := store.Page{Number: store.DefaultPage, Limit: store.DefaultLimit}
	var fields []model.FieldError

	if raw := c.QueryParam("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, model.FieldError{Field: "page", Message: "This value should be a positive integer."})
		} else {
			page.Number = n
		}
	}
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			fields = append(fields, model.FieldError{Field: "limit", Message: "This value should be a positive integer."})
		} else {
			page.Limit = n
		}
	}
	if len(fields) > 0 {
		return store.Page{}, model.NewValidationError(fields...)
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}

// ParseID reads the :id path parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func ParseID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, model.ErrNotFound
	}
	return id, nil
}

// BindBody decodes the request body only. Malformed JSON and type mismatches
// become a validation error on "body".
func BindBody(c echo.Context, dst any) error {
	err := (&echo.DefaultBinder{}).BindBody(c, dst)
	if err == nil {
		return nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return model.NewValidationError(model.FieldError{Field: "body", Message: fmt.Sprint(he.Message)})
	}
	return err
}

// AbsoluteURL turns an API path into a URL on the host the request came in on.
func AbsoluteURL(c echo.Context, path string) string {
	return c.Scheme() + "://" + c.Request().Host + path
}

// Principal returns the authenticated caller, or ErrUnauthenticated when the
// auth middleware did not run.
func Principal(c echo.Context) (*service.CustomClaims, error) {
	claims, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, model.ErrUnauthenticated
	}
	return claims, nil
}

// Scope names the link set a principal sees in phone payloads.
func Scope(p middleware.Principal) string {
	if p != nil && p.HasRole(model.RoleAdmin) {
		return ScopeAdmin
	}
	return ScopeUser
}

const (
	ScopeAdmin = "admin"
	ScopeUser  = "user"
)

// SerializationContext builds the serializer context for the current request.
func SerializationContext(c echo.Context, versions serializer.VersionProvider, groups ...string) serializer.Context {
	var roles []string
	if claims, ok := middleware.PrincipalFrom(c); ok {
		roles = claims.Roles
	}
	version := serializer.LatestVersion
	if versions != nil {
		version = versions.Version(c.Request())
	}
	return serializer.NewContext(version, roles, groups...)
}
