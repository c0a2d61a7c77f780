package api

import (
	"errors"
	"fmt"
	"net/http"

	"bilemo-api/internal/model"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// NewHTTPErrorHandler maps domain errors to status codes and bodies:
// validation 400 with every field error, not found 404 with no body,
// forbidden 403 with the gate's reason, unauthenticated 401. Anything
// unknown is logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		if errors.Is(err, model.ErrNotFound) {
			_ = c.NoContent(http.StatusNotFound)
			return
		}
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			body := ValidationErrorResponse{Errors: make([]FieldError, 0, len(ve.Fields))}
			for _, f := range ve.Fields {
				body.Errors = append(body.Errors, FieldError{Field: f.Field, Message: f.Message})
			}
			_ = c.JSON(http.StatusBadRequest, body)
			return
		}
		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, ErrorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var fe *model.ForbiddenError
	if errors.As(err, &fe) {
		return http.StatusForbidden, fe.Reason
	}
	switch {
	case errors.Is(err, model.ErrUnauthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, "internal server error"
}
