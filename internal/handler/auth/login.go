package auth

import (
	"errors"
	"net/http"
	"strings"

	"bilemo-api/internal/api"
	"bilemo-api/internal/database"
	"bilemo-api/internal/handler"
	"bilemo-api/internal/model"
	"bilemo-api/internal/service"
	"bilemo-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	getUserByEmail   = store.GetUserByEmail
	authenticateUser = service.AuthenticateUser
)

// TokenIssuer is satisfied by *service.TokenService.
type TokenIssuer interface {
	IssueAccessToken(user model.User) (string, error)
}

// LoginHandler exchanges email and password for a bearer token.
// @Summary     Log in
// @Description Returns a JWT to send as "Authorization: Bearer <token>".
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       credentials body     api.LoginRequest true "credentials"
// @Success     200         {object} api.TokenResponse
// @Failure     400         {object} api.ValidationErrorResponse
// @Failure     401         {object} api.ErrorResponse
// @Router      /api/login_check [post]
func LoginHandler(db database.DB, tokens TokenIssuer) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := handler.BindBody(c, &req); err != nil {
			return err
		}
		if err := c.Validate(&req); err != nil {
			return err
		}

		ctx := c.Request().Context()
		user, err := getUserByEmail(ctx, db, strings.TrimSpace(req.Username))
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.ErrInvalidCredentials
			}
			return err
		}
		authUser, err := authenticateUser(ctx, *user, req.Password)
		if err != nil {
			return err
		}

		token, err := tokens.IssueAccessToken(*authUser)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, api.TokenResponse{Token: token})
	}
}
