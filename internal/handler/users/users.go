package users

import (
	"context"
	"net/http"
	"strings"

	"bilemo-api/internal/api"
	"bilemo-api/internal/cache"
	"bilemo-api/internal/handler"
	"bilemo-api/internal/model"
	"bilemo-api/internal/serializer"
	"bilemo-api/internal/service"
	"bilemo-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	hashPassword = service.HashPassword
	listUsers    = store.ListUsers
	getUserByID  = store.GetUserByID
	createUser   = store.CreateUser
	updateUser   = store.UpdateUser
	deleteUser   = store.DeleteUser
)

// @Summary     List users
// @Description Paginated list of API users, ordered by id. Served from the users cache tag.
// @Tags        users
// @Produce     json
// @Param       page  query int false "page number" default(1)
// @Param       limit query int false "page size"   default(3)
// @Success     200 {array}  object
// @Failure     400 {object} api.ValidationErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Security    Bearer
// @Router      /api/users [get]
func ListUsersHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := handler.ParsePage(c, d.MaxLimit)
		if err != nil {
			return err
		}
		sctx := handler.SerializationContext(c, d.Versions, serializer.GroupUsers)

		body, err := d.Cache.GetOrCompute(c.Request().Context(), cache.UsersListKey(page.Number, page.Limit, sctx.Version), cache.TagUsers,
			func(ctx context.Context) ([]byte, error) {
				users, err := listUsers(ctx, d.DB, page)
				if err != nil {
					return nil, err
				}
				return serializer.Users.MarshalList(serializer.UserList(users), sctx)
			})
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}

// @Summary     Get a user
// @Tags        users
// @Produce     json
// @Param       id path int true "user id"
// @Success     200 {object} object
// @Failure     404 "user not found"
// @Security    Bearer
// @Router      /api/users/{id} [get]
func GetUserHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		user, err := getUserByID(c.Request().Context(), d.DB, id)
		if err != nil {
			return err
		}
		body, err := serializer.Users.Marshal(user, handler.SerializationContext(c, d.Versions, serializer.GroupUsers))
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}

// CreateUserHandler registers a user. Roles follow the company: BileMo staff
// are admins, everyone else a plain user.
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       user body api.CreateUserRequest true "user"
// @Success     201 {object} object
// @Header      201 {string} Location "URL of the new user"
// @Failure     400 {object} api.ValidationErrorResponse
// @Security    Bearer
// @Router      /api/users [post]
func CreateUserHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateUserRequest
		if err := handler.BindBody(c, &req); err != nil {
			return err
		}
		req.Email = strings.TrimSpace(req.Email)
		if err := c.Validate(&req); err != nil {
			return err
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		user, err := createUser(ctx, d.DB, &model.User{
			Email:        req.Email,
			PasswordHash: hash,
			Roles:        model.RolesForCompany(req.Company),
			Company:      req.Company,
		})
		if err != nil {
			return err
		}
		d.Cache.Invalidate(ctx, cache.TagUsers)

		body, err := serializer.Users.Marshal(user, handler.SerializationContext(c, d.Versions, serializer.GroupUsers))
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderLocation, handler.AbsoluteURL(c, serializer.UserPath(user.ID)))
		return c.JSONBlob(http.StatusCreated, body)
	}
}

// UpdateUserHandler replaces email and company. Roles are fixed at creation.
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Param       id   path int                   true "user id"
// @Param       user body api.UpdateUserRequest true "user"
// @Success     204
// @Failure     400 {object} api.ValidationErrorResponse
// @Failure     404 "user not found"
// @Security    Bearer
// @Router      /api/users/{id} [put]
func UpdateUserHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		current, err := getUserByID(ctx, d.DB, id)
		if err != nil {
			return err
		}
		var req api.UpdateUserRequest
		if err := handler.BindBody(c, &req); err != nil {
			return err
		}
		current.Email = strings.TrimSpace(req.Email)
		current.Company = req.Company
		if err := c.Validate(current); err != nil {
			return err
		}
		if err := updateUser(ctx, d.DB, current); err != nil {
			return err
		}
		// Phone pages embed their author.
		d.Cache.Invalidate(ctx, cache.TagUsers)
		d.Cache.Invalidate(ctx, cache.TagPhones)
		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Delete a user
// @Tags        users
// @Param       id path int true "user id"
// @Success     204
// @Failure     404 "user not found"
// @Security    Bearer
// @Router      /api/users/{id} [delete]
func DeleteUserHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		if _, err := getUserByID(ctx, d.DB, id); err != nil {
			return err
		}
		if err := deleteUser(ctx, d.DB, id); err != nil {
			return err
		}
		// Phone pages embed their author.
		d.Cache.Invalidate(ctx, cache.TagUsers)
		d.Cache.Invalidate(ctx, cache.TagPhones)
		return c.NoContent(http.StatusNoContent)
	}
}
