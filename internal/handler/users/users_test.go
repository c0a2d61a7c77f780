package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bilemo-api/internal/api"
	"bilemo-api/internal/cache"
	"bilemo-api/internal/database"
	"bilemo-api/internal/handler"
	"bilemo-api/internal/middleware"
	"bilemo-api/internal/model"
	"bilemo-api/internal/serializer"
	"bilemo-api/internal/service"
	"bilemo-api/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caller = &service.CustomClaims{UserID: 1, Email: "user@mail.com", Roles: []string{model.RoleUser}}

func restore() {
	hashPassword = service.HashPassword
	listUsers = store.ListUsers
	getUserByID = store.GetUserByID
	createUser = store.CreateUser
	updateUser = store.UpdateUser
	deleteUser = store.DeleteUser
}

func newDeps() (handler.Deps, *cache.FakeTaggedCache) {
	fc := cache.NewFakeTaggedCache()
	return handler.Deps{
		DB:       &database.FakeDB{},
		Cache:    fc,
		Versions: serializer.AcceptHeaderVersion{},
		MaxLimit: 100,
		Log:      zerolog.Nop(),
	}, fc
}

func newCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = api.NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserKey, caller)
	return c, rec
}

func withID(c echo.Context, id string) echo.Context {
	c.SetPath("/api/users/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func sampleUser(id int) model.User {
	return model.User{
		ID:           id,
		Email:        "user@mail.com",
		PasswordHash: "$2a$10$secret",
		Roles:        []string{model.RoleUser},
		Company:      "client",
		CreatedAt:    time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC),
	}
}

func TestListUsersHandler(t *testing.T) {
	defer restore()

	t.Run("paginated and cached", func(t *testing.T) {
		d, fc := newDeps()
		calls := 0
		listUsers = func(_ context.Context, _ database.DB, page store.Page) ([]model.User, error) {
			calls++
			assert.Equal(t, store.Page{Number: 2, Limit: 2}, page)
			return []model.User{sampleUser(3), sampleUser(4)}, nil
		}
		for i := 0; i < 3; i++ {
			c, rec := newCtx(http.MethodGet, "/api/users?page=2&limit=2", "")
			require.NoError(t, ListUsersHandler(d)(c))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "secret")
		}
		assert.Equal(t, 1, calls)
		assert.Equal(t, 1, fc.Computed[cache.UsersListKey(2, 2, serializer.LatestVersion)])
	})

	t.Run("old version does not leak into default reads", func(t *testing.T) {
		d, _ := newDeps()
		d.Cache = cache.NewResponseCache(cache.NewMemoryBackend(100, time.Minute), zerolog.Nop())
		listUsers = func(context.Context, database.DB, store.Page) ([]model.User, error) {
			return []model.User{sampleUser(3)}, nil
		}

		c, rec := newCtx(http.MethodGet, "/api/users", "")
		c.Request().Header.Set(echo.HeaderAccept, "application/json; version=0.5")
		require.NoError(t, ListUsersHandler(d)(c))
		assert.NotContains(t, rec.Body.String(), "user@mail.com")

		c, rec = newCtx(http.MethodGet, "/api/users", "")
		require.NoError(t, ListUsersHandler(d)(c))
		var items []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.EqualValues(t, 3, items[0]["id"])
		assert.Equal(t, "user@mail.com", items[0]["email"])
	})

	t.Run("empty page", func(t *testing.T) {
		d, _ := newDeps()
		listUsers = func(context.Context, database.DB, store.Page) ([]model.User, error) {
			return []model.User{}, nil
		}
		c, rec := newCtx(http.MethodGet, "/api/users?page=40", "")
		require.NoError(t, ListUsersHandler(d)(c))
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		d, _ := newDeps()
		c, _ := newCtx(http.MethodGet, "/api/users?limit=abc", "")
		var ve *model.ValidationError
		require.ErrorAs(t, ListUsersHandler(d)(c), &ve)
		assert.Equal(t, "limit", ve.Fields[0].Field)
	})
}

func TestGetUserHandler(t *testing.T) {
	defer restore()
	d, _ := newDeps()

	getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
		if id != 1 {
			return nil, model.ErrNotFound
		}
		u := sampleUser(1)
		return &u, nil
	}

	c, rec := newCtx(http.MethodGet, "/api/users/1", "")
	require.NoError(t, GetUserHandler(d)(withID(c, "1")))
	assert.JSONEq(t,
		`{"id":1,"email":"user@mail.com","roles":["ROLE_USER"],"company":"client","created_at":"2024-05-06T07:08:09Z"}`,
		rec.Body.String())

	c, _ = newCtx(http.MethodGet, "/api/users/2", "")
	require.ErrorIs(t, GetUserHandler(d)(withID(c, "2")), model.ErrNotFound)
}

func TestCreateUserHandler(t *testing.T) {
	defer restore()
	hashPassword = func(p string) (string, error) { return "hashed:" + p, nil }

	tests := []struct {
		name    string
		company string
		role    string
	}{
		{name: "client company", company: "client", role: model.RoleUser},
		{name: "bilemo company", company: model.AdminCompany, role: model.RoleAdmin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fc := newDeps()
			createUser = func(_ context.Context, _ database.DB, u *model.User) (*model.User, error) {
				assert.Equal(t, "hashed:pw", u.PasswordHash)
				assert.Equal(t, []string{tt.role}, u.Roles)
				u.ID = 12
				u.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
				return u, nil
			}
			body := `{"email":"new@mail.com","password":"pw","company":"` + tt.company + `","roles":["ROLE_ADMIN"]}`
			c, rec := newCtx(http.MethodPost, "http://api.test/api/users", body)
			require.NoError(t, CreateUserHandler(d)(c))
			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, "http://api.test/api/users/12", rec.Header().Get(echo.HeaderLocation))
			assert.Equal(t, []string{cache.TagUsers}, fc.Invalidated)

			var got map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, []any{tt.role}, got["roles"])
			assert.NotContains(t, got, "password")
		})
	}

	t.Run("every violation reported", func(t *testing.T) {
		d, fc := newDeps()
		createUser = func(context.Context, database.DB, *model.User) (*model.User, error) {
			t.Fatal("must not persist")
			return nil, nil
		}
		c, _ := newCtx(http.MethodPost, "/api/users", `{"email":"not-an-email"}`)
		var ve *model.ValidationError
		require.ErrorAs(t, CreateUserHandler(d)(c), &ve)
		var fields []string
		for _, f := range ve.Fields {
			fields = append(fields, f.Field)
		}
		assert.ElementsMatch(t, []string{"email", "password"}, fields)
		assert.Empty(t, fc.Invalidated)
	})

	t.Run("hash failure", func(t *testing.T) {
		d, _ := newDeps()
		hashPassword = func(string) (string, error) { return "", errors.New("bcrypt") }
		defer func() { hashPassword = func(p string) (string, error) { return "hashed:" + p, nil } }()
		c, _ := newCtx(http.MethodPost, "/api/users", `{"email":"a@b.com","password":"pw"}`)
		require.EqualError(t, CreateUserHandler(d)(c), "bcrypt")
	})
}

func TestUpdateUserHandler(t *testing.T) {
	defer restore()

	t.Run("copies email and company", func(t *testing.T) {
		d, fc := newDeps()
		getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
			u := sampleUser(id)
			return &u, nil
		}
		var saved *model.User
		updateUser = func(_ context.Context, _ database.DB, u *model.User) error {
			saved = u
			return nil
		}
		c, rec := newCtx(http.MethodPut, "/api/users/1", `{"email":"moved@mail.com","company":"BileMo","roles":["ROLE_ADMIN"]}`)
		require.NoError(t, UpdateUserHandler(d)(withID(c, "1")))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, saved)
		assert.Equal(t, "moved@mail.com", saved.Email)
		assert.Equal(t, "BileMo", saved.Company)
		assert.Equal(t, []string{model.RoleUser}, saved.Roles)
		assert.Equal(t, []string{cache.TagUsers, cache.TagPhones}, fc.Invalidated)
	})

	t.Run("invalid email", func(t *testing.T) {
		d, fc := newDeps()
		getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
			u := sampleUser(id)
			return &u, nil
		}
		c, _ := newCtx(http.MethodPut, "/api/users/1", `{"email":"nope"}`)
		var ve *model.ValidationError
		require.ErrorAs(t, UpdateUserHandler(d)(withID(c, "1")), &ve)
		assert.Empty(t, fc.Invalidated)
	})

	t.Run("missing", func(t *testing.T) {
		d, _ := newDeps()
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, model.ErrNotFound
		}
		c, _ := newCtx(http.MethodPut, "/api/users/5", `{"email":"a@b.com"}`)
		require.ErrorIs(t, UpdateUserHandler(d)(withID(c, "5")), model.ErrNotFound)
	})
}

func TestDeleteUserHandler(t *testing.T) {
	defer restore()

	t.Run("deleted", func(t *testing.T) {
		d, fc := newDeps()
		getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
			u := sampleUser(id)
			return &u, nil
		}
		deleteUser = func(context.Context, database.DB, int) error { return nil }
		c, rec := newCtx(http.MethodDelete, "/api/users/1", "")
		require.NoError(t, DeleteUserHandler(d)(withID(c, "1")))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, []string{cache.TagUsers, cache.TagPhones}, fc.Invalidated)
	})

	t.Run("missing", func(t *testing.T) {
		d, fc := newDeps()
		getUserByID = func(context.Context, database.DB, int) (*model.User, error) {
			return nil, model.ErrNotFound
		}
		c, _ := newCtx(http.MethodDelete, "/api/users/1", "")
		require.ErrorIs(t, DeleteUserHandler(d)(withID(c, "1")), model.ErrNotFound)
		assert.Empty(t, fc.Invalidated)
	})

	t.Run("store error", func(t *testing.T) {
		d, fc := newDeps()
		getUserByID = func(_ context.Context, _ database.DB, id int) (*model.User, error) {
			u := sampleUser(id)
			return &u, nil
		}
		deleteUser = func(context.Context, database.DB, int) error { return errors.New("fk") }
		c, _ := newCtx(http.MethodDelete, "/api/users/1", "")
		require.EqualError(t, DeleteUserHandler(d)(withID(c, "1")), "fk")
		assert.Empty(t, fc.Invalidated)
	})
}
