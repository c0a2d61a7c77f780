package phones

import (
	"context"
	"net/http"

	"bilemo-api/internal/api"
	"bilemo-api/internal/cache"
	"bilemo-api/internal/handler"
	"bilemo-api/internal/model"
	"bilemo-api/internal/serializer"
	"bilemo-api/internal/store"

	"github.com/labstack/echo/v4"
)

var (
	listPhones   = store.ListPhones
	getPhoneByID = store.GetPhoneByID
	createPhone  = store.CreatePhone
	updatePhone  = store.UpdatePhone
	deletePhone  = store.DeletePhone
)

// ListPhonesHandler
// @Summary     List phones
// @Description Paginated phone catalogue, ordered by id. Served from the phones cache tag.
// @Tags        phones
// @Produce     json
// @Param       page  query int false "page number" default(1)
// @Param       limit query int false "page size"   default(3)
// @Success     200 {array}  object
// @Failure     400 {object} api.ValidationErrorResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    Bearer
// @Router      /api/phones [get]
func ListPhonesHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := handler.Principal(c)
		if err != nil {
			return err
		}
		page, err := handler.ParsePage(c, d.MaxLimit)
		if err != nil {
			return err
		}
		sctx := handler.SerializationContext(c, d.Versions, serializer.GroupPhones)
		key := cache.PhonesListKey(page.Number, page.Limit, handler.Scope(principal), sctx.Version)

		body, err := d.Cache.GetOrCompute(c.Request().Context(), key, cache.TagPhones, func(ctx context.Context) ([]byte, error) {
			phones, err := listPhones(ctx, d.DB, page)
			if err != nil {
				return nil, err
			}
			return serializer.Phones.MarshalList(serializer.PhoneList(phones), sctx)
		})
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}

// GetPhoneHandler
// @Summary     Get a phone
// @Tags        phones
// @Produce     json
// @Param       id path int true "phone id"
// @Success     200 {object} object
// @Failure     404 "phone not found"
// @Security    Bearer
// @Router      /api/phones/{id} [get]
func GetPhoneHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		phone, err := getPhoneByID(c.Request().Context(), d.DB, id)
		if err != nil {
			return err
		}
		body, err := serializer.Phones.Marshal(phone, handler.SerializationContext(c, d.Versions, serializer.GroupPhones))
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, body)
	}
}

// CreatePhoneHandler stores a phone authored by the caller.
// @Summary     Create a phone
// @Tags        phones
// @Accept      json
// @Produce     json
// @Param       phone body api.PhoneRequest true "phone"
// @Success     201 {object} object
// @Header      201 {string} Location "URL of the new phone"
// @Failure     400 {object} api.ValidationErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Security    Bearer
// @Router      /api/phones [post]
func CreatePhoneHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		principal, err := handler.Principal(c)
		if err != nil {
			return err
		}
		var req api.PhoneRequest
		if err := handler.BindBody(c, &req); err != nil {
			return err
		}
		authorID := principal.UserID
		phone := &model.Phone{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			AuthorID:    &authorID,
		}
		if err := c.Validate(phone); err != nil {
			return err
		}

		ctx := c.Request().Context()
		created, err := createPhone(ctx, d.DB, phone)
		if err != nil {
			return err
		}
		d.Cache.Invalidate(ctx, cache.TagPhones)

		// Reload so the author is embedded the same way reads return it.
		if full, err := getPhoneByID(ctx, d.DB, created.ID); err != nil {
			d.Log.Warn().Err(err).Int("phone_id", created.ID).Msg("reload created phone")
		} else {
			created = full
		}
		body, err := serializer.Phones.Marshal(created, handler.SerializationContext(c, d.Versions, serializer.GroupPhones))
		if err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderLocation, handler.AbsoluteURL(c, serializer.PhonePath(created.ID)))
		return c.JSONBlob(http.StatusCreated, body)
	}
}

// UpdatePhoneHandler replaces name and description. Price, author and
// creation date keep their stored values.
// @Summary     Update a phone
// @Tags        phones
// @Accept      json
// @Param       id    path int              true "phone id"
// @Param       phone body api.PhoneRequest true "phone"
// @Success     204
// @Failure     400 {object} api.ValidationErrorResponse
// @Failure     404 "phone not found"
// @Security    Bearer
// @Router      /api/phones/{id} [put]
func UpdatePhoneHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		current, err := getPhoneByID(ctx, d.DB, id)
		if err != nil {
			return err
		}
		var req api.PhoneRequest
		if err := handler.BindBody(c, &req); err != nil {
			return err
		}
		current.Name = req.Name
		current.Description = req.Description
		if err := c.Validate(current); err != nil {
			return err
		}
		if err := updatePhone(ctx, d.DB, current); err != nil {
			return err
		}
		d.Cache.Invalidate(ctx, cache.TagPhones)
		return c.NoContent(http.StatusNoContent)
	}
}

// DeletePhoneHandler
// @Summary     Delete a phone
// @Tags        phones
// @Param       id path int true "phone id"
// @Success     204
// @Failure     404 "phone not found"
// @Security    Bearer
// @Router      /api/phones/{id} [delete]
func DeletePhoneHandler(d handler.Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := handler.ParseID(c)
		if err != nil {
			return err
		}
		ctx := c.Request().Context()
		if _, err := getPhoneByID(ctx, d.DB, id); err != nil {
			return err
		}
		if err := deletePhone(ctx, d.DB, id); err != nil {
			return err
		}
		d.Cache.Invalidate(ctx, cache.TagPhones)
		return c.NoContent(http.StatusNoContent)
	}
}
