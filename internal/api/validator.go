package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"bilemo-api/internal/model"

	"github.com/go-playground/validator/v10"
)

// CustomValidator adapts go-playground/validator to echo and reports every
// violation as a *model.ValidationError.
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make([]model.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, model.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return model.NewValidationError(fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This value should not be blank."
	case "email":
		return "This value is not a valid email address."
	case "min":
		return fmt.Sprintf("This value is too short. It should have %s character or more.", fe.Param())
	case "max":
		return fmt.Sprintf("This value is too long. It should have %s characters or less.", fe.Param())
	default:
		return fmt.Sprintf("This value is not valid (%s).", fe.Tag())
	}
}
