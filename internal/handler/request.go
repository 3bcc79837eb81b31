package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"courier-backend/internal/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo's Validate hook.
// Field names in messages are the JSON names.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{validate: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperr.Validation(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperr.Validation(fmt.Sprintf("%s must be a valid email", fe.Field()))
	default:
		return apperr.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

// bindRequest decodes the body into req and runs the struct validation.
func bindRequest(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	return c.Validate(req)
}

// bindDocument decodes a free-form JSON object body. Only the body is read so
// path and query parameters never leak into the stored document.
func bindDocument(c echo.Context) (map[string]any, error) {
	doc := map[string]any{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &doc); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "Invalid request body", err)
	}
	return doc, nil
}
