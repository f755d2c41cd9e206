package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate on bound DTOs.  Validation
// failures become 400 responses carrying the first offending field.
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator builds the validator used for all request DTOs.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Validate implements echo.Validator.
func (v *RequestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		var ferrs validator.ValidationErrors
		if ok := errorsAs(err, &ferrs); ok && len(ferrs) > 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid field: "+ferrs[0].Field())
		}
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	return nil
}

// errorsAs is a tiny indirection so Validate stays readable.
func errorsAs(err error, target *validator.ValidationErrors) bool {
	if e, ok := err.(validator.ValidationErrors); ok {
		*target = e
		return true
	}
	return false
}
