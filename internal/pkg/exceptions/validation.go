package exceptions

import (
	"appointment-service/internal/pkg/constvars"
	"strings"

	"github.com/go-playground/validator/v10"
)

func FormatFirstValidationError(err error) string {
	if err == nil {
		return constvars.ErrClientCannotProcessRequest
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
		firstErr := validationErrors[0]
		fieldName := strings.ToLower(firstErr.Field())
		switch firstErr.Tag() {
		case "required":
			return fieldName + " is required"
		case "oneof":
			return fieldName + " must be one of " + strings.Join(strings.Fields(firstErr.Param()), ", ")
		case "min":
			return fieldName + " must have at least " + firstErr.Param() + " item(s)"
		case "max":
			return fieldName + " must have at most " + firstErr.Param() + " item(s)"
		default:
			return fieldName + " is invalid"
		}
	}
	return constvars.ErrClientCannotProcessRequest
}
