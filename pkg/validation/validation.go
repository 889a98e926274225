// Package validation wraps go-playground/validator with the API's error shape
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	apperrors "github.com/alchemorsel/personalization/pkg/errors"
	"github.com/go-playground/validator/v10"
)

// Validator validates request structs
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that reports JSON field names
func New() *Validator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Register custom validation rules
	_ = validate.RegisterValidation("printable", validatePrintable)

	return &Validator{validate: validate}
}

// Struct validates s and converts failures into a validation AppError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewBadRequestError("Malformed request")
	}

	details := make([]apperrors.ValidationError, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, apperrors.ValidationError{
			Field:   e.Field(),
			Value:   e.Value(),
			Tag:     e.Tag(),
			Message: message(e),
		})
	}
	return apperrors.NewValidationErrors(details)
}

func message(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_without":
		return fmt.Sprintf("%s is required when %s is missing", field, lowerFirst(e.Param()))
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "printable":
		return fmt.Sprintf("%s contains control characters", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// validatePrintable rejects control characters other than whitespace
func validatePrintable(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
