package utils

import (
	"reflect"
	"strings"

	"github.com/campus-hub/quiz-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// Validator wraps go-playground/validator with the service's custom rules.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Custom validation functions

// ValidateOptionLetter accepts the single answer letters A-D.
func ValidateOptionLetter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

func ValidateViolationType(fl validator.FieldLevel) bool {
	return models.ViolationType(fl.Field().String()).Valid()
}

func ValidateUserRole(fl validator.FieldLevel) bool {
	return models.UserRole(fl.Field().String()).Valid()
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("option_letter", ValidateOptionLetter)
	validate.RegisterValidation("violation_type", ValidateViolationType)
	validate.RegisterValidation("user_role", ValidateUserRole)

	// Report json field names in validation errors
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
