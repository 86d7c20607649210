package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/SAP-F-2025/marktrack-service/internal/models"
)

// ValidationError describes one rejected field
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// HasField reports whether field is among the failures.
func (ve ValidationErrors) HasField(field string) bool {
	for _, e := range ve {
		if e.Field == field {
			return true
		}
	}
	return false
}

const (
	maxRoleCodeLength = 64
	maxNameLength     = 100
)

// Validator wraps go-playground/validator with the service's custom rules
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with all custom rules registered
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	// Report json names rather than Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v := &Validator{validate: validate}
	v.registerRules()
	return v
}

// Validate checks s and returns ValidationErrors, or nil when s is valid
func (v *Validator) Validate(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	out := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		out = append(out, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}
	return out
}

func (v *Validator) registerRules() {
	// Role codes are opaque single tokens
	v.validate.RegisterValidation("role_code", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if code == "" || len(code) > maxRoleCodeLength {
			return false
		}
		return strings.IndexFunc(code, unicode.IsSpace) < 0
	})

	v.validate.RegisterValidation("grade_value", func(fl validator.FieldLevel) bool {
		value := fl.Field().Float()
		return value >= models.MinMarkValue && value <= models.MaxMarkValue
	})

	// Letters of any script, inner spaces, hyphens and apostrophes
	v.validate.RegisterValidation("person_name", func(fl validator.FieldLevel) bool {
		name := fl.Field().String()
		if strings.TrimSpace(name) != name || name == "" || utf8.RuneCountInString(name) > maxNameLength {
			return false
		}
		for _, r := range name {
			if !unicode.IsLetter(r) && r != ' ' && r != '-' && r != '\'' {
				return false
			}
		}
		return true
	})

	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "datetime":
		return fmt.Sprintf("must be a date in %s format", err.Param())
	case "dive":
		return "contains an invalid item"
	case "role_code":
		return fmt.Sprintf("must be a code without spaces of at most %d characters", maxRoleCodeLength)
	case "grade_value":
		return fmt.Sprintf("must be between %g and %g", float64(models.MinMarkValue), float64(models.MaxMarkValue))
	case "person_name":
		return "must contain only letters, spaces, hyphens or apostrophes"
	case "user_role":
		return "must be a valid user role"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}
