package validator

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/go-playground/validator/v10"

	"github.com/gla-learning/enrollment-service/internal/models"
)

// ValidationError represents a single failed validation rule.
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

// Validator wraps go-playground/validator with the business rules of
// the enrollment domain.
type Validator struct {
	validate *validator.Validate
}

var glaNumberPattern = regexp.MustCompile(`^[A-Za-z]{2,4}[0-9]{3,8}$`)

func New() *Validator {
	validate := validator.New()

	v := &Validator{validate: validate}
	v.registerBusinessRules()

	return v
}

func (v *Validator) registerBusinessRules() {
	// known_course: course must come from the published catalogue.
	v.validate.RegisterValidation("known_course", func(fl validator.FieldLevel) bool {
		return slices.Contains(models.KnownCourses, fl.Field().String())
	})

	// gla_number: short letter prefix followed by digits.
	v.validate.RegisterValidation("gla_number", func(fl validator.FieldLevel) bool {
		return glaNumberPattern.MatchString(fl.Field().String())
	})

	// user_role: exact enum match, nothing defaults to granted.
	v.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})
}

// Validate validates a struct and converts failures to
// ValidationErrors. A nil return means the value passed.
func (v *Validator) Validate(s interface{}) ValidationErrors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, fieldErr := range err.(validator.ValidationErrors) {
		errs = append(errs, ValidationError{
			Field:   fieldErr.Field(),
			Message: v.errorMessage(fieldErr),
			Value:   fieldErr.Value(),
			Rule:    fieldErr.Tag(),
		})
	}
	return errs
}

func (v *Validator) errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "known_course":
		return "is not an offered course"
	case "gla_number":
		return "is not a valid GLA number"
	case "user_role":
		return "is not a recognized role"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", err.Param())
	default:
		return fmt.Sprintf("failed %s validation", err.Tag())
	}
}
