package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var reportIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// Validator wraps the go-playground validator with the report rules. It
// satisfies echo.Validator.
type Validator struct {
	validator *validator.Validate
}

func New() *Validator {
	validate := validator.New()

	_ = validate.RegisterValidation("report_id", func(fl validator.FieldLevel) bool {
		return reportIDPattern.MatchString(fl.Field().String())
	})

	// Use JSON field names for validation error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: validate}
}

func (v *Validator) Validate(i any) error {
	if err := v.validator.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return NewValidationError(errs)
		}
		return err
	}
	return nil
}

// ValidateVar validates a single value against tag.
func (v *Validator) ValidateVar(field any, tag string) error {
	return v.validator.Var(field, tag)
}

// ValidationError maps field names to user facing messages.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, e.Errors[field])
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, ", "))
}

func NewValidationError(errs validator.ValidationErrors) *ValidationError {
	out := make(map[string]string, len(errs))
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "min", "gte":
			out[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max", "lte":
			out[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "report_id":
			out[field] = fmt.Sprintf("%s must contain only letters, numbers, hyphens and underscores", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return &ValidationError{Errors: out}
}

// IsValidReportID checks the shape of a report id.
func IsValidReportID(reportID string) bool {
	return reportIDPattern.MatchString(reportID)
}
