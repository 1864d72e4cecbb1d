package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/job-tracker/pkg/util/errorutil"
)

// fieldMessages holds the user facing text per field and failed rule.
var fieldMessages = map[string]string{
	"name.min":          "Name must be at least 2 characters",
	"email.required":    "Please enter a valid email",
	"email.email":       "Please enter a valid email",
	"password.min":      "Password must be at least 6 characters",
	"password.required": "Password is required",
	"jobTitle.required": "Job title is required",
	"jobTitle.max":      "Job title cannot be more than 100 characters",
	"company.required":  "Company name is required",
	"company.max":       "Company name cannot be more than 100 characters",
	"location.max":      "Location cannot be more than 100 characters",
	"date.required":     "Valid date is required",
	"date.datetime":     "Valid date is required",
	"status.oneof":      "Invalid status",
	"notes.max":         "Notes cannot be more than 500 characters",
}

// Validator checks request payloads and reports failures per JSON field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator configures field names to follow json tags.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct returns a 400 validation error listing every rejected field.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewInternalError(err)
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return apperrors.NewValidationError("Validation failed", fields)
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fe.Field() + " is invalid"
}
