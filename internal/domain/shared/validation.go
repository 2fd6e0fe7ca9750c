package shared

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FieldError is the DTO describing one failed validation rule
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Value string `json:"value,omitempty"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("field '%s' failed rule '%s' (value: '%s')", f.Field, f.Rule, f.Value)
}

// FieldErrorsFrom converts go-playground validation errors into FieldError
// DTOs. Non-validation errors yield nil.
func FieldErrorsFrom(err error) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fields := make([]FieldError, 0, len(validationErrs))
	for _, e := range validationErrs {
		fields = append(fields, FieldError{
			Field: e.Field(),
			Rule:  e.Tag(),
			Value: fmt.Sprintf("%v", e.Value()),
		})
	}
	return fields
}
