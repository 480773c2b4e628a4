package validation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/speechkit/errors"
)

// FieldError is one failed check. Field is the config key or request
// parameter; it is empty for errors merged from outside the package.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validator accumulates failures from chained checks. The zero value is
// ready to use.
type Validator struct {
	fields []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) failf(field, format string, args ...any) *Validator {
	v.fields = append(v.fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
	return v
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.fields = append(v.fields, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.fields) > 0 }

func (v *Validator) Errors() []FieldError { return v.fields }

// Merge folds err into the validator. Field errors produced by this package
// keep their fields; any other error is recorded as a single message.
func (v *Validator) Merge(err error) *Validator {
	if err == nil {
		return v
	}
	if appErr, ok := errors.AsAppError(err); ok {
		if fields, ok := appErr.Details["fields"].([]FieldError); ok {
			v.fields = append(v.fields, fields...)
			return v
		}
	}
	v.AddError("", err.Error())
	return v
}

// Validate returns an INVALID_INPUT AppError listing every failure, or nil.
func (v *Validator) Validate() *errors.AppError {
	if len(v.fields) == 0 {
		return nil
	}
	return fieldsError(v.fields)
}

// Err is Validate as a plain error so that a nil result compares equal to nil.
func (v *Validator) Err() error {
	if len(v.fields) == 0 {
		return nil
	}
	return fieldsError(v.fields)
}

func fieldsError(fields []FieldError) *errors.AppError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.String())
	}
	return errors.Validation(strings.Join(parts, "; ")).
		WithDetail("fields", fields)
}

// Required rejects blank strings.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) != "" {
		return v
	}
	return v.failf(field, "is required")
}

func (v *Validator) Positive(field string, value int) *Validator {
	if value > 0 {
		return v
	}
	return v.failf(field, "must be positive (got %d)", value)
}

func (v *Validator) NonNegative(field string, value int) *Validator {
	if value >= 0 {
		return v
	}
	return v.failf(field, "must not be negative (got %d)", value)
}

// Range requires lo <= value <= hi.
func (v *Validator) Range(field string, value, lo, hi int) *Validator {
	if value >= lo && value <= hi {
		return v
	}
	return v.failf(field, "must be between %d and %d (got %d)", lo, hi, value)
}

// OneOf accepts an empty value; pair it with Required when one is needed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	return v.failf(field, "must be one of: %s (got %q)", strings.Join(allowed, ", "), value)
}

// OptionalUUID accepts an empty value or a parseable UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := uuid.Parse(value); err != nil {
		return v.failf(field, "must be a valid UUID")
	}
	return v
}

// Custom records message for field unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if ok {
		return v
	}
	return v.failf(field, "%s", message)
}
