// Cinegraph - Movie Graph Analytics and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/cinegraph/internal/logging"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is one failed rule on one field.
type FieldError struct {
	field   string
	tag     string
	param   string
	value   any
	message string
}

// Field returns the field name as it appears in config or JSON.
func (e *FieldError) Field() string { return e.field }

// Tag returns the failed rule.
func (e *FieldError) Tag() string { return e.tag }

// Param returns the rule parameter, for example "3" for gte=3.
func (e *FieldError) Param() string { return e.param }

// Value returns the rejected value.
func (e *FieldError) Value() any { return e.value }

func (e *FieldError) Error() string { return e.message }

// Error collects every field that failed validation.
type Error struct {
	fields []FieldError
}

// Fields returns the individual failures in struct order.
func (e *Error) Fields() []FieldError {
	return e.fields
}

func (e *Error) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.fields))
	for i := range e.fields {
		msgs[i] = e.fields[i].message
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the shared validator.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(fieldName)
		//nolint:errcheck // registration only fails on an empty tag
		validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
			return logging.ValidLevel(fl.Field().String())
		})
	})
	return validate
}

func fieldName(f reflect.StructField) string {
	for _, key := range []string{"koanf", "json"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// ValidateStruct validates s, returning nil or an *Error.
func ValidateStruct(s any) *Error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{fields: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			value:   fe.Value(),
			message: translate(fe),
		}
	}
	return &Error{fields: fields}
}

var plainMessages = map[string]string{
	"required":      "%s is required",
	"loglevel":      "%s must be one of trace, debug, info, warn, error, disabled",
	"hostname_port": "%s must be host:port",
}

var paramMessages = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be at least %s",
	"lte":   "%s must be at most %s",
	"gt":    "%s must be greater than %s",
	"lt":    "%s must be less than %s",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tmpl, ok := plainMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramMessages[tag]; ok {
		return fmt.Sprintf(tmpl, field, strings.ReplaceAll(param, " ", ", "))
	}

	isString := fe.Kind() == reflect.String
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	}
	return fmt.Sprintf("%s failed %s validation", field, tag)
}
