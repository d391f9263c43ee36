// Package validation runs go-playground/validator rules on request payloads
// and turns failures into field-level apperr validation errors.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/junaidrashid-git/storefront/apperr"
)

const InvalidInput = "Invalid input"

// Messages maps "field.tag" (or just "field") to the message reported when
// that rule fails. Field names are the JSON names.
type Messages map[string]string

// New returns a validator that reports fields by their JSON name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Check validates s. Failures come back as an apperr validation error
// titled title with one message per failing rule.
func Check(v *validator.Validate, s any, title string, msgs Messages) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Internal("validation failed", err)
	}

	fields := map[string][]string{}
	for _, fe := range verrs {
		field, _, _ := strings.Cut(fe.Field(), "[")
		msg, ok := msgs[field+"."+fe.Tag()]
		if !ok {
			msg, ok = msgs[field]
		}
		if !ok {
			msg = field + " is invalid"
		}
		fields[field] = append(fields[field], msg)
	}
	return apperr.Validation(title, fields)
}

// Field builds a single-field validation error.
func Field(title, field, msg string) error {
	return apperr.Validation(title, map[string][]string{field: {msg}})
}
