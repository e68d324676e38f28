// Package validation provides struct validation using go-playground/validator v10.
//
// Form structs are validated with a shared validator instance.  Field names in
// error messages come from the `form` tag, so messages name the form field the
// user filled in:
//
//	type venueForm struct {
//	    Name string `form:"name" validate:"required,max=120"`
//	}
//
//	if verr := validation.ValidateStruct(&f); verr != nil {
//	    flash(verr.Error())
//	}
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// StartTimeLayouts are the accepted spellings of a show's start time, tried
// in order.  The first matches the default value of the new show form.
var StartTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
}

// ParseStartTime parses s with the first matching layout of StartTimeLayouts.
// Values without an offset are read in loc.
func ParseStartTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range StartTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("start time %q: expected YYYY-MM-DD HH:MM:SS", s)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single failed rule.
type FieldError struct {
	field   string
	tag     string
	param   string
	message string
}

// Field returns the form field name that failed validation.
func (e FieldError) Field() string { return e.field }

// Tag returns the validation tag that failed.
func (e FieldError) Tag() string { return e.tag }

// Param returns the tag parameter, e.g. "120" for "max=120".
func (e FieldError) Param() string { return e.param }

func (e FieldError) Error() string { return e.message }

// RequestValidationError collects every failed rule of one form.
type RequestValidationError struct {
	errors []FieldError
}

// Errors returns the individual field errors.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Fields maps each failed form field to its first message.
func (ve *RequestValidationError) Fields() map[string]string {
	out := make(map[string]string, len(ve.errors))
	for _, e := range ve.errors {
		if _, ok := out[e.field]; !ok {
			out[e.field] = e.message
		}
	}
	return out
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	msgs := make([]string, 0, len(ve.errors))
	for _, e := range ve.errors {
		msgs = append(msgs, e.message)
	}
	return strings.Join(msgs, "; ")
}

// GetValidator returns the singleton validator instance.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(formTagName)
		_ = validate.RegisterValidation("starttime", func(fl validator.FieldLevel) bool {
			_, err := ParseStartTime(fl.Field().String(), time.UTC)
			return err == nil
		})
		_ = validate.RegisterValidation("genres", validGenres)
	})
	return validate
}

func formTagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if name == "" || name == "-" {
		return f.Name
	}
	return name
}

// validGenres rejects a genre list whose every entry is blank.
func validGenres(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < field.Len(); i++ {
		if strings.TrimSpace(field.Index(i).String()) != "" {
			return true
		}
	}
	return false
}

// ValidateStruct validates s and returns nil or a *RequestValidationError.
func ValidateStruct(s any) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestValidationError{errors: []FieldError{{field: "unknown", tag: "unknown", message: err.Error()}}}
	}
	out := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		out[i] = FieldError{
			field:   fe.Field(),
			tag:     fe.Tag(),
			param:   fe.Param(),
			message: translate(fe),
		}
	}
	return &RequestValidationError{errors: out}
}

var messageTemplates = map[string]string{
	"required":  "%s is required",
	"url":       "%s must be a valid URL",
	"starttime": "%s must look like YYYY-MM-DD HH:MM:SS",
	"genres":    "%s needs at least one genre",
	"number":    "%s must be a whole number",
	"e164":      "%s must be a phone number",
}

var messageWithParam = map[string]string{
	"gt":  "%s must be greater than %s",
	"len": "%s must be exactly %s characters",
	"max": "%s must be at most %s characters",
	"min": "%s must be at least %s characters",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
