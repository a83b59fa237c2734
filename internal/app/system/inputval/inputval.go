// Package inputval validates decoded request bodies and parses the date
// formats accepted by the API.
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/AlCa38/habitica/internal/app/system/apierr"
	"github.com/go-playground/validator/v10"
)

// DateOnlyLayout is the short date form accepted alongside RFC 3339.
const DateOnlyLayout = "2006-01-02"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name so messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	if err := v.RegisterValidation("newsdate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(err)
	}
	// Unlike required, notblank rejects whitespace-only strings without
	// changing the value that gets stored.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// ParseDate accepts an RFC 3339 timestamp or a YYYY-MM-DD date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateOnlyLayout, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Struct validates v against its `validate` tags. It returns nil or an
// *apierr.Error of kind ValidationFailed listing every invalid field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return apierr.Internal(err)
	}
	fields := make([]apierr.FieldError, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, apierr.FieldError{
			Param:   fe.Field(),
			Message: message(fe),
		})
	}
	return apierr.ValidationFailed(fields...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fe.Field() + " is required."
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "newsdate":
		return fe.Field() + " must be a date (YYYY-MM-DD or RFC 3339)."
	default:
		return fmt.Sprintf("%s failed %s validation.", fe.Field(), fe.Tag())
	}
}
