package service

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var personNameRe = regexp.MustCompile(`^\p{L}[\p{L} .'\-]*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	textPolicy = bluemonday.StrictPolicy()
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json field names so messages match what clients sent.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})

		_ = validate.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
			return personNameRe.MatchString(fl.Field().String())
		})
	})
	return validate
}

// validateStruct runs the struct tags and converts the first failure into a
// *ValidationError.
func validateStruct(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating input: %w", err)
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: fe.Field() + " " + describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "personname":
		return "may contain only letters, spaces, apostrophes, hyphens and periods"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return "is invalid"
	}
}

// sanitizeText strips any markup from user-supplied free text. The policy
// HTML-escapes what remains; values are stored and served as plain text, so
// the entities are decoded again.
func sanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
