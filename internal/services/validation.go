package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"servicedesk-backend/internal/apperrors"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names so messages match the request body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags on v and turns the first failure
// into a validation error.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Validation(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.Validation(fmt.Sprintf("%s is required", fe.Field()))
	case "oneof":
		return apperrors.Validation(fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
	case "gte":
		return apperrors.Validation(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
	default:
		return apperrors.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}

var tenDigits = regexp.MustCompile(`^\d{10}$`)

// isMobileNo reports whether s is a 10-digit mobile number.
func isMobileNo(s string) bool {
	return tenDigits.MatchString(s)
}
