package apperr

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Struct runs validator tags on v and reports the first failing field as a
// validation error.
func Struct(validate *validator.Validate, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return Validation(fe.Field(), "failed %s=%s", fe.Tag(), fe.Param())
		}
		return Validation(fe.Field(), "failed %s", fe.Tag())
	}
	return Validation("", "%v", err)
}
