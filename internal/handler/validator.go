package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator wraps go-playground/validator and turns the first failure into
// one of the API's snake_case error codes.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

// errorCode validates req and returns "" when it is valid.
func (v *requestValidator) errorCode(req any) string {
	err := v.validate.Struct(req)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid_request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + "_required"
	case "max":
		return fe.Field() + "_too_long"
	case "oneof":
		return "invalid_" + fe.Field()
	default:
		return fe.Field() + "_invalid"
	}
}
