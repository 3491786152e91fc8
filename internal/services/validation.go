package services

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"makemystay/internal/domain"
	apperrors "makemystay/pkg/errors"
)

// Validator checks request payloads against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	rules := map[string]validator.Func{
		// httpurl: absolute http or https URL with a host
		"httpurl": func(fl validator.FieldLevel) bool {
			return isHTTPURL(fl.Field().String())
		},
		// maxbytes: string length in bytes, for limits like bcrypt's 72
		"maxbytes": func(fl validator.FieldLevel) bool {
			limit, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return len(fl.Field().String()) <= limit
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %q validation: %v", tag, err))
		}
	}

	return &Validator{validate: v}
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Struct validates s and returns a ValidationError describing the first
// failing field.
func (v *Validator) Struct(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		return toValidationError(err, "")
	}
	return nil
}

// checkOptional validates the value of a set, non-null patch field.
func checkOptional[T any](v *Validator, field string, o domain.Optional[T], tag string) error {
	if o.Value == nil {
		return nil
	}
	if err := v.validate.Var(*o.Value, tag); err != nil {
		return toValidationError(err, field)
	}
	return nil
}

func toValidationError(err error, field string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.Validation(err.Error())
	}
	fe := verrs[0]
	name := field
	if name == "" {
		name = fe.Field()
	}
	return apperrors.Validation(fmt.Sprintf("%s %s", name, describe(fe)))
}

func describe(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "httpurl":
		return "must be a valid URL starting with http:// or https://"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "min":
		if isString {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if isString {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "maxbytes":
		return fmt.Sprintf("must be at most %s bytes", fe.Param())
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	}
	return fmt.Sprintf("failed the %q rule", fe.Tag())
}

type nonNull struct {
	field  string
	isNull bool
}

// requireNonNull rejects an explicit null on a column that cannot be cleared.
func requireNonNull(fields ...nonNull) error {
	for _, f := range fields {
		if f.isNull {
			return apperrors.Validation(fmt.Sprintf("%s cannot be null", f.field))
		}
	}
	return nil
}

func trimOptional(o domain.Optional[string]) domain.Optional[string] {
	if o.Value == nil {
		return o
	}
	return domain.Some(strings.TrimSpace(*o.Value))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
