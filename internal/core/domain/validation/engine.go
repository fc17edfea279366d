package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"orderwizard/internal/core/domain/model/client"

	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(`^\+380\d{9}$`)

// Engine holds the configured struct validator. It is safe for concurrent use.
type Engine struct {
	v *validator.Validate
}

// New builds an Engine. Field names in results are the json names of the fields.
func New() *Engine {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(client.NormalizePhone(fl.Field().String()))
	})

	return &Engine{v: v}
}

// structResult runs the tag rules of s.
func (e *Engine) structResult(s any) Result {
	r := newResult()

	err := e.v.Struct(s)
	if err == nil {
		return r
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.IsValid = false
		r.Errors = append(r.Errors, err.Error())
		return r
	}

	for _, fe := range fieldErrs {
		r.AddFieldError(fieldPath(fe), message(fe))
	}
	return r
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("must have at most %s entries", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a valid Ukrainian phone number"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return fmt.Sprintf("failed %q rule", fe.Tag())
}
