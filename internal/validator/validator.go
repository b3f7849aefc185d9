// Package validator checks request models before they are sent to the API.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/AmmannChristian/go-pandago/apierr"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 ()-]{5,19}$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Default returns the shared validator with JSON field names and the custom "phone" rule.
func Default() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "phone", isPhone)
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validator: register %s rule: %v", tag, err))
	}
}

func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func isPhone(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// Check validates v. The first failing field is reported as an *apierr.RequestError with status
// code 0 and the given request context, so callers see the same error kind as for a rejected call.
func Check(method, endpoint string, v any) error {
	if rv := reflect.ValueOf(v); !rv.IsValid() || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return Required(method, endpoint, "request body", "")
	}

	err := Default().Struct(v)
	if err == nil {
		return nil
	}

	msg := "validation failed: " + describe(err)
	return apierr.NewRequestError(apierr.RequestParams{
		Message:  msg,
		Cause:    err,
		Method:   method,
		Endpoint: endpoint,
		Options:  v,
	})
}

// Required reports an empty identifier the same way Check reports a struct field.
func Required(method, endpoint, field, value string) error {
	if strings.TrimSpace(value) != "" {
		return nil
	}
	return apierr.NewRequestError(apierr.RequestParams{
		Message:  fmt.Sprintf("validation failed: %s is required", field),
		Method:   method,
		Endpoint: endpoint,
	})
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "phone":
		return field + " must be a valid phone number"
	case "latitude", "longitude":
		return fmt.Sprintf("%s must be a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}

// fieldPath drops the root type name from a namespace such as "CreateRequest.recipient.name".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
