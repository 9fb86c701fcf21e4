// Package validation configures the request validator used by gin binding.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/kasir-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// Register installs the decimal support and json field names on gin's
// validator. It is safe to call more than once.
func Register() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = errors.New("validation: gin validator engine is not go-playground/validator")
			return
		}
		err = Configure(v)
	})
	return err
}

// Configure registers the custom rules on v.
func Configure(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	return v.RegisterValidation("dgte", decimalGTE)
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

// decimalValue lets validator see decimals as their exact string form.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// decimalGTE implements dgte=<n>: the decimal is at least n.
func decimalGTE(fl validator.FieldLevel) bool {
	floor, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	value, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return value.GreaterThanOrEqual(floor)
}

// FieldErrors converts a binding error into field errors for the response.
// ok is false when err is not a validation failure, e.g. malformed JSON.
func FieldErrors(err error) ([]apperror.FieldError, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}
	out := make([]apperror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperror.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out, true
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte", "dgte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "eqfield":
		return fmt.Sprintf("must match %s", fe.Param())
	case "uuid":
		return "must be a valid id"
	}
	return "is invalid"
}
