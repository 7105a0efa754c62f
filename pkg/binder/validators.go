package binder

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	dateRE = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
	skuRE  = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
)

// dateValidator accepts YYYY-MM-DD or the empty string. Pair it with
// `required` when the value must be present.
func dateValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return dateRE.MatchString(value)
}

func skuValidator(fl validator.FieldLevel) bool {
	return skuRE.MatchString(fl.Field().String())
}
