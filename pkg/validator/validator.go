package validator

import (
	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

func init() {
	// Login codes are short all-digit strings entered on the numeric pad
	validate.RegisterValidation("numeric_pin", func(fl validator.FieldLevel) bool {
		pin, ok := fl.Field().Interface().(string)
		if !ok || len(pin) < 4 || len(pin) > 6 {
			return false
		}
		for _, r := range pin {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
