package dto

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// cepPattern accepts Brazilian postal codes with or without the dash
var cepPattern = regexp.MustCompile(`^\d{5}-?\d{3}$`)

// RegisterValidations installs custom binding rules on gin's validator.
// Must run once before the engine starts serving.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return v.RegisterValidation("cep", func(fl validator.FieldLevel) bool {
		return cepPattern.MatchString(fl.Field().String())
	})
}
